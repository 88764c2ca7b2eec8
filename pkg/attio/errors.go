package attio

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fivetwenty-io/attio/internal/constants"
)

// Sentinel errors surfaced through the public API. Callers match them with
// errors.Is.
var (
	ErrConfigRequired      = constants.ErrConfigRequired
	ErrNoCredentials       = constants.ErrNoCredentials
	ErrInvalidAPIEndpoint  = constants.ErrInvalidAPIEndpoint
	ErrSSLOnlyInDev        = constants.ErrSSLOnlyInDev
	ErrCABundleNoCerts     = constants.ErrCABundleNoCerts
	ErrEnvConfigIncomplete = constants.ErrEnvConfigIncomplete
	ErrIteratorExhausted   = constants.ErrIteratorExhausted
	ErrSignatureMissing    = constants.ErrSignatureMissing
	ErrTimestampMissing    = constants.ErrTimestampMissing
)

// ErrorKind categorizes a failed API call or transport exchange.
type ErrorKind string

// Error kinds produced by the SDK.
const (
	// ErrorKindAPI is the fallback for statuses outside every mapped range.
	ErrorKindAPI ErrorKind = "api_error"

	// ErrorKindBadRequest maps HTTP 400.
	ErrorKindBadRequest ErrorKind = "bad_request"

	// ErrorKindAuthentication maps HTTP 401 and missing/empty API keys.
	ErrorKindAuthentication ErrorKind = "authentication"

	// ErrorKindForbidden maps HTTP 403.
	ErrorKindForbidden ErrorKind = "forbidden"

	// ErrorKindNotFound maps HTTP 404.
	ErrorKindNotFound ErrorKind = "not_found"

	// ErrorKindConflict maps HTTP 409.
	ErrorKindConflict ErrorKind = "conflict"

	// ErrorKindUnprocessableEntity maps HTTP 422.
	ErrorKindUnprocessableEntity ErrorKind = "unprocessable_entity"

	// ErrorKindRateLimit maps HTTP 429.
	ErrorKindRateLimit ErrorKind = "rate_limit"

	// ErrorKindClientError maps any other 4xx status.
	ErrorKindClientError ErrorKind = "client_error"

	// ErrorKindInternalServer maps HTTP 500.
	ErrorKindInternalServer ErrorKind = "internal_server"

	// ErrorKindBadGateway maps HTTP 502.
	ErrorKindBadGateway ErrorKind = "bad_gateway"

	// ErrorKindServiceUnavailable maps HTTP 503.
	ErrorKindServiceUnavailable ErrorKind = "service_unavailable"

	// ErrorKindGatewayTimeout maps HTTP 504.
	ErrorKindGatewayTimeout ErrorKind = "gateway_timeout"

	// ErrorKindServerError maps any other 5xx status.
	ErrorKindServerError ErrorKind = "server_error"

	// ErrorKindConnection is the fallback for transport failures.
	ErrorKindConnection ErrorKind = "connection"

	// ErrorKindTimeout covers deadline and timeout transport failures.
	ErrorKindTimeout ErrorKind = "timeout"

	// ErrorKindSSL covers TLS handshake and certificate failures.
	ErrorKindSSL ErrorKind = "ssl"

	// ErrorKindDNS covers name resolution failures.
	ErrorKindDNS ErrorKind = "dns"

	// ErrorKindSocket covers refused, reset, and unreachable connections.
	ErrorKindSocket ErrorKind = "socket"

	// ErrorKindInvalidResponse covers malformed bodies on success statuses.
	ErrorKindInvalidResponse ErrorKind = "invalid_response"

	// ErrorKindInvalidRequest covers requests rejected before sending.
	ErrorKindInvalidRequest ErrorKind = "invalid_request"

	// ErrorKindSignature covers webhook signature verification failures.
	ErrorKindSignature ErrorKind = "signature_verification"
)

// statusKinds maps exact HTTP statuses to error kinds; unmapped statuses
// fall through to the range rules in KindForStatus.
var statusKinds = map[int]ErrorKind{
	http.StatusBadRequest:          ErrorKindBadRequest,
	http.StatusUnauthorized:        ErrorKindAuthentication,
	http.StatusForbidden:           ErrorKindForbidden,
	http.StatusNotFound:            ErrorKindNotFound,
	http.StatusConflict:            ErrorKindConflict,
	http.StatusUnprocessableEntity: ErrorKindUnprocessableEntity,
	http.StatusTooManyRequests:     ErrorKindRateLimit,
	http.StatusInternalServerError: ErrorKindInternalServer,
	http.StatusBadGateway:          ErrorKindBadGateway,
	http.StatusServiceUnavailable:  ErrorKindServiceUnavailable,
	http.StatusGatewayTimeout:      ErrorKindGatewayTimeout,
}

// kindMessages holds the default message for each kind, used when the
// provider response carries no usable message of its own.
var kindMessages = map[ErrorKind]string{
	ErrorKindAPI:                  "API request failed",
	ErrorKindBadRequest:           "Bad request",
	ErrorKindAuthentication:       "Authentication failed",
	ErrorKindForbidden:            "Access forbidden",
	ErrorKindNotFound:             "Resource not found",
	ErrorKindConflict:             "Resource conflict",
	ErrorKindUnprocessableEntity:  "Unprocessable entity",
	ErrorKindRateLimit:            "Rate limit exceeded",
	ErrorKindClientError:          "Client error",
	ErrorKindInternalServer:       "Internal server error",
	ErrorKindBadGateway:           "Bad gateway",
	ErrorKindServiceUnavailable:   "Service unavailable",
	ErrorKindGatewayTimeout:       "Gateway timeout",
	ErrorKindServerError:          "Server error",
	ErrorKindConnection:           "Connection failed",
	ErrorKindTimeout:              "Request timed out",
	ErrorKindSSL:                  "TLS connection failed",
	ErrorKindDNS:                  "DNS resolution failed",
	ErrorKindSocket:               "Socket connection failed",
	ErrorKindInvalidResponse:      "Invalid response body",
	ErrorKindInvalidRequest:       "Invalid request",
	ErrorKindSignature:            "Webhook signature verification failed",
}

// connectionKinds is the transport failure family; every member also
// satisfies IsConnection.
var connectionKinds = map[ErrorKind]bool{
	ErrorKindConnection: true,
	ErrorKindTimeout:    true,
	ErrorKindSSL:        true,
	ErrorKindDNS:        true,
	ErrorKindSocket:     true,
}

// KindForStatus returns the error kind for an HTTP status code.
func KindForStatus(status int) ErrorKind {
	if kind, ok := statusKinds[status]; ok {
		return kind
	}

	switch {
	case status >= 400 && status < 500:
		return ErrorKindClientError
	case status >= 500 && status < 600:
		return ErrorKindServerError
	default:
		return ErrorKindAPI
	}
}

// ValidationIssue describes one invalid field reported by the API on a 400
// or 422 response. Path segments may be attribute slugs or array indexes.
type ValidationIssue struct {
	Code    string        `json:"code,omitempty"    yaml:"code,omitempty"`
	Path    []interface{} `json:"path,omitempty"    yaml:"path,omitempty"`
	Message string        `json:"message,omitempty" yaml:"message,omitempty"`
}

// ErrorRequest captures the request side of a failed exchange. Headers and
// params are sanitized before being stored here.
type ErrorRequest struct {
	Method  string                 `json:"method,omitempty" yaml:"method,omitempty"`
	URL     string                 `json:"url,omitempty"     yaml:"url,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty" yaml:"params,omitempty"`
	Headers map[string]string      `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// ErrorResponse captures the response side of a failed exchange. Body is
// truncated to ErrorBodyTruncationLimit with an explicit marker.
type ErrorResponse struct {
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body    string            `json:"body,omitempty"    yaml:"body,omitempty"`
}

// Error is the single error type for all API and transport failures. The
// Kind field carries the classification; all kinds share this payload.
type Error struct {
	Kind       ErrorKind         `json:"kind"`
	Message    string            `json:"message"`
	Code       string            `json:"code,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	HTTPStatus int               `json:"status,omitempty"`
	RetryAfter *int              `json:"retry_after,omitempty"`
	Validation []ValidationIssue `json:"validation,omitempty"`
	Request    *ErrorRequest     `json:"request,omitempty"`
	Response   *ErrorResponse    `json:"response,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`

	err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	message := e.Message
	if message == "" {
		message = kindMessages[e.Kind]
	}

	if message == "" {
		message = "unknown error"
	}

	if e.HTTPStatus > 0 {
		return fmt.Sprintf("%s: %s (status: %d)", e.Kind, message, e.HTTPStatus)
	}

	return fmt.Sprintf("%s: %s", e.Kind, message)
}

// Unwrap returns the underlying transport error, if any.
func (e *Error) Unwrap() error {
	return e.err
}

// ToMap returns a structured diagnostic mapping nested under "error",
// "request", and "response" sections. Empty sections are omitted.
func (e *Error) ToMap() map[string]interface{} {
	errSection := map[string]interface{}{
		"kind":    string(e.Kind),
		"message": e.Message,
	}

	if e.Code != "" {
		errSection["code"] = e.Code
	}

	if e.RequestID != "" {
		errSection["request_id"] = e.RequestID
	}

	if e.HTTPStatus != 0 {
		errSection["status"] = e.HTTPStatus
	}

	if e.RetryAfter != nil {
		errSection["retry_after"] = *e.RetryAfter
	}

	if len(e.Validation) > 0 {
		errSection["validation"] = e.Validation
	}

	if !e.OccurredAt.IsZero() {
		errSection["occurred_at"] = e.OccurredAt.UTC().Format(time.RFC3339)
	}

	result := map[string]interface{}{"error": errSection}

	if e.Request != nil && (e.Request.Method != "" || e.Request.URL != "" || len(e.Request.Params) > 0 || len(e.Request.Headers) > 0) {
		reqSection := map[string]interface{}{}
		if e.Request.Method != "" {
			reqSection["method"] = e.Request.Method
		}

		if e.Request.URL != "" {
			reqSection["url"] = e.Request.URL
		}

		if len(e.Request.Params) > 0 {
			reqSection["params"] = e.Request.Params
		}

		if len(e.Request.Headers) > 0 {
			reqSection["headers"] = e.Request.Headers
		}

		result["request"] = reqSection
	}

	if e.Response != nil && (len(e.Response.Headers) > 0 || e.Response.Body != "") {
		respSection := map[string]interface{}{}
		if len(e.Response.Headers) > 0 {
			respSection["headers"] = e.Response.Headers
		}

		if e.Response.Body != "" {
			respSection["body"] = e.Response.Body
		}

		result["response"] = respSection
	}

	return result
}

// MarshalJSON serializes the error as its diagnostic mapping.
func (e *Error) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(e.ToMap())
	if err != nil {
		return nil, fmt.Errorf("marshaling error: %w", err)
	}

	return data, nil
}

// NewError creates an error of the given kind with its default message.
func NewError(kind ErrorKind, message string) *Error {
	if message == "" {
		message = kindMessages[kind]
	}

	return &Error{
		Kind:       kind,
		Message:    message,
		OccurredAt: time.Now().UTC(),
	}
}

// WrapError builds a typed error around an underlying cause. The cause
// stays reachable through errors.Is and errors.As.
func WrapError(kind ErrorKind, message string, err error) *Error {
	wrapped := NewError(kind, message)
	wrapped.err = err

	return wrapped
}

// InvalidResponseError reports a success-status body that could not be
// decoded as JSON. The original status, headers, and body are retained for
// diagnosis.
func InvalidResponseError(status int, headers http.Header, body []byte, err error) *Error {
	return &Error{
		Kind:       ErrorKindInvalidResponse,
		Message:    fmt.Sprintf("invalid JSON in response body: %v", err),
		HTTPStatus: status,
		RequestID:  requestIDFromHeaders(headers),
		OccurredAt: time.Now().UTC(),
		Response: &ErrorResponse{
			Headers: headersToMap(headers),
			Body:    TruncateBody(string(body)),
		},
		err: err,
	}
}

// apiErrorBody is the provider error envelope. The error field may be a
// bare string or an object carrying its own message.
type apiErrorBody struct {
	StatusCode       int               `json:"status_code"`
	Type             string            `json:"type"`
	Code             string            `json:"code"`
	Message          string            `json:"message"`
	Err              json.RawMessage   `json:"error"`
	ValidationErrors []ValidationIssue `json:"validation_errors"`
}

// ErrorFromResponse builds the typed error for a non-success API response.
// The message is taken from the provider message or error field when the
// body parses as JSON, falling back to the raw body text. Retry-After is
// captured for 429 and 503 responses when it parses as integer seconds.
func ErrorFromResponse(status int, headers http.Header, body []byte) *Error {
	kind := KindForStatus(status)
	apiErr := &Error{
		Kind:       kind,
		HTTPStatus: status,
		RequestID:  requestIDFromHeaders(headers),
		OccurredAt: time.Now().UTC(),
		Response: &ErrorResponse{
			Headers: headersToMap(headers),
			Body:    TruncateBody(string(body)),
		},
	}

	var parsed apiErrorBody
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		apiErr.Message = providerMessage(&parsed)
		apiErr.Code = parsed.Code

		if apiErr.Code == "" {
			apiErr.Code = parsed.Type
		}

		apiErr.Validation = parsed.ValidationErrors
	}

	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(TruncateBody(string(body)))
	}

	if apiErr.Message == "" {
		apiErr.Message = kindMessages[kind]
	}

	if status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable {
		apiErr.RetryAfter = retryAfterSeconds(headers)
	}

	return apiErr
}

// providerMessage extracts the human message from a parsed error body,
// preferring "message", then "error" as a string, then "error.message".
func providerMessage(parsed *apiErrorBody) string {
	if parsed.Message != "" {
		return parsed.Message
	}

	if len(parsed.Err) == 0 {
		return ""
	}

	var text string
	if json.Unmarshal(parsed.Err, &text) == nil {
		return text
	}

	var nested struct {
		Message string `json:"message"`
	}

	if json.Unmarshal(parsed.Err, &nested) == nil {
		return nested.Message
	}

	return ""
}

// ErrorFromTransport classifies a transport-level failure into the
// connection family of kinds.
func ErrorFromTransport(err error) *Error {
	kind := classifyTransportError(err)

	return &Error{
		Kind:       kind,
		Message:    err.Error(),
		OccurredAt: time.Now().UTC(),
		err:        err,
	}
}

func classifyTransportError(err error) ErrorKind {
	if err == nil {
		return ErrorKindConnection
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorKindTimeout
	}

	var certVerify *tls.CertificateVerificationError
	var unknownAuthority x509.UnknownAuthorityError
	var hostnameErr x509.HostnameError
	var certInvalid x509.CertificateInvalidError

	if errors.As(err, &certVerify) || errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostnameErr) || errors.As(err, &certInvalid) {
		return ErrorKindSSL
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrorKindDNS
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return ErrorKindSocket
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorKindTimeout
	}

	return ErrorKindConnection
}

// TransientTransportError reports whether a transport failure is worth
// retrying. TLS failures and context cancellation are permanent.
func TransientTransportError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	switch classifyTransportError(err) {
	case ErrorKindTimeout, ErrorKindDNS, ErrorKindSocket, ErrorKindConnection:
		return true
	case ErrorKindSSL:
		return false
	default:
		return false
	}
}

// requestIDHeaders lists accepted request id header spellings, checked in
// order.
var requestIDHeaders = []string{"X-Request-Id", "Request-Id", "X-Attio-Request-Id"}

func requestIDFromHeaders(headers http.Header) string {
	for _, name := range requestIDHeaders {
		if value := headers.Get(name); value != "" {
			return value
		}
	}

	return ""
}

func retryAfterSeconds(headers http.Header) *int {
	raw := strings.TrimSpace(headers.Get("Retry-After"))
	if raw == "" {
		return nil
	}

	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return nil
	}

	return &seconds
}

func headersToMap(headers http.Header) map[string]string {
	if len(headers) == 0 {
		return nil
	}

	result := make(map[string]string, len(headers))
	for name := range headers {
		result[name] = headers.Get(name)
	}

	return result
}

// TruncateBody cuts a response body at the capture limit, appending an
// explicit truncation marker.
func TruncateBody(body string) string {
	if len(body) <= constants.ErrorBodyTruncationLimit {
		return body
	}

	return body[:constants.ErrorBodyTruncationLimit] + constants.TruncationMarker
}

// sensitiveKeyFragments flags header and parameter names that must never
// appear in logs or error payloads.
var sensitiveKeyFragments = []string{"api_key", "api-key", "apikey", "authorization", "token", "secret", "password"}

func isSensitiveKey(key string) bool {
	lowered := strings.ToLower(key)
	for _, fragment := range sensitiveKeyFragments {
		if strings.Contains(lowered, fragment) {
			return true
		}
	}

	return false
}

// SanitizeHeaders returns a copy of headers with credential values masked.
func SanitizeHeaders(headers map[string]string) map[string]string {
	if headers == nil {
		return nil
	}

	result := make(map[string]string, len(headers))
	for name, value := range headers {
		if isSensitiveKey(name) {
			result[name] = constants.MaskedSecret
		} else {
			result[name] = value
		}
	}

	return result
}

// SanitizeParams returns a deep copy of params with credential values
// masked, descending into nested maps and slices.
func SanitizeParams(params map[string]interface{}) map[string]interface{} {
	if params == nil {
		return nil
	}

	result := make(map[string]interface{}, len(params))
	for key, value := range params {
		if isSensitiveKey(key) {
			result[key] = constants.MaskedSecret

			continue
		}

		result[key] = sanitizeValue(value)
	}

	return result
}

func sanitizeValue(value interface{}) interface{} {
	switch typed := value.(type) {
	case map[string]interface{}:
		return SanitizeParams(typed)
	case []interface{}:
		copied := make([]interface{}, len(typed))
		for i, element := range typed {
			copied[i] = sanitizeValue(element)
		}

		return copied
	default:
		return value
	}
}

func errorKindOf(err error) (ErrorKind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}

	return "", false
}

// IsNotFound returns true if the error represents a 404 response.
func IsNotFound(err error) bool {
	kind, ok := errorKindOf(err)

	return ok && kind == ErrorKindNotFound
}

// IsAuthentication returns true if the error represents a 401 response or
// a missing API key.
func IsAuthentication(err error) bool {
	kind, ok := errorKindOf(err)

	return ok && kind == ErrorKindAuthentication
}

// IsForbidden returns true if the error represents a 403 response.
func IsForbidden(err error) bool {
	kind, ok := errorKindOf(err)

	return ok && kind == ErrorKindForbidden
}

// IsConflict returns true if the error represents a 409 response.
func IsConflict(err error) bool {
	kind, ok := errorKindOf(err)

	return ok && kind == ErrorKindConflict
}

// IsUnprocessableEntity returns true if the error represents a 422 response.
func IsUnprocessableEntity(err error) bool {
	kind, ok := errorKindOf(err)

	return ok && kind == ErrorKindUnprocessableEntity
}

// IsRateLimit returns true if the error represents a 429 response.
func IsRateLimit(err error) bool {
	kind, ok := errorKindOf(err)

	return ok && kind == ErrorKindRateLimit
}

// IsTimeout returns true if the request failed on a deadline or timeout.
func IsTimeout(err error) bool {
	kind, ok := errorKindOf(err)

	return ok && kind == ErrorKindTimeout
}

// IsConnection returns true for any transport-level failure, including
// timeout, TLS, DNS, and socket kinds.
func IsConnection(err error) bool {
	kind, ok := errorKindOf(err)

	return ok && connectionKinds[kind]
}

// IsInvalidResponse returns true if a success response carried an
// unparseable body.
func IsInvalidResponse(err error) bool {
	kind, ok := errorKindOf(err)

	return ok && kind == ErrorKindInvalidResponse
}

// IsSignature returns true if webhook signature verification failed.
func IsSignature(err error) bool {
	kind, ok := errorKindOf(err)

	return ok && kind == ErrorKindSignature
}

// IsClientError returns true for any 4xx-mapped kind.
func IsClientError(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.HTTPStatus >= 400 && apiErr.HTTPStatus < 500
}

// IsServerError returns true for any 5xx-mapped kind.
func IsServerError(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.HTTPStatus >= 500 && apiErr.HTTPStatus < 600
}
