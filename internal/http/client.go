package http

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fivetwenty-io/attio/internal/auth"
	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/pkg/attio"
	"github.com/hashicorp/go-retryablehttp"
)

// Logger is the logging interface accepted by the HTTP client.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client executes API requests over pooled per-origin transports, retrying
// transient transport failures with exponential backoff. HTTP error
// statuses are never retried here; they surface as typed errors for the
// caller (or a rate-limit wrapper) to handle.
type Client struct {
	baseURL      string
	apiVersion   string
	userAgent    string
	tokenManager auth.TokenManager
	logger       Logger
	debug        bool

	timeout        time.Duration
	connectTimeout time.Duration
	retryMax       int
	retryWaitMin   time.Duration
	retryWaitMax   time.Duration
	tlsConfig      *tls.Config
	poolLimit      int
	keepAlive      time.Duration
	transport      http.RoundTripper
	interceptors   *attio.InterceptorChain

	pool        *TransportPool
	retryClient *retryablehttp.Client
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging with credentials redacted.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithAPIVersion overrides the version segment joined into request URLs.
// An empty version disables the segment entirely.
func WithAPIVersion(version string) Option {
	return func(c *Client) {
		c.apiVersion = version
	}
}

// WithRetryConfig tunes the transient-failure retry loop. max is the number
// of retries after the initial attempt.
func WithRetryConfig(max int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = max
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithTimeout bounds each attempt end to end.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithConnectTimeout bounds dialing a new connection.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.connectTimeout = timeout
	}
}

// WithTLSConfig applies TLS settings to every pooled transport.
func WithTLSConfig(config *tls.Config) Option {
	return func(c *Client) {
		c.tlsConfig = config
	}
}

// WithPoolConfig bounds the transport pool and its keep-alive window.
func WithPoolConfig(limit int, keepAlive time.Duration) Option {
	return func(c *Client) {
		c.poolLimit = limit
		c.keepAlive = keepAlive
	}
}

// WithTransport substitutes the transport pool with a caller-supplied
// round tripper.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithInterceptors runs the chain around every request: request
// interceptors may rewrite headers, bound the context, or serve the call
// from cache; response interceptors observe and may rewrite the outcome.
func WithInterceptors(chain *attio.InterceptorChain) Option {
	return func(c *Client) {
		c.interceptors = chain
	}
}

// NewClient creates an HTTP client for the API at baseURL. A nil token
// manager sends requests unauthenticated, which only test servers accept.
func NewClient(baseURL string, tokenManager auth.TokenManager, opts ...Option) *Client {
	client := &Client{
		baseURL:        trimTrailingSlash(baseURL),
		apiVersion:     constants.DefaultAPIVersion,
		userAgent:      constants.DefaultUserAgent,
		tokenManager:   tokenManager,
		timeout:        constants.DefaultHTTPTimeout,
		connectTimeout: constants.DefaultConnectTimeout,
		retryMax:       constants.DefaultRetryMax,
		retryWaitMin:   constants.DefaultRetryWaitMin,
		retryWaitMax:   constants.DefaultRetryWaitMax,
		poolLimit:      constants.DefaultPoolSize,
		keepAlive:      constants.DefaultKeepAlive,
	}

	for _, opt := range opts {
		opt(client)
	}

	transport := client.transport
	if transport == nil {
		client.pool = NewTransportPool(client.tlsConfig, client.poolLimit, client.keepAlive, client.connectTimeout)
		transport = client.pool
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = &http.Client{Transport: transport, Timeout: client.timeout}
	retryClient.RetryMax = client.retryMax
	retryClient.RetryWaitMin = client.retryWaitMin
	retryClient.RetryWaitMax = client.retryWaitMax
	retryClient.Logger = nil
	retryClient.CheckRetry = transientRetryPolicy
	retryClient.Backoff = retryablehttp.DefaultBackoff
	retryClient.ErrorHandler = func(resp *http.Response, err error, _ int) (*http.Response, error) {
		return resp, err
	}

	client.retryClient = retryClient

	return client
}

// transientRetryPolicy retries transport-level failures only: timeouts,
// refused or reset connections, unreachable hosts, DNS failures, and
// protocol errors. TLS failures, context cancellation, and HTTP error
// statuses are surfaced without retry.
func transientRetryPolicy(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		return attio.TransientTransportError(err), nil
	}

	return false, nil
}

// Response is the raw result of an API call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// DecodeJSON unmarshals the response body into target. An empty body leaves
// target untouched; malformed JSON surfaces as an invalid-response error
// carrying the original status, headers, and body.
func (r *Response) DecodeJSON(target interface{}) error {
	if len(r.Body) == 0 {
		return nil
	}

	if err := json.Unmarshal(r.Body, target); err != nil {
		return attio.InvalidResponseError(r.StatusCode, r.Headers, r.Body, err)
	}

	return nil
}

// Do executes the request and returns the raw response. Statuses outside
// [200, 300) return both the response and a typed error describing it.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	requestBytes, err := requestBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := c.buildRequest(ctx, req, requestBytes)
	if err != nil {
		return nil, err
	}

	chainReq, err := c.interceptRequest(ctx, req, httpReq, requestBytes)
	if err != nil {
		return nil, err
	}

	if chainReq != nil {
		defer attio.ReleaseRequest(chainReq)

		if data, ok := attio.CachedResponse(chainReq); ok {
			cached := &Response{
				StatusCode: http.StatusOK,
				Headers:    http.Header{"X-Cache": []string{"HIT"}},
				Body:       data,
			}

			return c.interceptResponse(ctx, chainReq, cached, nil)
		}

		if chainReq.Context != nil {
			httpReq = httpReq.WithContext(chainReq.Context)
		}
	}

	c.logRequest(httpReq)

	start := time.Now()

	httpResp, err := c.retryClient.Do(httpReq)
	if err != nil {
		if httpResp != nil {
			_ = httpResp.Body.Close()
		}

		if !errors.Is(err, context.Canceled) {
			err = c.transportError(req, httpReq, err)
		}

		c.observeFailure(ctx, chainReq, err)

		return nil, err
	}

	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		err = c.transportError(req, httpReq, err)
		c.observeFailure(ctx, chainReq, err)

		return nil, err
	}

	response := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	c.logResponse(response, time.Since(start))

	var apiErr *attio.Error
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		apiErr = attio.ErrorFromResponse(response.StatusCode, response.Headers, body)
		apiErr.Request = c.errorRequestContext(req, httpReq)
	}

	return c.interceptResponse(ctx, chainReq, response, apiErr)
}

// interceptRequest runs the request side of the interceptor chain. It
// returns nil when no chain is configured.
func (c *Client) interceptRequest(ctx context.Context, req *Request, httpReq *retryablehttp.Request, body []byte) (*attio.Request, error) {
	if c.interceptors == nil {
		return nil, nil
	}

	path := normalizePath(req.Path)
	if encoded := c.encodedQuery(req); encoded != "" {
		path += "?" + encoded
	}

	// Headers alias the outgoing request so interceptor mutations apply.
	chainReq := &attio.Request{
		Method:   req.Method,
		Path:     path,
		Headers:  httpReq.Header,
		Body:     body,
		Context:  ctx,
		Metadata: make(map[string]interface{}),
	}

	if err := c.interceptors.ExecuteRequestInterceptors(ctx, chainReq); err != nil {
		attio.ReleaseRequest(chainReq)

		return nil, err
	}

	return chainReq, nil
}

// interceptResponse runs the response side of the interceptor chain and
// applies any rewrites, such as a 304 replaced by the payload it
// revalidates. A rewrite into a success cancels the typed error.
func (c *Client) interceptResponse(ctx context.Context, chainReq *attio.Request, response *Response, apiErr *attio.Error) (*Response, error) {
	if chainReq != nil {
		chainResp := &attio.Response{
			StatusCode: response.StatusCode,
			Headers:    response.Headers,
			Body:       response.Body,
		}
		if apiErr != nil {
			chainResp.Error = apiErr
		}

		if err := c.interceptors.ExecuteResponseInterceptors(ctx, chainReq, chainResp); err != nil {
			return response, err
		}

		response.StatusCode = chainResp.StatusCode
		response.Headers = chainResp.Headers
		response.Body = chainResp.Body

		if apiErr != nil && response.StatusCode >= 200 && response.StatusCode < 300 {
			apiErr = nil
		}
	}

	if apiErr != nil {
		return response, apiErr
	}

	return response, nil
}

// observeFailure reports a failed attempt to the response interceptors, so
// breakers and metrics see transport errors too.
func (c *Client) observeFailure(ctx context.Context, chainReq *attio.Request, err error) {
	if chainReq == nil {
		return
	}

	_ = c.interceptors.ExecuteResponseInterceptors(ctx, chainReq, &attio.Response{Error: err})
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// CloseIdleConnections drops idle connections across the transport pool.
func (c *Client) CloseIdleConnections() {
	if c.pool != nil {
		c.pool.CloseIdleConnections()
	}
}

func (c *Client) transportError(req *Request, httpReq *retryablehttp.Request, err error) error {
	apiErr := attio.ErrorFromTransport(err)
	apiErr.Request = c.errorRequestContext(req, httpReq)

	return apiErr
}

func (c *Client) errorRequestContext(req *Request, httpReq *retryablehttp.Request) *attio.ErrorRequest {
	return &attio.ErrorRequest{
		Method:  httpReq.Method,
		URL:     httpReq.URL.String(),
		Params:  attio.SanitizeParams(req.Params),
		Headers: attio.SanitizeHeaders(headerMap(httpReq.Header)),
	}
}

func (c *Client) logRequest(httpReq *retryablehttp.Request) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method":  httpReq.Method,
		"url":     httpReq.URL.String(),
		"headers": attio.SanitizeHeaders(headerMap(httpReq.Header)),
	})
}

func (c *Client) logResponse(response *Response, duration time.Duration) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"status":      response.StatusCode,
		"duration_ms": duration.Milliseconds(),
		"body_bytes":  len(response.Body),
	})
}

func headerMap(header http.Header) map[string]string {
	result := make(map[string]string, len(header))
	for name := range header {
		result[name] = header.Get(name)
	}

	return result
}

func trimTrailingSlash(baseURL string) string {
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}

	return baseURL
}
