package attio

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strconv"
	"time"

	"github.com/fivetwenty-io/attio/internal/constants"
)

// Webhook delivery headers.
const (
	// SignatureHeader carries the "v1={hex}" HMAC of a webhook delivery.
	SignatureHeader = "Attio-Signature"

	// TimestampHeader carries the delivery time as unix seconds.
	TimestampHeader = "Attio-Timestamp"
)

// WebhookVerifier validates webhook deliveries signed with a shared secret.
// The signature header carries an HMAC-SHA256 of "{timestamp}.{payload}"
// formatted as "v1={hex}", and the timestamp header is unix seconds.
type WebhookVerifier struct {
	secret    string
	tolerance time.Duration
	now       func() time.Time
}

// WebhookVerifierOption configures a WebhookVerifier.
type WebhookVerifierOption func(*WebhookVerifier)

// WithSignatureTolerance overrides the permitted clock skew between the
// delivery timestamp and the local clock.
func WithSignatureTolerance(tolerance time.Duration) WebhookVerifierOption {
	return func(v *WebhookVerifier) {
		v.tolerance = tolerance
	}
}

// NewWebhookVerifier creates a verifier for the given webhook secret.
func NewWebhookVerifier(secret string, opts ...WebhookVerifierOption) *WebhookVerifier {
	verifier := &WebhookVerifier{
		secret:    secret,
		tolerance: constants.SignatureTolerance,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(verifier)
	}

	return verifier
}

// Verify checks a delivery's signature and timestamp headers against the
// payload. It returns nil for an authentic, timely delivery and a
// signature-kind error otherwise. The signature comparison is constant
// time.
func (v *WebhookVerifier) Verify(payload []byte, signature, timestamp string) error {
	if v.secret == "" {
		return NewError(ErrorKindSignature, "webhook secret is not configured")
	}

	seconds, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return WrapError(ErrorKindSignature, "invalid webhook timestamp", err)
	}

	skew := v.now().Sub(time.Unix(seconds, 0))
	if skew > v.tolerance || skew < -v.tolerance {
		return NewError(ErrorKindSignature, "webhook timestamp outside tolerance")
	}

	expected := v.expectedSignature(payload, timestamp)
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return NewError(ErrorKindSignature, "webhook signature mismatch")
	}

	return nil
}

// VerifyRequest validates a webhook delivery straight from its request
// headers. body must be the raw bytes as received, before any decoding.
func (v *WebhookVerifier) VerifyRequest(headers http.Header, body []byte) error {
	signature := headers.Get(SignatureHeader)
	if signature == "" {
		return WrapError(ErrorKindSignature, "rejecting webhook delivery", constants.ErrSignatureMissing)
	}

	timestamp := headers.Get(TimestampHeader)
	if timestamp == "" {
		return WrapError(ErrorKindSignature, "rejecting webhook delivery", constants.ErrTimestampMissing)
	}

	return v.Verify(body, signature, timestamp)
}

// Sign produces the timestamp and signature header values for a payload,
// for use by tests and delivery simulators.
func (v *WebhookVerifier) Sign(payload []byte, at time.Time) (timestamp, signature string) {
	timestamp = strconv.FormatInt(at.Unix(), 10)

	return timestamp, v.expectedSignature(payload, timestamp)
}

func (v *WebhookVerifier) expectedSignature(payload []byte, timestamp string) string {
	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)

	return constants.SignatureScheme + "=" + hex.EncodeToString(mac.Sum(nil))
}
