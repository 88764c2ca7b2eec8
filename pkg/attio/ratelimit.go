package attio

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/fivetwenty-io/attio/internal/constants"
)

// RateLimitHandler computes waits for throttled requests and retries
// operations that fail with the rate-limit kind. It is independent of the
// transport retry loop, which never retries HTTP statuses; this handler is
// for application-level retry around one or more API calls.
type RateLimitHandler struct {
	defaultWait time.Duration
	maxWait     time.Duration
}

// RateLimitOption configures a RateLimitHandler.
type RateLimitOption func(*RateLimitHandler)

// WithDefaultWait sets the base wait used when the server sends no
// Retry-After hint.
func WithDefaultWait(wait time.Duration) RateLimitOption {
	return func(h *RateLimitHandler) {
		h.defaultWait = wait
	}
}

// WithMaxWait caps every computed wait.
func WithMaxWait(ceiling time.Duration) RateLimitOption {
	return func(h *RateLimitHandler) {
		h.maxWait = ceiling
	}
}

// NewRateLimitHandler creates a handler with the package default wait and
// ceiling.
func NewRateLimitHandler(opts ...RateLimitOption) *RateLimitHandler {
	handler := &RateLimitHandler{
		defaultWait: constants.DefaultRateLimitWait,
		maxWait:     constants.MaxRateLimitWait,
	}

	for _, opt := range opts {
		opt(handler)
	}

	return handler
}

// ComputeWait returns how long to wait before retrying a throttled call.
// A server Retry-After hint wins over the exponential schedule; either way
// the base is capped at the ceiling and then jittered by plus or minus ten
// percent.
func (h *RateLimitHandler) ComputeWait(err error, attempt int) time.Duration {
	base := h.defaultWait

	for i := 1; i < attempt; i++ {
		base *= constants.ExponentialBackoffBase
		if base >= h.maxWait {
			break
		}
	}

	if hint, ok := retryAfterHint(err); ok {
		base = hint
	}

	if base > h.maxWait {
		base = h.maxWait
	}

	return jitterWait(base)
}

// WithRetry runs operation until it succeeds, fails with a non-rate-limit
// error, or exhausts maxAttempts. Between rate-limited attempts it sleeps
// for ComputeWait, honoring context cancellation.
func (h *RateLimitHandler) WithRetry(ctx context.Context, maxAttempts int, operation func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = operation(ctx)
		if lastErr == nil {
			return nil
		}

		if !IsRateLimit(lastErr) || attempt == maxAttempts {
			return lastErr
		}

		err := sleepContext(ctx, h.ComputeWait(lastErr, attempt))
		if err != nil {
			return err
		}
	}

	return lastErr
}

func retryAfterHint(err error) (time.Duration, bool) {
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.RetryAfter == nil || *apiErr.RetryAfter < 0 {
		return 0, false
	}

	return time.Duration(*apiErr.RetryAfter) * time.Second, true
}

func jitterWait(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}

	spread := constants.RateLimitJitterFraction
	factor := 1 - spread + rand.Float64()*2*spread //nolint:gosec // Jitter does not need a cryptographic source

	return time.Duration(float64(base) * factor)
}

func sleepContext(ctx context.Context, wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
