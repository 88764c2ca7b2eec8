package attio

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

// Metadata keys used to pass state between paired interceptors.
const (
	metadataStartTime      = "start_time"
	metadataTimeoutCancel  = "timeout_cancel"
	metadataBreakerDone    = "breaker_done"
	metadataCachedResponse = "cached_response"
)

// Request represents an API request that can be intercepted before it is
// sent. Headers and Context mutations are applied to the outgoing request.
type Request struct {
	Method   string
	Path     string
	Headers  http.Header
	Body     []byte
	Context  context.Context
	Metadata map[string]interface{}
}

// Response represents an API response that can be intercepted.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Error      error
}

// RequestInterceptor is called before a request is sent.
type RequestInterceptor func(ctx context.Context, req *Request) error

// ResponseInterceptor is called after a response is received.
type ResponseInterceptor func(ctx context.Context, req *Request, resp *Response) error

// InterceptorChain manages a chain of interceptors.
type InterceptorChain struct {
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// NewInterceptorChain creates a new interceptor chain.
func NewInterceptorChain() *InterceptorChain {
	return &InterceptorChain{
		requestInterceptors:  make([]RequestInterceptor, 0),
		responseInterceptors: make([]ResponseInterceptor, 0),
	}
}

// AddRequestInterceptor adds a request interceptor to the chain.
func (c *InterceptorChain) AddRequestInterceptor(interceptor RequestInterceptor) {
	c.requestInterceptors = append(c.requestInterceptors, interceptor)
}

// AddResponseInterceptor adds a response interceptor to the chain.
func (c *InterceptorChain) AddResponseInterceptor(interceptor ResponseInterceptor) {
	c.responseInterceptors = append(c.responseInterceptors, interceptor)
}

// ExecuteRequestInterceptors runs all request interceptors in registration
// order, stopping at the first failure.
func (c *InterceptorChain) ExecuteRequestInterceptors(ctx context.Context, req *Request) error {
	for _, interceptor := range c.requestInterceptors {
		err := interceptor(ctx, req)
		if err != nil {
			return fmt.Errorf("request interceptor failed: %w", err)
		}
	}

	return nil
}

// ExecuteResponseInterceptors runs all response interceptors in registration
// order, stopping at the first failure.
func (c *InterceptorChain) ExecuteResponseInterceptors(ctx context.Context, req *Request, resp *Response) error {
	for _, interceptor := range c.responseInterceptors {
		err := interceptor(ctx, req, resp)
		if err != nil {
			return fmt.Errorf("response interceptor failed: %w", err)
		}
	}

	return nil
}

func (r *Request) ensureHeaders() http.Header {
	if r.Headers == nil {
		r.Headers = make(http.Header)
	}

	return r.Headers
}

func (r *Request) ensureMetadata() map[string]interface{} {
	if r.Metadata == nil {
		r.Metadata = make(map[string]interface{})
	}

	return r.Metadata
}

// CachedResponse returns the body a request interceptor served from cache,
// if any. Transports should skip the network round trip when it is set.
func CachedResponse(req *Request) ([]byte, bool) {
	if req.Metadata == nil {
		return nil, false
	}

	data, ok := req.Metadata[metadataCachedResponse].([]byte)

	return data, ok
}

// ReleaseRequest releases resources attached to an intercepted request,
// such as the timer installed by TimeoutInterceptor. It is safe to call
// more than once.
func ReleaseRequest(req *Request) {
	if req.Metadata == nil {
		return
	}

	if cancel, ok := req.Metadata[metadataTimeoutCancel].(context.CancelFunc); ok {
		cancel()
		delete(req.Metadata, metadataTimeoutCancel)
	}
}

// Common Interceptors

// LoggingInterceptor logs outgoing requests.
func LoggingInterceptor(logger Logger) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		logger.Debug("API Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})

		return nil
	}
}

// LoggingResponseInterceptor logs responses, escalating failures.
func LoggingResponseInterceptor(logger Logger) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		fields := map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		}

		if resp.Error != nil {
			logger.Error("API Response Error", fields)
		} else {
			logger.Debug("API Response", fields)
		}

		return nil
	}
}

// RateLimitInterceptor throttles outgoing requests client-side, blocking
// until a slot is available or the context is done.
func RateLimitInterceptor(requestsPerSecond int) RequestInterceptor {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)

	return func(ctx context.Context, req *Request) error {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limit slot: %w", err)
		}

		return nil
	}
}

// RetryConfig describes which responses an outer retry loop should replay.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts after the initial try.
	MaxRetries int
	// RetryDelay is the base delay between retries.
	RetryDelay time.Duration
	// MaxDelay caps the backoff delay between retries.
	MaxDelay time.Duration
	// RetryOnCodes lists HTTP status codes that should trigger a retry.
	RetryOnCodes []int
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries: constants.DefaultRetryMax,
		RetryDelay: constants.DefaultRetryWaitMin,
		MaxDelay:   constants.DefaultRetryWaitMax,
		RetryOnCodes: []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// RetryResponseInterceptor marks responses an outer loop should replay by
// setting the X-Should-Retry header. The transport itself only retries
// transport-level failures, never HTTP statuses.
func RetryResponseInterceptor(config *RetryConfig) ResponseInterceptor {
	if config == nil {
		config = DefaultRetryConfig()
	}

	return func(ctx context.Context, req *Request, resp *Response) error {
		shouldRetry := false

		for _, code := range config.RetryOnCodes {
			if resp.StatusCode == code {
				shouldRetry = true

				break
			}
		}

		if !shouldRetry {
			return nil
		}

		if resp.Headers == nil {
			resp.Headers = make(http.Header)
		}

		resp.Headers.Set("X-Should-Retry", "true")

		return nil
	}
}

// AuthenticationInterceptor resolves a bearer token per request.
func AuthenticationInterceptor(tokenProvider func(context.Context) (string, error)) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		token, err := tokenProvider(ctx)
		if err != nil {
			return fmt.Errorf("resolving bearer token: %w", err)
		}

		req.ensureHeaders().Set("Authorization", "Bearer "+token)

		return nil
	}
}

// HeaderInterceptor adds fixed headers to every request.
func HeaderInterceptor(headers map[string]string) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		h := req.ensureHeaders()
		for key, value := range headers {
			h.Set(key, value)
		}

		return nil
	}
}

// TimeoutInterceptor bounds the request context with a deadline. The timer
// is released by ReleaseRequest after the response is handled.
func TimeoutInterceptor(timeout time.Duration) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		parent := req.Context
		if parent == nil {
			parent = ctx
		}

		timeoutCtx, cancel := context.WithTimeout(parent, timeout)
		req.Context = timeoutCtx
		req.ensureMetadata()[metadataTimeoutCancel] = cancel

		return nil
	}
}

// Metrics aggregates call statistics for one endpoint.
type Metrics struct {
	TotalRequests   int64
	TotalErrors     int64
	TotalLatency    time.Duration
	AverageLatency  time.Duration
	LastRequestTime time.Time
}

// MetricsCollector aggregates per-endpoint metrics, keyed "METHOD path".
type MetricsCollector struct {
	mutex    sync.Mutex
	metrics  map[string]*Metrics
	onChange func(endpoint string, metrics *Metrics)
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		metrics: make(map[string]*Metrics),
	}
}

// SetOnChange registers a callback invoked after each recorded response.
func (m *MetricsCollector) SetOnChange(fn func(endpoint string, metrics *Metrics)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.onChange = fn
}

// GetMetrics returns a snapshot of the metrics for an endpoint, or nil when
// the endpoint has not been seen.
func (m *MetricsCollector) GetMetrics(endpoint string) *Metrics {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		return nil
	}

	snapshot := *metrics

	return &snapshot
}

// GetAllMetrics returns a snapshot of every endpoint's metrics.
func (m *MetricsCollector) GetAllMetrics() map[string]*Metrics {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	all := make(map[string]*Metrics, len(m.metrics))
	for endpoint, metrics := range m.metrics {
		snapshot := *metrics
		all[endpoint] = &snapshot
	}

	return all
}

func (m *MetricsCollector) record(endpoint string, latency time.Duration, hasLatency, failed bool) {
	m.mutex.Lock()

	metrics, ok := m.metrics[endpoint]
	if !ok {
		metrics = &Metrics{}
		m.metrics[endpoint] = metrics
	}

	metrics.TotalRequests++
	metrics.LastRequestTime = time.Now()

	if hasLatency {
		metrics.TotalLatency += latency
		metrics.AverageLatency = metrics.TotalLatency / time.Duration(metrics.TotalRequests)
	}

	if failed {
		metrics.TotalErrors++
	}

	onChange := m.onChange
	snapshot := *metrics

	m.mutex.Unlock()

	if onChange != nil {
		onChange(endpoint, &snapshot)
	}
}

// MetricsRequestInterceptor records the request start time.
func MetricsRequestInterceptor(collector *MetricsCollector) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		req.ensureMetadata()[metadataStartTime] = time.Now()

		return nil
	}
}

// MetricsResponseInterceptor records response counts and latency. A response
// handled without a matching request interceptor still counts, but
// contributes no latency.
func MetricsResponseInterceptor(collector *MetricsCollector) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		endpoint := fmt.Sprintf("%s %s", req.Method, req.Path)

		var latency time.Duration

		hasLatency := false

		if req.Metadata != nil {
			if startTime, ok := req.Metadata[metadataStartTime].(time.Time); ok {
				latency = time.Since(startTime)
				hasLatency = true
			}
		}

		failed := resp.Error != nil || resp.StatusCode >= http.StatusBadRequest

		collector.record(endpoint, latency, hasLatency, failed)

		return nil
	}
}

// CircuitBreakerConfig tunes the circuit breaker interceptor pair.
type CircuitBreakerConfig struct {
	// Name identifies the breaker in state-change callbacks.
	Name string
	// Threshold is the number of consecutive failures before opening.
	Threshold uint32
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// SuccessThreshold is the number of half-open successes to close.
	SuccessThreshold uint32
}

// DefaultCircuitBreakerConfig returns the default breaker configuration.
func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Name:             "attio-api",
		Threshold:        constants.CircuitBreakerThreshold,
		Timeout:          constants.CircuitBreakerTimeout,
		SuccessThreshold: constants.CircuitBreakerSuccessThreshold,
	}
}

// CircuitBreaker sheds requests after repeated server failures. Admission
// and outcome reporting are split so the pair can run as interceptors.
type CircuitBreaker struct {
	breaker *gobreaker.TwoStepCircuitBreaker[any]
}

// NewCircuitBreaker creates a circuit breaker from config, falling back to
// defaults when config is nil.
func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}

	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.SuccessThreshold,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.Threshold
		},
	}

	return &CircuitBreaker{
		breaker: gobreaker.NewTwoStepCircuitBreaker[any](settings),
	}
}

// State reports the current breaker state.
func (b *CircuitBreaker) State() gobreaker.State {
	return b.breaker.State()
}

// CircuitBreakerRequestInterceptor rejects requests while the breaker is
// open. Admitted requests carry a completion callback for the paired
// response interceptor.
func CircuitBreakerRequestInterceptor(breaker *CircuitBreaker) RequestInterceptor {
	return func(ctx context.Context, req *Request) error {
		done, err := breaker.breaker.Allow()
		if err != nil {
			return fmt.Errorf("rejecting request: %w", err)
		}

		req.ensureMetadata()[metadataBreakerDone] = done

		return nil
	}
}

// CircuitBreakerResponseInterceptor reports the request outcome to the
// breaker. Server errors and transport failures count as failures; client
// errors do not.
func CircuitBreakerResponseInterceptor(breaker *CircuitBreaker) ResponseInterceptor {
	return func(ctx context.Context, req *Request, resp *Response) error {
		if req.Metadata == nil {
			return nil
		}

		done, ok := req.Metadata[metadataBreakerDone].(func(success bool))
		if !ok {
			return nil
		}

		delete(req.Metadata, metadataBreakerDone)

		done(resp.Error == nil && resp.StatusCode < http.StatusInternalServerError)

		return nil
	}
}
