package constants

import "time"

// API endpoint defaults.
const (
	// DefaultAPIEndpoint is the production Attio API endpoint.
	DefaultAPIEndpoint = "https://api.attio.com"

	// DefaultAPIVersion is the API version segment prefixed to request paths.
	DefaultAPIVersion = "v2"

	// DefaultTokenURL is the Attio OAuth token endpoint.
	DefaultTokenURL = "https://app.attio.com/oauth/token"

	// ClientVersion is the SDK release version reported in the User-Agent.
	ClientVersion = "1.0.0"

	// DefaultUserAgent identifies the SDK on outgoing requests.
	DefaultUserAgent = "attio-go/" + ClientVersion
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultConnectTimeout is the default timeout for establishing connections.
	DefaultConnectTimeout = 10 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Retry limits and backoff bounds.
const (
	// DefaultRetryMax is the default maximum number of retries.
	DefaultRetryMax = 3

	// DefaultRetryWaitMin is the initial wait between retries.
	DefaultRetryWaitMin = 1 * time.Second

	// DefaultRetryWaitMax is the maximum wait time between retries.
	DefaultRetryWaitMax = 30 * time.Second

	// ExponentialBackoffBase is the base for exponential backoff.
	ExponentialBackoffBase = 2
)

// Connection pool limits.
const (
	// DefaultPoolSize is the maximum number of per-origin transports kept alive.
	DefaultPoolSize = 5

	// DefaultKeepAlive is how long an unused pooled transport stays usable.
	DefaultKeepAlive = 30 * time.Second
)

// Rate limit handling defaults.
const (
	// DefaultRateLimitWait is the base wait when the server sends no Retry-After.
	DefaultRateLimitWait = 1 * time.Second

	// MaxRateLimitWait caps any computed rate limit wait.
	MaxRateLimitWait = 300 * time.Second

	// RateLimitJitterFraction is the symmetric jitter applied to computed waits.
	RateLimitJitterFraction = 0.1
)

// Error reporting limits.
const (
	// ErrorBodyTruncationLimit is the maximum response body length captured on errors.
	ErrorBodyTruncationLimit = 1000

	// TruncationMarker is appended to bodies cut at the truncation limit.
	TruncationMarker = "... (truncated)"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"
)

// Webhook signature verification.
const (
	// SignatureScheme is the prefix of signature header values.
	SignatureScheme = "v1"

	// SignatureTolerance is the permitted clock skew for webhook timestamps.
	SignatureTolerance = 5 * time.Minute
)

// Token management.
const (
	// TokenExpirationBuffer is the buffer time before token expiration.
	TokenExpirationBuffer = 30 * time.Second
)

// Pagination limits.
const (
	// DefaultPageSize is the default number of items requested per page.
	DefaultPageSize = 50

	// LargePageSize is used for efficient bulk operations.
	LargePageSize = 500

	// MaxPages is used to prevent infinite loops in pagination.
	MaxPages = 50
)

// Concurrency and batching limits.
const (
	// DefaultConcurrencyLimit limits concurrent batch operations.
	DefaultConcurrencyLimit = 5

	// MaxConcurrencyLimit is the upper bound accepted for batch concurrency.
	MaxConcurrencyLimit = 20
)

// Cache sizing and lifetimes.
const (
	// DefaultCacheSize is the default cache size limit.
	DefaultCacheSize = 1000

	// DefaultCacheTTL is the default cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// CacheMinTTL is the minimum cache time-to-live.
	CacheMinTTL = 30 * time.Second

	// MaxCacheValueSize is the maximum size for cached values (1MB).
	MaxCacheValueSize = 1024 * 1024

	// ObjectsCacheTTL is the TTL for object/attribute schema responses.
	ObjectsCacheTTL = 10 * time.Minute

	// RecordsCacheTTL is the TTL for record responses.
	RecordsCacheTTL = 2 * time.Minute
)

// Circuit breaker thresholds.
const (
	// CircuitBreakerThreshold is the failure threshold for the circuit breaker.
	CircuitBreakerThreshold = 5

	// CircuitBreakerSuccessThreshold is the success threshold for the circuit breaker.
	CircuitBreakerSuccessThreshold = 2

	// CircuitBreakerTimeout is how long the circuit stays open before probing.
	CircuitBreakerTimeout = 30 * time.Second
)

// API path constants.
const (
	// APIPathObjects for the objects endpoint.
	APIPathObjects = "/objects"

	// APIPathLists for the lists endpoint.
	APIPathLists = "/lists"

	// APIPathNotes for the notes endpoint.
	APIPathNotes = "/notes"

	// APIPathTasks for the tasks endpoint.
	APIPathTasks = "/tasks"

	// APIPathComments for the comments endpoint.
	APIPathComments = "/comments"

	// APIPathThreads for the threads endpoint.
	APIPathThreads = "/threads"

	// APIPathWebhooks for the webhooks endpoint.
	APIPathWebhooks = "/webhooks"

	// APIPathWorkspaceMembers for the workspace members endpoint.
	APIPathWorkspaceMembers = "/workspace_members"

	// APIPathSelf for the token introspection endpoint.
	APIPathSelf = "/self"
)

// Standard object slugs.
const (
	// ObjectPeople is the slug of the standard people object.
	ObjectPeople = "people"

	// ObjectCompanies is the slug of the standard companies object.
	ObjectCompanies = "companies"

	// ObjectDeals is the slug of the standard deals object.
	ObjectDeals = "deals"
)
