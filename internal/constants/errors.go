package constants

import "errors"

// Configuration errors.
var (
	ErrConfigRequired      = errors.New("config is required")
	ErrNoCredentials       = errors.New("no credentials configured: set APIKey, AccessToken, or OAuth client credentials")
	ErrInvalidAPIEndpoint  = errors.New("invalid API endpoint URL")
	ErrSSLOnlyInDev        = errors.New("skipping TLS verification is only allowed in development environments (set ATTIO_DEV_MODE=true)")
	ErrCABundleNoCerts     = errors.New("CA bundle contains no PEM certificates")
	ErrEnvConfigIncomplete = errors.New("ATTIO_API_KEY is not set")
)

// Authentication errors.
var (
	ErrMissingAPIKey  = errors.New("missing API key")
	ErrNoTokenManager = errors.New("no token manager configured")
)

// Webhook signature errors.
var (
	ErrSignatureMissing = errors.New("signature header is missing")
	ErrTimestampMissing = errors.New("timestamp header is missing")
)

// Operation errors.
var (
	ErrUnsupportedResource  = errors.New("unsupported resource type")
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrInvalidOperationData = errors.New("invalid data type for operation")
)

// Pagination errors.
var (
	ErrIteratorExhausted = errors.New("no more items to iterate")
)

// Cache errors.
var (
	ErrCacheKeyNotFound   = errors.New("cache key not found")
	ErrCacheEntryExpired  = errors.New("cache entry expired")
	ErrCacheValueTooLarge = errors.New("cache value exceeds maximum size")
)
