package attio

import (
	"fmt"
	"net/url"
	"time"

	"github.com/fivetwenty-io/attio/internal/constants"
)

// SchemaClients provides access to schema resource clients.
type SchemaClients interface {
	Objects() ObjectsClient
	Attributes() AttributesClient
}

// DataClients provides access to record and list resource clients.
type DataClients interface {
	Records() RecordsClient
	Lists() ListsClient
	Entries() EntriesClient
}

// ActivityClients provides access to collaboration resource clients.
type ActivityClients interface {
	Notes() NotesClient
	Tasks() TasksClient
	Comments() CommentsClient
	Threads() ThreadsClient
}

// AccountClients provides access to workspace-level resource clients.
type AccountClients interface {
	Webhooks() WebhooksClient
	WorkspaceMembers() WorkspaceMembersClient
	Meta() MetaClient
}

// StandardObjectClients provides record clients scoped to the standard
// objects every workspace ships with.
type StandardObjectClients interface {
	People() StandardObjectClient
	Companies() StandardObjectClient
	Deals() StandardObjectClient
}

// ResourceClients provides access to all resource-specific clients.
type ResourceClients interface {
	// Composite interfaces for resource groups
	SchemaClients
	DataClients
	ActivityClients
	AccountClients
	StandardObjectClients
}

// Client is the full API surface of an authenticated workspace connection.
type Client interface {
	ResourceClients

	// WebhookVerifier returns the delivery verifier seeded from
	// Config.WebhookSecret, or nil when no webhook secret was configured.
	WebhookVerifier() *WebhookVerifier
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TokenPersister saves rotated OAuth2 tokens so they survive process
// restarts. Multi-workspace integrations implement it to write tokens back
// to their own storage.
type TokenPersister interface {
	SaveToken(accessToken string, expiresAt time.Time, refreshToken string) error
}

// Config carries everything needed to build a Client. Constructors clone
// and finalize the config they receive, so mutating the caller's copy after
// construction never changes a live client.
//
// # Authentication precedence
//
// The concrete client applies the following precedence:
//  1. APIKey: used directly as a static Bearer credential.
//  2. AccessToken: an OAuth2 access token used directly; when a
//     RefreshToken is also set, the client refreshes it on expiry.
//  3. ClientID/ClientSecret: obtains tokens via the OAuth2
//     client_credentials grant against TokenURL.
//  4. No credentials: construction fails. Every API endpoint requires
//     authentication.
//
// # Timeouts, retries, and TLS
//
// Per-request deadlines should generally be controlled via the context
// passed to client methods. The transport retries transient transport
// failures only, tuned via RetryMax/RetryWaitMin/RetryWaitMax; HTTP error
// statuses are never retried there. SkipTLSVerify is honored only when the
// environment variable ATTIO_DEV_MODE is set to "true" or "1"; do not use
// it in production.
type Config struct {
	// APIEndpoint: base URL for the API. Defaults to the public endpoint;
	// a trailing slash is trimmed and "https://" is added if no scheme is
	// present.
	APIEndpoint string
	// APIVersion: version segment joined into request paths. Defaults to
	// "v2".
	APIVersion string

	// Authentication options (provide one)
	// APIKey: workspace API key, sent as a Bearer credential.
	APIKey string
	// AccessToken: OAuth2 access token used directly.
	AccessToken string
	// RefreshToken: optional refresh token used to renew AccessToken.
	RefreshToken string
	// ClientID: OAuth2 client ID for the client_credentials grant.
	ClientID string
	// ClientSecret: OAuth2 client secret used with ClientID.
	ClientSecret string
	// TokenURL: full OAuth2 token endpoint. Defaults to the public one.
	TokenURL string

	// Optional configurations
	// HTTPTimeout bounds each request attempt end to end.
	HTTPTimeout time.Duration
	// ConnectTimeout bounds dialing a new connection.
	ConnectTimeout time.Duration
	// RetryMax is the number of retries after the initial attempt for
	// transient transport failures.
	RetryMax int
	// RetryWaitMin is the base backoff between transport retries.
	RetryWaitMin time.Duration
	// RetryWaitMax caps the backoff between transport retries.
	RetryWaitMax time.Duration
	// PoolSize bounds the number of per-origin transports kept alive.
	PoolSize int
	// PoolKeepAlive is how long an idle transport survives before recycling.
	PoolKeepAlive time.Duration
	// Debug enables verbose HTTP request/response logging when a Logger is
	// provided. Credentials are redacted.
	Debug bool
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// SkipTLSVerify disables certificate verification; honored only when
	// ATTIO_DEV_MODE is set. Intended for local development.
	SkipTLSVerify bool
	// CABundlePath points at a PEM bundle of additional trusted roots.
	CABundlePath string
	// WebhookSecret seeds a WebhookVerifier for delivery verification.
	WebhookSecret string
	// TokenPersister, when set alongside OAuth credentials, receives every
	// newly acquired token after a refresh.
	TokenPersister TokenPersister
	// CacheConfig enables response caching on the configured backend. Nil
	// leaves caching off.
	CacheConfig *CacheConfig
	// Interceptors is an optional chain run around every request. When
	// CacheConfig is also set, the cache interceptors are appended to this
	// chain.
	Interceptors *InterceptorChain

	finalized bool
}

// Finalize validates the config, fills unset fields with defaults, and
// marks the config immutable by convention. It is idempotent; constructors
// call it on their private clone, so explicit calls are optional.
func (c *Config) Finalize() error {
	if c.finalized {
		return nil
	}

	if c.APIEndpoint == "" {
		c.APIEndpoint = constants.DefaultAPIEndpoint
	}

	c.APIEndpoint = normalizeEndpoint(c.APIEndpoint)

	parsed, err := url.Parse(c.APIEndpoint)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("%w: %q", constants.ErrInvalidAPIEndpoint, c.APIEndpoint)
	}

	if c.APIVersion == "" {
		c.APIVersion = constants.DefaultAPIVersion
	}

	if c.TokenURL == "" {
		c.TokenURL = constants.DefaultTokenURL
	}

	if c.HTTPTimeout <= 0 {
		c.HTTPTimeout = constants.DefaultHTTPTimeout
	}

	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = constants.DefaultConnectTimeout
	}

	if c.RetryMax < 0 {
		c.RetryMax = 0
	}

	if c.RetryWaitMin <= 0 {
		c.RetryWaitMin = constants.DefaultRetryWaitMin
	}

	if c.RetryWaitMax <= 0 {
		c.RetryWaitMax = constants.DefaultRetryWaitMax
	}

	if c.PoolSize <= 0 {
		c.PoolSize = constants.DefaultPoolSize
	}

	if c.PoolKeepAlive <= 0 {
		c.PoolKeepAlive = constants.DefaultKeepAlive
	}

	if c.UserAgent == "" {
		c.UserAgent = constants.DefaultUserAgent
	}

	c.finalized = true

	return nil
}

// Finalized reports whether Finalize has run.
func (c *Config) Finalized() bool {
	return c.finalized
}

// Clone returns an unfinalized copy that can be mutated independently.
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}

	cloned := *c
	cloned.finalized = false

	return &cloned
}

// HasCredentials reports whether any authentication option is set.
func (c *Config) HasCredentials() bool {
	return c.APIKey != "" || c.AccessToken != "" || (c.ClientID != "" && c.ClientSecret != "")
}

// normalizeEndpoint trims a trailing slash and defaults the scheme to
// https for schemeless endpoints.
func normalizeEndpoint(endpoint string) string {
	for len(endpoint) > 0 && endpoint[len(endpoint)-1] == '/' {
		endpoint = endpoint[:len(endpoint)-1]
	}

	if endpoint == "" {
		return endpoint
	}

	if parsed, err := url.Parse(endpoint); err == nil && parsed.Scheme != "" && parsed.Host != "" {
		return endpoint
	}

	return "https://" + endpoint
}
