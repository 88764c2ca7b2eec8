package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fivetwenty-io/attio/internal/auth"
	"github.com/fivetwenty-io/attio/internal/constants"
	"github.com/fivetwenty-io/attio/internal/http"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// Static errors for err113 compliance.
var (
	ErrStaticTokenCannotRefresh = errors.New("static token cannot be refreshed")
)

// Client implements the attio.Client interface.
type Client struct {
	httpClient      *http.Client
	tokenManager    auth.TokenManager
	baseURL         string
	logger          attio.Logger
	webhookVerifier *attio.WebhookVerifier

	// Resource clients
	objects          attio.ObjectsClient
	attributes       attio.AttributesClient
	records          attio.RecordsClient
	lists            attio.ListsClient
	entries          attio.EntriesClient
	notes            attio.NotesClient
	tasks            attio.TasksClient
	comments         attio.CommentsClient
	threads          attio.ThreadsClient
	webhooks         attio.WebhooksClient
	workspaceMembers attio.WorkspaceMembersClient
	meta             attio.MetaClient
	people           attio.StandardObjectClient
	companies        attio.StandardObjectClient
	deals            attio.StandardObjectClient
}

// createTokenManager creates the token manager matching the configured
// credentials: APIKey as a static bearer credential, AccessToken as an
// OAuth2 token refreshed when a RefreshToken is present, and
// ClientID/ClientSecret via the client_credentials grant. Returns nil when
// no credentials are configured.
func createTokenManager(config *attio.Config) auth.TokenManager {
	if config.APIKey != "" {
		return &staticTokenManager{token: config.APIKey}
	}

	if config.AccessToken != "" {
		oauthConfig := &auth.OAuth2Config{
			TokenURL:     config.TokenURL,
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RefreshToken: config.RefreshToken,
		}

		if config.TokenPersister != nil {
			return auth.NewPersistingTokenManager(oauthConfig, config.TokenPersister, config.AccessToken, time.Time{})
		}

		oauthConfig.AccessToken = config.AccessToken

		return auth.NewOAuth2TokenManager(oauthConfig)
	}

	if config.ClientID != "" && config.ClientSecret != "" {
		oauthConfig := &auth.OAuth2Config{
			TokenURL:     config.TokenURL,
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
		}

		if config.TokenPersister != nil {
			return auth.NewPersistingTokenManager(oauthConfig, config.TokenPersister, "", time.Time{})
		}

		return auth.NewOAuth2TokenManager(oauthConfig)
	}

	return nil
}

// createHTTPClientOptions builds HTTP client options from a finalized config.
func createHTTPClientOptions(config *attio.Config) ([]http.Option, error) {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(&loggerAdapter{logger: config.Logger}))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.APIVersion != "" {
		httpOpts = append(httpOpts, http.WithAPIVersion(config.APIVersion))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.ConnectTimeout > 0 {
		httpOpts = append(httpOpts, http.WithConnectTimeout(config.ConnectTimeout))
	}

	if config.RetryMax > 0 {
		httpOpts = append(httpOpts, http.WithRetryConfig(config.RetryMax, config.RetryWaitMin, config.RetryWaitMax))
	}

	if config.PoolSize > 0 {
		httpOpts = append(httpOpts, http.WithPoolConfig(config.PoolSize, config.PoolKeepAlive))
	}

	tlsConfig, err := http.BuildTLSConfig(config.SkipTLSVerify, config.CABundlePath)
	if err != nil {
		return nil, err
	}

	if tlsConfig != nil {
		httpOpts = append(httpOpts, http.WithTLSConfig(tlsConfig))
	}

	chain := config.Interceptors

	if config.CacheConfig != nil {
		cache, err := attio.NewCacheFromConfig(config.CacheConfig)
		if err != nil {
			return nil, fmt.Errorf("creating cache backend: %w", err)
		}

		if chain == nil {
			chain = attio.NewInterceptorChain()
		}

		attio.ConfigureSmartCache(chain, attio.NewCacheManager(cache, config.CacheConfig.Options), nil)
	}

	if chain != nil {
		httpOpts = append(httpOpts, http.WithInterceptors(chain))
	}

	return httpOpts, nil
}

// New creates a workspace client from the config. The config is cloned and
// finalized first, so mutating the caller's copy afterwards never changes
// the client. Construction fails when no credentials are configured.
func New(ctx context.Context, config *attio.Config) (*Client, error) {
	if config == nil {
		return nil, constants.ErrConfigRequired
	}

	cfg := config.Clone()
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	if !cfg.HasCredentials() {
		return nil, constants.ErrNoCredentials
	}

	return NewWithTokenManager(cfg, createTokenManager(cfg))
}

// NewWithTokenManager creates a workspace client with a caller-supplied
// token manager, bypassing the credential fields of the config.
func NewWithTokenManager(config *attio.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, constants.ErrConfigRequired
	}

	cfg := config.Clone()
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}

	if cfg.SkipTLSVerify && !devModeEnabled() {
		return nil, constants.ErrSSLOnlyInDev
	}

	httpOpts, err := createHTTPClientOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient:   http.NewClient(cfg.APIEndpoint, tokenManager, httpOpts...),
		tokenManager: tokenManager,
		baseURL:      cfg.APIEndpoint,
		logger:       cfg.Logger,
	}

	if cfg.WebhookSecret != "" {
		client.webhookVerifier = attio.NewWebhookVerifier(cfg.WebhookSecret)
	}

	client.initializeResourceClients()

	return client, nil
}

// devModeEnabled reports whether ATTIO_DEV_MODE allows insecure TLS options.
func devModeEnabled() bool {
	value := os.Getenv("ATTIO_DEV_MODE")

	return value == "true" || value == "1"
}

// GetTokenManager returns the underlying token manager.
func (c *Client) GetTokenManager() auth.TokenManager {
	return c.tokenManager
}

// GetToken returns a valid access token for the workspace.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", constants.ErrNoTokenManager
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("getting token: %w", err)
	}

	return token, nil
}

// HTTPClient returns the underlying HTTP client for advanced use.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// CloseIdleConnections drops idle pooled connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Objects returns the objects resource client.
func (c *Client) Objects() attio.ObjectsClient {
	return c.objects
}

// Attributes returns the attributes resource client.
func (c *Client) Attributes() attio.AttributesClient {
	return c.attributes
}

// Records returns the records resource client.
func (c *Client) Records() attio.RecordsClient {
	return c.records
}

// Lists returns the lists resource client.
func (c *Client) Lists() attio.ListsClient {
	return c.lists
}

// Entries returns the list entries resource client.
func (c *Client) Entries() attio.EntriesClient {
	return c.entries
}

// Notes returns the notes resource client.
func (c *Client) Notes() attio.NotesClient {
	return c.notes
}

// Tasks returns the tasks resource client.
func (c *Client) Tasks() attio.TasksClient {
	return c.tasks
}

// Comments returns the comments resource client.
func (c *Client) Comments() attio.CommentsClient {
	return c.comments
}

// Threads returns the threads resource client.
func (c *Client) Threads() attio.ThreadsClient {
	return c.threads
}

// Webhooks returns the webhooks resource client.
func (c *Client) Webhooks() attio.WebhooksClient {
	return c.webhooks
}

// WorkspaceMembers returns the workspace members resource client.
func (c *Client) WorkspaceMembers() attio.WorkspaceMembersClient {
	return c.workspaceMembers
}

// Meta returns the token introspection client.
func (c *Client) Meta() attio.MetaClient {
	return c.meta
}

// People returns a records client scoped to the people object.
func (c *Client) People() attio.StandardObjectClient {
	return c.people
}

// Companies returns a records client scoped to the companies object.
func (c *Client) Companies() attio.StandardObjectClient {
	return c.companies
}

// Deals returns a records client scoped to the deals object.
func (c *Client) Deals() attio.StandardObjectClient {
	return c.deals
}

// WebhookVerifier returns the delivery verifier seeded from the configured
// webhook secret, or nil when none was configured.
func (c *Client) WebhookVerifier() *attio.WebhookVerifier {
	return c.webhookVerifier
}

// initializeResourceClients initializes all resource-specific clients.
func (c *Client) initializeResourceClients() {
	records := NewRecordsClient(c.httpClient)

	c.objects = NewObjectsClient(c.httpClient)
	c.attributes = NewAttributesClient(c.httpClient)
	c.records = records
	c.lists = NewListsClient(c.httpClient)
	c.entries = NewEntriesClient(c.httpClient)
	c.notes = NewNotesClient(c.httpClient)
	c.tasks = NewTasksClient(c.httpClient)
	c.comments = NewCommentsClient(c.httpClient)
	c.threads = NewThreadsClient(c.httpClient)
	c.webhooks = NewWebhooksClient(c.httpClient)
	c.workspaceMembers = NewWorkspaceMembersClient(c.httpClient)
	c.meta = NewMetaClient(c.httpClient)
	c.people = NewStandardObjectClient(records, constants.ObjectPeople)
	c.companies = NewStandardObjectClient(records, constants.ObjectCompanies)
	c.deals = NewStandardObjectClient(records, constants.ObjectDeals)
}

// staticTokenManager serves a fixed API key as the bearer credential.
type staticTokenManager struct {
	token string
}

func (m *staticTokenManager) GetToken(ctx context.Context) (string, error) {
	return m.token, nil
}

func (m *staticTokenManager) RefreshToken(ctx context.Context) error {
	return ErrStaticTokenCannotRefresh
}

func (m *staticTokenManager) SetToken(token string, expiresAt time.Time) {
	m.token = token
}

// loggerAdapter adapts attio.Logger to http.Logger.
type loggerAdapter struct {
	logger attio.Logger
}

func (l *loggerAdapter) Debug(msg string, fields map[string]interface{}) {
	l.logger.Debug(msg, fields)
}

func (l *loggerAdapter) Info(msg string, fields map[string]interface{}) {
	l.logger.Info(msg, fields)
}

func (l *loggerAdapter) Warn(msg string, fields map[string]interface{}) {
	l.logger.Warn(msg, fields)
}

func (l *loggerAdapter) Error(msg string, fields map[string]interface{}) {
	l.logger.Error(msg, fields)
}
