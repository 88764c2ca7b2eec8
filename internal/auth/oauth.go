package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fivetwenty-io/attio/internal/constants"
)

// Static errors for err113 compliance.
var (
	ErrNoValidCredentials = errors.New("no valid credentials available")
	ErrTokenEndpoint      = errors.New("token endpoint request failed")
)

// OAuth2Config holds the settings for the OAuth2 token flows.
type OAuth2Config struct {
	// TokenURL is the token endpoint. Empty means the hosted endpoint.
	TokenURL string
	// ClientID and ClientSecret identify the integration.
	ClientID     string
	ClientSecret string
	// RefreshToken seeds the refresh grant.
	RefreshToken string
	// AccessToken seeds the store with an already-issued token.
	AccessToken string
	// Scopes are requested on every grant when set.
	Scopes []string
}

// OAuth2TokenManager obtains tokens from the OAuth2 token endpoint and
// keeps the freshest one in its store. Grants are tried in order: a still
// valid stored token, the refresh grant, then client credentials.
type OAuth2TokenManager struct {
	config     *OAuth2Config
	store      *TokenStore
	httpClient *http.Client
	mutex      sync.Mutex
}

// NewOAuth2TokenManager creates a token manager for the given config.
func NewOAuth2TokenManager(config *OAuth2Config) *OAuth2TokenManager {
	manager := &OAuth2TokenManager{
		config: config,
		store:  NewTokenStore(),
		httpClient: &http.Client{
			Timeout: constants.ShortHTTPTimeout,
		},
	}

	if config.AccessToken != "" {
		manager.store.Set(&Token{
			AccessToken:  config.AccessToken,
			TokenType:    "bearer",
			RefreshToken: config.RefreshToken,
		})
	}

	return manager
}

// GetToken returns a valid access token, acquiring a fresh one when the
// stored token is missing or expired. Acquisition is serialized so
// concurrent callers trigger at most one token request.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	token, err := m.acquireToken(ctx)
	if err != nil {
		return "", err
	}

	m.store.Set(token)

	return token.AccessToken, nil
}

// RefreshToken discards the stored token and acquires a fresh one.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token, err := m.acquireToken(ctx)
	if err != nil {
		return err
	}

	m.store.Set(token)

	return nil
}

// SetToken manually stores an access token.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

// ExchangeAuthorizationCode trades an authorization code for a token and
// stores it. The redirect URI must match the one used for the code.
func (m *OAuth2TokenManager) ExchangeAuthorizationCode(ctx context.Context, code, redirectURI string) (*Token, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token, err := m.requestToken(ctx, url.Values{
		"grant_type":   []string{"authorization_code"},
		"code":         []string{code},
		"redirect_uri": []string{redirectURI},
	})
	if err != nil {
		return nil, err
	}

	m.store.Set(token)

	return token, nil
}

func (m *OAuth2TokenManager) acquireToken(ctx context.Context) (*Token, error) {
	if refresh := m.refreshTokenValue(); refresh != "" {
		return m.requestToken(ctx, url.Values{
			"grant_type":    []string{"refresh_token"},
			"refresh_token": []string{refresh},
		})
	}

	if m.config.ClientID != "" && m.config.ClientSecret != "" {
		return m.requestToken(ctx, url.Values{
			"grant_type": []string{"client_credentials"},
		})
	}

	return nil, ErrNoValidCredentials
}

// refreshTokenValue prefers the refresh token issued with the stored token
// over the one the manager was configured with.
func (m *OAuth2TokenManager) refreshTokenValue() string {
	if token := m.store.Get(); token != nil && token.RefreshToken != "" {
		return token.RefreshToken
	}

	return m.config.RefreshToken
}

func (m *OAuth2TokenManager) requestToken(ctx context.Context, form url.Values) (*Token, error) {
	tokenURL := m.config.TokenURL
	if tokenURL == "" {
		tokenURL = constants.DefaultTokenURL
	}

	if len(m.config.Scopes) > 0 {
		form.Set("scope", strings.Join(m.config.Scopes, " "))
	}

	grantType := form.Get("grant_type")
	if grantType != "client_credentials" && m.config.ClientID != "" {
		form.Set("client_id", m.config.ClientID)

		if m.config.ClientSecret != "" {
			form.Set("client_secret", m.config.ClientSecret)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	if grantType == "client_credentials" {
		req.SetBasicAuth(m.config.ClientID, m.config.ClientSecret)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting token: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, tokenEndpointError(resp.StatusCode, body)
	}

	var token Token

	err = json.Unmarshal(body, &token)
	if err != nil {
		return nil, fmt.Errorf("parsing token response: %w", err)
	}

	if token.ExpiresIn > 0 {
		token.ExpiresAt = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	}

	if token.TokenType == "" {
		token.TokenType = "bearer"
	}

	return &token, nil
}

func tokenEndpointError(status int, body []byte) error {
	var payload struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}

	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		if payload.ErrorDescription != "" {
			return fmt.Errorf("%w: %d %s: %s", ErrTokenEndpoint, status, payload.Error, payload.ErrorDescription)
		}

		return fmt.Errorf("%w: %d %s", ErrTokenEndpoint, status, payload.Error)
	}

	return fmt.Errorf("%w: status %d", ErrTokenEndpoint, status)
}
