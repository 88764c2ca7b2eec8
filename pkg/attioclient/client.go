package attioclient

import (
	"context"
	"fmt"

	"github.com/fivetwenty-io/attio/internal/client"
	"github.com/fivetwenty-io/attio/pkg/attio"
)

// New creates an Attio API client from the configuration. The config is
// cloned and finalized, so mutating it after construction never changes the
// client: a missing APIEndpoint defaults to the public API, a missing
// TokenURL to the public OAuth token endpoint, and the endpoint scheme and
// trailing slash are normalized. At least one credential must be set.
func New(ctx context.Context, config *attio.Config) (attio.Client, error) {
	if config == nil {
		return nil, attio.ErrConfigRequired
	}

	apiClient, err := client.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return apiClient, nil
}

// NewWithAPIKey creates a client authenticating with a workspace API key.
func NewWithAPIKey(ctx context.Context, apiKey string) (attio.Client, error) {
	return New(ctx, &attio.Config{
		APIKey: apiKey,
	})
}

// NewWithAccessToken creates a client authenticating with an OAuth2 access
// token you already have. The token is used as-is and never refreshed.
func NewWithAccessToken(ctx context.Context, accessToken string) (attio.Client, error) {
	return New(ctx, &attio.Config{
		AccessToken: accessToken,
	})
}

// NewWithOAuth creates a client for an OAuth app installation: the
// workspace access token obtained from the authorization flow plus the app
// credentials and refresh token used to renew it on expiry.
func NewWithOAuth(ctx context.Context, clientID, clientSecret, accessToken, refreshToken string) (attio.Client, error) {
	return New(ctx, &attio.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}
