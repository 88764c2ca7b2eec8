package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenPersister = errors.New("no token persister configured")
)

// TokenPersister saves refreshed tokens so they survive process restarts.
type TokenPersister interface {
	SaveToken(accessToken string, expiresAt time.Time, refreshToken string) error
}

// PersistingTokenManager wraps OAuth2TokenManager and writes every newly
// acquired token through the configured persister.
type PersistingTokenManager struct {
	oauth2Manager *OAuth2TokenManager
	persister     TokenPersister
	mutex         sync.Mutex
	savedToken    string
	savedExpiry   time.Time
}

// NewPersistingTokenManager creates a persisting token manager. When an
// initial token is supplied it seeds the OAuth2 manager and counts as
// already persisted.
func NewPersistingTokenManager(config *OAuth2Config, persister TokenPersister, initialToken string, initialExpiry time.Time) *PersistingTokenManager {
	oauth2Manager := NewOAuth2TokenManager(config)

	if initialToken != "" {
		oauth2Manager.SetToken(initialToken, initialExpiry)
	}

	return &PersistingTokenManager{
		oauth2Manager: oauth2Manager,
		persister:     persister,
		savedToken:    initialToken,
		savedExpiry:   initialExpiry,
	}
}

// GetToken returns a valid access token, refreshing if necessary. A token
// that differs from the last persisted one is saved in the background so
// the request is not delayed by persistence.
func (m *PersistingTokenManager) GetToken(ctx context.Context) (string, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token, err := m.oauth2Manager.GetToken(ctx)
	if err != nil {
		return "", err
	}

	current := m.oauth2Manager.store.Get()
	if current != nil && (current.AccessToken != m.savedToken || !current.ExpiresAt.Equal(m.savedExpiry)) {
		go func() {
			persistErr := m.persistToken(current)
			if persistErr != nil {
				_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", persistErr)
			}
		}()

		m.savedToken = current.AccessToken
		m.savedExpiry = current.ExpiresAt
	}

	return token, nil
}

// RefreshToken forces a token refresh and persists the result before
// returning.
func (m *PersistingTokenManager) RefreshToken(ctx context.Context) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	err := m.oauth2Manager.RefreshToken(ctx)
	if err != nil {
		return err
	}

	current := m.oauth2Manager.store.Get()
	if current != nil {
		persistErr := m.persistToken(current)
		if persistErr != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to persist refreshed token: %v\n", persistErr)
		}

		m.savedToken = current.AccessToken
		m.savedExpiry = current.ExpiresAt
	}

	return nil
}

// SetToken manually sets the access token without persisting it.
func (m *PersistingTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.oauth2Manager.SetToken(token, expiresAt)
	m.savedToken = token
	m.savedExpiry = expiresAt
}

// IsTokenExpiringSoon reports whether the stored token expires within the
// given duration. A missing token counts as expiring.
func (m *PersistingTokenManager) IsTokenExpiringSoon(within time.Duration) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token := m.oauth2Manager.store.Get()
	if token == nil {
		return true
	}

	return time.Now().Add(within).After(token.ExpiresAt)
}

// TokenExpiry returns the stored token's expiration time, or the zero time
// when no token is stored.
func (m *PersistingTokenManager) TokenExpiry() time.Time {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	token := m.oauth2Manager.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

func (m *PersistingTokenManager) persistToken(token *Token) error {
	if m.persister == nil {
		return ErrNoTokenPersister
	}

	err := m.persister.SaveToken(token.AccessToken, token.ExpiresAt, token.RefreshToken)
	if err != nil {
		return fmt.Errorf("saving refreshed token: %w", err)
	}

	return nil
}
