package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/fivetwenty-io/cfapi/internal/constants"
)

// ErrNoValidCredentials is returned when no grant can be attempted.
var ErrNoValidCredentials = errors.New("no valid credentials available")

// OAuth2Config configures an OAuth2TokenManager.
type OAuth2Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	RefreshToken string
	AccessToken  string
	Scopes       []string
	// HTTPClient is used for token requests. Nil uses http.DefaultClient.
	HTTPClient *http.Client
}

// OAuth2TokenManager obtains tokens from UAA with the refresh, client
// credentials or password grant, in that order of preference.
type OAuth2TokenManager struct {
	config *OAuth2Config
	store  *TokenStore
	mu     sync.Mutex
}

// NewOAuth2TokenManager creates a manager. A configured AccessToken is
// used until it is rejected or refreshed.
func NewOAuth2TokenManager(config *OAuth2Config) *OAuth2TokenManager {
	manager := &OAuth2TokenManager{
		config: config,
		store:  NewTokenStore(),
	}

	if config.AccessToken != "" {
		manager.store.Set(&Token{
			AccessToken:  config.AccessToken,
			RefreshToken: config.RefreshToken,
			TokenType:    "bearer",
		})
	}

	return manager
}

// NewUAATokenManager creates a client credentials manager for the UAA at uaaURL.
func NewUAATokenManager(uaaURL, clientID, clientSecret string) *OAuth2TokenManager {
	return NewOAuth2TokenManager(&OAuth2Config{
		TokenURL:     tokenURL(uaaURL),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       defaultScopes(),
	})
}

// NewUAATokenManagerWithPassword creates a password grant manager for the UAA at uaaURL.
func NewUAATokenManagerWithPassword(uaaURL, clientID, clientSecret, username, password string) *OAuth2TokenManager {
	return NewOAuth2TokenManager(&OAuth2Config{
		TokenURL:     tokenURL(uaaURL),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Username:     username,
		Password:     password,
		Scopes:       defaultScopes(),
	})
}

func tokenURL(uaaURL string) string {
	return strings.TrimSuffix(uaaURL, "/") + "/oauth/token"
}

func defaultScopes() []string {
	return []string{"cloud_controller.read", "cloud_controller.write"}
}

// GetToken implements TokenManager.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	token, err := m.acquire(ctx)
	if err != nil {
		return "", err
	}

	return token.AccessToken, nil
}

// RefreshToken implements TokenManager.
func (m *OAuth2TokenManager) RefreshToken(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, err := m.acquire(ctx)

	return err
}

// SetToken implements TokenManager.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	var refresh string
	if current := m.store.Get(); current != nil {
		refresh = current.RefreshToken
	}

	m.store.Set(&Token{
		AccessToken:  token,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt,
	})
}

// Token returns a copy of the current token, or nil.
func (m *OAuth2TokenManager) Token() *Token {
	token := m.store.Get()
	if token == nil {
		return nil
	}

	clone := *token

	return &clone
}

func (m *OAuth2TokenManager) acquire(ctx context.Context) (*Token, error) {
	if m.config.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, m.config.HTTPClient)
	}

	refresh := m.config.RefreshToken
	if current := m.store.Get(); current != nil && current.RefreshToken != "" {
		refresh = current.RefreshToken
	}

	var (
		token *oauth2.Token
		err   error
	)

	switch {
	case refresh != "":
		token, err = m.passwordConfig().TokenSource(ctx, &oauth2.Token{RefreshToken: refresh}).Token()
		if err != nil && m.canAuthenticate() {
			token, err = m.authenticate(ctx)
		}
	case m.canAuthenticate():
		token, err = m.authenticate(ctx)
	default:
		return nil, ErrNoValidCredentials
	}

	if err != nil {
		return nil, fmt.Errorf("failed to obtain token from %s: %w", m.config.TokenURL, err)
	}

	stored := fromOAuth2(token)
	if stored.RefreshToken == "" {
		stored.RefreshToken = refresh
	}

	m.store.Set(stored)

	return stored, nil
}

func (m *OAuth2TokenManager) canAuthenticate() bool {
	return m.config.Username != "" || (m.config.ClientID != "" && m.config.ClientSecret != "")
}

func (m *OAuth2TokenManager) authenticate(ctx context.Context) (*oauth2.Token, error) {
	if m.config.Username != "" {
		return m.passwordConfig().PasswordCredentialsToken(ctx, m.config.Username, m.config.Password)
	}

	conf := &clientcredentials.Config{
		ClientID:     m.config.ClientID,
		ClientSecret: m.config.ClientSecret,
		TokenURL:     m.config.TokenURL,
		Scopes:       m.config.Scopes,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return conf.Token(ctx)
}

func (m *OAuth2TokenManager) passwordConfig() *oauth2.Config {
	clientID := m.config.ClientID
	if clientID == "" {
		clientID = constants.DefaultClientID
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: m.config.ClientSecret,
		Scopes:       m.config.Scopes,
		Endpoint: oauth2.Endpoint{
			TokenURL:  m.config.TokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}

func fromOAuth2(token *oauth2.Token) *Token {
	stored := &Token{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		ExpiresAt:    token.Expiry,
	}

	if !token.Expiry.IsZero() {
		stored.ExpiresIn = int(time.Until(token.Expiry).Seconds())
	}

	return stored
}
