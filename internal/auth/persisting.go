package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNoTokenPersister is returned when a PersistingTokenManager has nowhere
// to save tokens.
var ErrNoTokenPersister = errors.New("no token persister configured")

// TokenPersister saves tokens so that a later process can reuse them.
type TokenPersister interface {
	SaveToken(token *Token) error
}

// TokenPersisterFunc adapts a function to TokenPersister.
type TokenPersisterFunc func(token *Token) error

// SaveToken implements TokenPersister.
func (f TokenPersisterFunc) SaveToken(token *Token) error {
	return f(token)
}

// PersistingTokenManager wraps an OAuth2TokenManager and saves every newly
// obtained token. Persist failures are reported to OnPersistError and never
// fail the request.
type PersistingTokenManager struct {
	manager   *OAuth2TokenManager
	persister TokenPersister

	// OnPersistError, when set, receives persist failures.
	OnPersistError func(err error)

	mu   sync.Mutex
	last string
}

// NewPersistingTokenManager creates a manager that saves refreshed tokens.
func NewPersistingTokenManager(manager *OAuth2TokenManager, persister TokenPersister) *PersistingTokenManager {
	m := &PersistingTokenManager{
		manager:   manager,
		persister: persister,
	}

	if token := manager.Token(); token != nil {
		m.last = token.AccessToken
	}

	return m
}

// GetToken implements TokenManager.
func (m *PersistingTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.manager.GetToken(ctx)
	if err != nil {
		return "", err
	}

	m.persistIfChanged()

	return token, nil
}

// RefreshToken implements TokenManager.
func (m *PersistingTokenManager) RefreshToken(ctx context.Context) error {
	err := m.manager.RefreshToken(ctx)
	if err != nil {
		return err
	}

	m.persistIfChanged()

	return nil
}

// SetToken implements TokenManager. Tokens set by hand are not persisted.
func (m *PersistingTokenManager) SetToken(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.manager.SetToken(token, expiresAt)
	m.last = token
}

// Token returns a copy of the current token, or nil.
func (m *PersistingTokenManager) Token() *Token {
	return m.manager.Token()
}

func (m *PersistingTokenManager) persistIfChanged() {
	current := m.manager.Token()
	if current == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if current.AccessToken == m.last {
		return
	}

	m.last = current.AccessToken

	err := m.persist(current)
	if err != nil && m.OnPersistError != nil {
		m.OnPersistError(err)
	}
}

func (m *PersistingTokenManager) persist(token *Token) error {
	if m.persister == nil {
		return ErrNoTokenPersister
	}

	err := m.persister.SaveToken(token)
	if err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}

	return nil
}
