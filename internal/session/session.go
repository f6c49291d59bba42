// Package session holds the process-wide session credential.
//
// Every outbound API call reads the credential through Session; login and
// logout write it, and an authorization failure expires it. Reads and writes
// are serialized, so the session may be shared by concurrent requests.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// TokenStore persists the credential between runs.
// Load returns "" with a nil error when nothing is stored.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// Session is the credential holder shared by all API components.
type Session struct {
	mu       sync.RWMutex
	token    string
	store    TokenStore
	onExpire []func()
	logger   *zap.Logger
}

// New creates an empty session backed by store. A nil store keeps the
// credential in memory only.
func New(store TokenStore, logger *zap.Logger) *Session {
	if store == nil {
		store = &MemoryStore{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{store: store, logger: logger}
}

// Restore loads a previously saved credential.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Token returns the current credential, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a credential is present.
func (s *Session) Authenticated() bool { return s.Token() != "" }

// Set stores a new credential (login/registration).
func (s *Session) Set(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	if err := s.store.Save(ctx, token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear discards the credential (explicit logout).
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	if err := s.store.Delete(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// OnExpire registers a hook run after an authorization failure expired the
// session, the equivalent of redirecting to the login entry point.
func (s *Session) OnExpire(fn func()) {
	s.mu.Lock()
	s.onExpire = append(s.onExpire, fn)
	s.mu.Unlock()
}

// Expire discards the credential after a 401 on a request that carried used.
// A credential replaced since that request was dispatched is left intact.
// Reports whether the session was expired.
func (s *Session) Expire(ctx context.Context, used string) bool {
	s.mu.Lock()
	if s.token == "" || s.token != used {
		s.mu.Unlock()
		return false
	}
	s.token = ""
	hooks := make([]func(), len(s.onExpire))
	copy(hooks, s.onExpire)
	s.mu.Unlock()

	if err := s.store.Delete(ctx); err != nil {
		s.logger.Warn("failed to delete expired credential", zap.Error(err))
	}
	s.logger.Info("session expired, re-authentication required")
	for _, fn := range hooks {
		fn()
	}
	return true
}

// MemoryStore keeps the credential in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// Load implements TokenStore.
func (m *MemoryStore) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

// Save implements TokenStore.
func (m *MemoryStore) Save(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

// Delete implements TokenStore.
func (m *MemoryStore) Delete(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
