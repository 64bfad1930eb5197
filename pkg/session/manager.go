package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

// Manager owns the token lifecycle. Carrying the token between requests
// (cookie, header) is left to the host.
type Manager struct {
	store  Store
	config Config
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfig sets lifetimes.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.config = cfg
	}
}

// WithClock overrides the clock.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager on store.
func NewManager(store Store, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, ErrStoreUnavailable
	}
	m := &Manager{
		store:  store,
		config: DefaultConfig(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Start creates and stores a new anonymous session.
func (m *Manager) Start(ctx context.Context) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	s := NewSession(token, m.now(), m.config.AnonLifetime)
	if err := m.store.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// Load returns the session for token, or ErrSessionNotFound.
func (m *Manager) Load(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	return m.store.Get(ctx, token)
}

// Resume loads the session for token and starts a fresh one when the token is
// empty, unknown or expired.
func (m *Manager) Resume(ctx context.Context, token string) (*Session, error) {
	s, err := m.Load(ctx, token)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}
	return m.Start(ctx)
}

// Save persists s and records activity.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if s == nil {
		return ErrInvalidSession
	}
	s.LastActivityAt = m.now()
	return m.store.Update(ctx, s)
}

// Regenerate moves s to a new token and drops the old one. The expiry is reset
// for the session's current state, so call it after changing the identity.
func (m *Manager) Regenerate(ctx context.Context, s *Session) error {
	if s == nil {
		return ErrInvalidSession
	}
	token, err := generateToken()
	if err != nil {
		return err
	}

	old, lastActivity, expires := s.Token, s.LastActivityAt, s.ExpiresAt
	now := m.now()
	s.Token = token
	s.LastActivityAt = now
	s.ExpiresAt = now.Add(m.config.Lifetime(s.IsAuthenticated()))

	if err := m.store.Create(ctx, s); err != nil {
		s.Token, s.LastActivityAt, s.ExpiresAt = old, lastActivity, expires
		return err
	}
	if old != "" {
		return m.store.Delete(ctx, old)
	}
	return nil
}

// Destroy deletes s from the store.
func (m *Manager) Destroy(ctx context.Context, s *Session) error {
	if s == nil {
		return nil
	}
	return m.store.Delete(ctx, s.Token)
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrTokenGeneration, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
