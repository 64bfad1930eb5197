package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/daikazu/frontdoor/pkg/events"
	"github.com/daikazu/frontdoor/pkg/logger"
	"github.com/daikazu/frontdoor/pkg/ratelimiter"
	"github.com/daikazu/frontdoor/pkg/secrets"
)

// hmacPurpose separates the OTP hashing key from other keys derived from the app key.
const hmacPurpose = "frontdoor-otp-hmac"

const (
	requestKeyPrefix = "rate:"
	verifyKeyPrefix  = "verify:"
)

// Manager issues and checks one-time codes.
//
// State per email: no pending code → Generate → pending code → Verify(ok) → no
// pending code. Wrong guesses keep the code pending until VerifyLimit is reached,
// at which point the code is purged and ErrTooManyVerificationAttempts is returned.
type Manager struct {
	store   Store
	limiter *ratelimiter.Limiter
	key     []byte
	config  Config
	events  events.Sink
	logger  *slog.Logger
	random  io.Reader
}

// Option configures a Manager.
type Option func(*Manager)

// WithConfig overrides DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.config = cfg
	}
}

// WithEvents sets the sink for OtpRequested, OtpVerified and LoginFailed.
func WithEvents(sink events.Sink) Option {
	return func(m *Manager) {
		if sink != nil {
			m.events = sink
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.logger = log
		}
	}
}

// WithRandom replaces crypto/rand as the code source. Intended for tests.
func WithRandom(r io.Reader) Option {
	return func(m *Manager) {
		if r != nil {
			m.random = r
		}
	}
}

// NewManager creates a manager. appKey is the application secret; the HMAC key
// used for stored codes is derived from it.
func NewManager(store Store, limiter *ratelimiter.Limiter, appKey []byte, opts ...Option) (*Manager, error) {
	key, err := secrets.DeriveKey(appKey, hmacPurpose)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		store:   store,
		limiter: limiter,
		key:     key,
		config:  DefaultConfig(),
		events:  events.Discard,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		random:  rand.Reader,
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := m.config.validate(); err != nil {
		return nil, err
	}

	return m, nil
}

// Config returns the active configuration.
func (m *Manager) Config() Config {
	return m.config
}

// Generate issues a fresh code for email, replacing any pending one, and returns
// it in plain text for delivery. When the request window is exhausted it returns
// a *RateLimitedError without counting the rejected call.
func (m *Manager) Generate(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", ErrEmptyEmail
	}
	id := Identifier(email)

	if err := m.checkRequestLimit(ctx, id); err != nil {
		return "", err
	}

	code, err := newCode(m.random, m.config.Length)
	if err != nil {
		return "", err
	}

	if err := m.store.Put(ctx, id, hashCode(m.key, code), m.config.TTL); err != nil {
		return "", err
	}

	m.events.Emit(ctx, events.New(events.OtpRequested, events.WithEmail(email)))

	return code, nil
}

// Verify checks code against the pending code for email.
// A missing or expired code returns false without counting an attempt.
// A successful match consumes the code and clears both windows.
func (m *Manager) Verify(ctx context.Context, email, code string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, ErrEmptyEmail
	}
	id := Identifier(email)

	stored, err := m.store.Get(ctx, id)
	if errors.Is(err, ErrCodeNotFound) {
		m.events.Emit(ctx, events.New(events.LoginFailed,
			events.WithEmail(email),
			events.WithReason(events.ReasonExpired),
		))
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !matches(m.key, code, stored) {
		return false, m.registerFailure(ctx, email, id)
	}

	if err := m.store.Forget(ctx, id); err != nil {
		return false, err
	}
	if err := m.limiter.Clear(ctx, requestKeyPrefix+id); err != nil {
		return false, err
	}
	if err := m.limiter.Clear(ctx, verifyKeyPrefix+id); err != nil {
		return false, err
	}

	m.events.Emit(ctx, events.New(events.OtpVerified, events.WithEmail(email)))

	return true, nil
}

// HasPending reports whether a code is waiting for email. It has no side effects.
func (m *Manager) HasPending(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, ErrEmptyEmail
	}
	return m.store.Has(ctx, Identifier(email))
}

// checkRequestLimit counts the request unless the window is already full.
// The store does both in one step, so concurrent requests cannot overshoot.
func (m *Manager) checkRequestLimit(ctx context.Context, id string) error {
	limit := m.config.RequestLimit

	allowed, wait, err := m.limiter.Attempt(ctx, requestKeyPrefix+id, limit.MaxAttempts, limit.Decay)
	if err != nil {
		return err
	}
	if !allowed {
		m.logger.WarnContext(ctx, "otp request rate limited", logger.RetryAfter(wait))
		return &RateLimitedError{RetryAfter: max(wait, time.Second)}
	}
	return nil
}

// registerFailure counts a wrong guess. Reaching the cap purges the pending code.
func (m *Manager) registerFailure(ctx context.Context, email, id string) error {
	limit := m.config.VerifyLimit

	count, err := m.limiter.Hit(ctx, verifyKeyPrefix+id, limit.Decay)
	if err != nil {
		return err
	}

	if count >= limit.MaxAttempts {
		if err := m.store.Forget(ctx, id); err != nil {
			return err
		}
		m.logger.WarnContext(ctx, "otp purged after too many wrong codes", logger.Email(email))
		return ErrTooManyVerificationAttempts
	}

	m.events.Emit(ctx, events.New(events.LoginFailed,
		events.WithEmail(email),
		events.WithReason(events.ReasonInvalidCode),
	))
	return nil
}
