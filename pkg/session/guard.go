package session

import (
	"context"
	"io"
	"log/slog"

	"github.com/daikazu/frontdoor/pkg/account"
	"github.com/daikazu/frontdoor/pkg/events"
	"github.com/daikazu/frontdoor/pkg/logger"
)

// Guard establishes identity on the session carried in the context. It
// satisfies the orchestrator's Identity collaborator.
type Guard struct {
	manager *Manager
	events  events.Sink
	log     *slog.Logger
}

// GuardOption configures a Guard.
type GuardOption func(*Guard)

// WithEvents sets the sink for LoginSucceeded and LogoutSucceeded.
func WithEvents(sink events.Sink) GuardOption {
	return func(g *Guard) {
		if sink != nil {
			g.events = sink
		}
	}
}

// WithLogger sets the guard logger.
func WithLogger(l *slog.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGuard creates a Guard.
func NewGuard(m *Manager, opts ...GuardOption) *Guard {
	g := &Guard{
		manager: m,
		events:  events.Discard,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Login stores acct on the session and rotates its token so a token issued
// before login cannot be replayed after it.
func (g *Guard) Login(ctx context.Context, acct *account.Account) error {
	if acct == nil {
		return account.ErrNotFound
	}
	s, ok := FromContext(ctx)
	if !ok {
		return ErrNoSession
	}

	prev := s.Identity
	s.Identity = acct.Clone()
	if err := g.manager.Regenerate(ctx, s); err != nil {
		s.Identity = prev
		return err
	}

	g.log.InfoContext(ctx, "login succeeded", logger.Component("session"), logger.AccountID(acct.ID))
	g.events.Emit(ctx, events.New(events.LoginSucceeded,
		events.WithEmail(acct.Email),
		events.WithAccountID(acct.ID),
	))
	return nil
}

// Logout forgets the identity, drops all session data and rotates the token.
// LogoutSucceeded is emitted only if someone was logged in.
func (g *Guard) Logout(ctx context.Context) error {
	s, ok := FromContext(ctx)
	if !ok {
		return nil
	}

	prev, data := s.Identity, s.Data
	s.Identity = nil
	s.Clear()
	if err := g.manager.Regenerate(ctx, s); err != nil {
		s.Identity, s.Data = prev, data
		return err
	}

	if prev != nil {
		g.log.InfoContext(ctx, "logout succeeded", logger.Component("session"), logger.AccountID(prev.ID))
		g.events.Emit(ctx, events.New(events.LogoutSucceeded,
			events.WithEmail(prev.Email),
			events.WithAccountID(prev.ID),
		))
	}
	return nil
}

// Current returns a copy of the logged-in account, or nil for guests and
// contexts without a session.
func (g *Guard) Current(ctx context.Context) (*account.Account, error) {
	s, ok := FromContext(ctx)
	if !ok || !s.IsAuthenticated() {
		return nil, nil
	}
	return s.Identity.Clone(), nil
}

// Check reports whether someone is logged in.
func (g *Guard) Check(ctx context.Context) bool {
	s, ok := FromContext(ctx)
	return ok && s.IsAuthenticated()
}
