package session

import (
	"context"
	"log/slog"

	"github.com/daikazu/frontdoor/pkg/logger"
)

type ctxKey struct{}

// WithSession attaches s to ctx. Guard reads the session from here.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// AccountIDFromContext returns the signed-in account ID, if any.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	s, ok := FromContext(ctx)
	if !ok || !s.IsAuthenticated() {
		return "", false
	}
	return s.Identity.ID, true
}

// LogAccountID is a logger.ContextExtractor that tags records with the
// signed-in account.
func LogAccountID(ctx context.Context) (slog.Attr, bool) {
	id, ok := AccountIDFromContext(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.AccountID(id), true
}
