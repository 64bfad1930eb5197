package session

import "context"

// Store persists sessions by token. Implementations store copies: mutating a
// Session after Create or Update has no effect until the next Update.
type Store interface {
	Create(ctx context.Context, s *Session) error
	// Get returns ErrSessionNotFound for unknown or expired tokens.
	Get(ctx context.Context, token string) (*Session, error)
	// Update returns ErrSessionNotFound if the token is not stored.
	Update(ctx context.Context, s *Session) error
	Delete(ctx context.Context, token string) error
}
