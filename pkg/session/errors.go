package session

import "errors"

var (
	ErrInvalidSession   = errors.New("session: invalid session")
	ErrSessionNotFound  = errors.New("session: not found")
	ErrTokenGeneration  = errors.New("session: token generation failed")
	ErrNoSession        = errors.New("session: no session in context")
	ErrStoreUnavailable = errors.New("session: store unavailable")
)
