package otp

import (
	"context"
	"time"
)

// Store keeps one hashed code per identifier until it expires or is forgotten.
// Put overwrites any pending code for the identifier.
type Store interface {
	Put(ctx context.Context, identifier, hashedCode string, ttl time.Duration) error
	// Get returns ErrCodeNotFound when nothing is stored or the code has expired.
	Get(ctx context.Context, identifier string) (string, error)
	Forget(ctx context.Context, identifier string) error
	Has(ctx context.Context, identifier string) (bool, error)
}
