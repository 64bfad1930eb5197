package ratelimiter

import (
	"context"
	"time"
)

// Store defines the interface for fixed-window counter backends.
// Implementations must apply Increment atomically per key.
type Store interface {
	// Increment registers one hit for key. A new window of length decay is
	// opened only when no window is active; later hits never extend it.
	// Returns the count after the hit and the time left in the window.
	Increment(ctx context.Context, key string, decay time.Duration) (count int, ttl time.Duration, err error)

	// IncrementBelow registers a hit only while the window holds fewer than
	// limit hits. Check and hit happen atomically, so concurrent callers can
	// never push a window past limit. A rejected call leaves the count alone.
	IncrementBelow(ctx context.Context, key string, limit int, decay time.Duration) (count int, ttl time.Duration, allowed bool, err error)

	// Get returns the current count and the time left in the window.
	// Both are zero when no window is active for key.
	Get(ctx context.Context, key string) (count int, ttl time.Duration, err error)

	// Reset clears the window for the given key.
	Reset(ctx context.Context, key string) error
}
