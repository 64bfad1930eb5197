package ratelimiter

import (
	"context"
	"fmt"
	"time"
)

// Limiter counts attempts per key in fixed windows.
// It holds no state of its own; atomicity is provided by the Store.
type Limiter struct {
	store Store
}

// New creates a fixed-window limiter on top of the given store.
func New(store Store) *Limiter {
	return &Limiter{store: store}
}

// Hit registers one attempt for key and returns the count in the current window.
// The window expiry is set only by the first hit, so the window is fixed, not rolling.
func (l *Limiter) Hit(ctx context.Context, key string, decay time.Duration) (int, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}
	if decay <= 0 {
		return 0, fmt.Errorf("%w: must be positive, got %v", ErrInvalidDecay, decay)
	}

	count, _, err := l.store.Increment(ctx, key, decay)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Attempt registers a hit for key unless the window already holds maxAttempts.
// When rejected it returns the wait until the window resets, rounded up to
// whole seconds, and the count is left unchanged. Check and hit are a single
// store operation.
func (l *Limiter) Attempt(ctx context.Context, key string, maxAttempts int, decay time.Duration) (bool, time.Duration, error) {
	if key == "" {
		return false, 0, ErrEmptyKey
	}
	if maxAttempts <= 0 {
		return false, 0, fmt.Errorf("%w: must be positive, got %d", ErrInvalidMaxAttempts, maxAttempts)
	}
	if decay <= 0 {
		return false, 0, fmt.Errorf("%w: must be positive, got %v", ErrInvalidDecay, decay)
	}

	_, ttl, allowed, err := l.store.IncrementBelow(ctx, key, maxAttempts, decay)
	if err != nil {
		return false, 0, err
	}
	if allowed {
		return true, 0, nil
	}
	return false, ceilSeconds(ttl), nil
}

// TooManyAttempts reports whether key has reached maxAttempts in the current window.
func (l *Limiter) TooManyAttempts(ctx context.Context, key string, maxAttempts int) (bool, error) {
	if maxAttempts <= 0 {
		return false, fmt.Errorf("%w: must be positive, got %d", ErrInvalidMaxAttempts, maxAttempts)
	}

	count, err := l.Attempts(ctx, key)
	if err != nil {
		return false, err
	}
	return count >= maxAttempts, nil
}

// Attempts returns the number of hits in the current window.
func (l *Limiter) Attempts(ctx context.Context, key string) (int, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	count, _, err := l.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// AvailableIn returns the time until the current window for key resets,
// rounded up to whole seconds. Returns 0 when no window is active.
func (l *Limiter) AvailableIn(ctx context.Context, key string) (time.Duration, error) {
	if key == "" {
		return 0, ErrEmptyKey
	}

	_, ttl, err := l.store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return ceilSeconds(ttl), nil
}

// Status returns the window state for key without registering a hit.
func (l *Limiter) Status(ctx context.Context, key string, maxAttempts int) (*Result, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	if maxAttempts <= 0 {
		return nil, fmt.Errorf("%w: must be positive, got %d", ErrInvalidMaxAttempts, maxAttempts)
	}

	count, ttl, err := l.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	res := &Result{Limit: maxAttempts, Attempts: count}
	if ttl > 0 {
		res.ResetAt = time.Now().Add(ttl)
	}
	return res, nil
}

// Clear removes the window for key.
func (l *Limiter) Clear(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	return l.store.Reset(ctx, key)
}

func ceilSeconds(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return ((d + time.Second - 1) / time.Second) * time.Second
}
