package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// window is the state of one fixed window.
type window struct {
	count   int
	resetAt time.Time
}

// MemoryStore implements Store interface using in-memory storage.
// Suitable for a single process; use RedisStore when several processes share limits.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets the cleanup interval for removing elapsed windows.
// Set to 0 to disable automatic cleanup.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

// NewMemoryStore creates a new in-memory store with optional cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		windows:         make(map[string]*window),
		now:             time.Now,
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(ms)
	}

	if ms.cleanupInterval > 0 {
		go ms.cleanup()
	}

	return ms
}

// Increment registers a hit, opening a new window when the previous one has elapsed.
func (ms *MemoryStore) Increment(ctx context.Context, key string, decay time.Duration) (int, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	w, ok := ms.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(decay)}
		ms.windows[key] = w
	}
	w.count++

	return w.count, w.resetAt.Sub(now), nil
}

func (ms *MemoryStore) IncrementBelow(ctx context.Context, key string, limit int, decay time.Duration) (int, time.Duration, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, false, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	w, ok := ms.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(decay)}
		ms.windows[key] = w
	}
	if w.count >= limit {
		return w.count, w.resetAt.Sub(now), false, nil
	}
	w.count++

	return w.count, w.resetAt.Sub(now), true, nil
}

func (ms *MemoryStore) Get(ctx context.Context, key string) (int, time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	w, ok := ms.windows[key]
	if !ok {
		return 0, 0, nil
	}
	if !now.Before(w.resetAt) {
		delete(ms.windows, key)
		return 0, 0, nil
	}
	return w.count, w.resetAt.Sub(now), nil
}

func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.windows, key)
	return nil
}

// cleanup runs periodically to remove elapsed windows.
func (ms *MemoryStore) cleanup() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.removeElapsed()
		case <-ms.stopCleanup:
			return
		}
	}
}

func (ms *MemoryStore) removeElapsed() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	for key, w := range ms.windows {
		if !now.Before(w.resetAt) {
			delete(ms.windows, key)
		}
	}
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (ms *MemoryStore) Close() {
	select {
	case <-ms.stopCleanup:
		// Already closed
	default:
		close(ms.stopCleanup)
	}
}
