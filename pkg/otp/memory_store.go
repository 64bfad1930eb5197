package otp

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	hash      string
	expiresAt time.Time
}

// MemoryStore implements Store in process memory.
// Expired entries are hidden on read and swept periodically.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
	ticker  *time.Ticker
	done    chan struct{}
	once    sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates a store; a cleanupInterval of 0 disables the sweeper.
func NewMemoryStore(cleanupInterval time.Duration, opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if cleanupInterval > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		go s.cleanupLoop()
	}

	return s
}

func (s *MemoryStore) Put(ctx context.Context, identifier, hashedCode string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[identifier] = entry{hash: hashedCode, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, identifier string) (string, error) {
	s.mu.RLock()
	e, ok := s.entries[identifier]
	s.mu.RUnlock()

	if !ok || !s.now().Before(e.expiresAt) {
		return "", ErrCodeNotFound
	}
	return e.hash, nil
}

func (s *MemoryStore) Forget(ctx context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, identifier)
	return nil
}

func (s *MemoryStore) Has(ctx context.Context, identifier string) (bool, error) {
	_, err := s.Get(ctx, identifier)
	if err != nil {
		return false, nil
	}
	return true, nil
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.once.Do(func() {
		if s.ticker != nil {
			s.ticker.Stop()
		}
		close(s.done)
	})
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-s.ticker.C:
			s.deleteExpired()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) deleteExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
}
