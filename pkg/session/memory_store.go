package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. Expired sessions are dropped
// on read and, when a cleanup interval is set, by a background sweep.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
	ticker   *time.Ticker
	done     chan struct{}
	once     sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryClock overrides the clock used for expiry checks.
func WithMemoryClock(now func() time.Time) MemoryStoreOption {
	return func(m *MemoryStore) {
		m.now = now
	}
}

// NewMemoryStore creates a store. A non-positive cleanupInterval disables the
// background sweep.
func NewMemoryStore(cleanupInterval time.Duration, opts ...MemoryStoreOption) *MemoryStore {
	m := &MemoryStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}

	if cleanupInterval > 0 {
		m.ticker = time.NewTicker(cleanupInterval)
		go m.cleanupLoop()
	}
	return m
}

func (m *MemoryStore) Create(ctx context.Context, s *Session) error {
	if s == nil || s.Token == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = s.clone()
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[token]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}

	if s.ExpiredAt(m.now()) {
		m.mu.Lock()
		delete(m.sessions, token)
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	return s.clone(), nil
}

func (m *MemoryStore) Update(ctx context.Context, s *Session) error {
	if s == nil || s.Token == "" {
		return ErrInvalidSession
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.Token]; !ok {
		return ErrSessionNotFound
	}
	m.sessions[s.Token] = s.clone()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// DeleteExpired removes every expired session.
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for token, s := range m.sessions {
		if s.ExpiredAt(now) {
			delete(m.sessions, token)
		}
	}
	return nil
}

// Close stops the background sweep. It is safe to call more than once.
func (m *MemoryStore) Close() error {
	m.once.Do(func() {
		if m.ticker != nil {
			m.ticker.Stop()
		}
		close(m.done)
	})
	return nil
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}

// Stats counts stored sessions by state.
func (m *MemoryStore) Stats() (total, authenticated, anonymous int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total = len(m.sessions)
	for _, s := range m.sessions {
		if s.IsAuthenticated() {
			authenticated++
		} else {
			anonymous++
		}
	}
	return
}
