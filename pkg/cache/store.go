package cache

import (
	"context"
	"time"
)

// DefaultStoreCapacity bounds a Store created with a non-positive capacity.
const DefaultStoreCapacity = 10_000

// Store is an in-process byte key/value store with expiry, built on LRUCache.
// Its method set matches the Redis-backed storage so either can back the
// same consumer.
type Store struct {
	lru *LRUCache[string, []byte]
}

// NewStore creates a Store holding at most capacity keys.
func NewStore(capacity int, opts ...Option) *Store {
	if capacity <= 0 {
		capacity = DefaultStoreCapacity
	}
	return &Store{lru: NewLRUCache[string, []byte](capacity, opts...)}
}

// Get returns a copy of the value stored under key, or nil, nil when the key
// is missing or expired.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	v, ok := s.lru.Get(key)
	if !ok {
		return nil, nil
	}
	return clone(v), nil
}

// Set stores value under key. A ttl <= 0 keeps the value until it is deleted
// or evicted.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lru.PutWithTTL(key, clone(value), ttl)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lru.Remove(key)
	return nil
}

// Reset removes every key.
func (s *Store) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lru.Clear()
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
