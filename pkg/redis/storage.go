package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is a byte key/value store on top of a Redis client. Every key is
// written under a prefix so Reset only touches keys this Storage owns.
type Storage struct {
	db            redis.UniversalClient
	prefix        string
	scanBatchSize int64
}

// StorageOption configures a Storage.
type StorageOption func(*Storage)

// WithPrefix sets the key prefix. The default is empty.
func WithPrefix(prefix string) StorageOption {
	return func(s *Storage) {
		s.prefix = prefix
	}
}

// WithScanBatchSize sets the SCAN COUNT hint used by Reset.
func WithScanBatchSize(n int) StorageOption {
	return func(s *Storage) {
		if n > 0 {
			s.scanBatchSize = int64(n)
		}
	}
}

// NewStorage wraps client.
func NewStorage(client redis.UniversalClient, opts ...StorageOption) *Storage {
	s := &Storage{
		db:            client,
		scanBatchSize: 500,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns nil, nil for missing keys.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	val, err := s.db.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrStorageUnavailable, err)
	}
	return val, nil
}

// Set stores val under key. A zero ttl means no expiration.
func (s *Storage) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.db.Set(ctx, s.prefix+key, val, max(ttl, 0)).Err(); err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := s.db.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Join(ErrStorageUnavailable, err)
	}
	return nil
}

// Reset deletes every key under the prefix using SCAN, so it never blocks
// the server. Without a prefix it refuses to run rather than wipe the database.
func (s *Storage) Reset(ctx context.Context) error {
	if s.prefix == "" {
		return ErrUnscopedReset
	}

	var cursor uint64
	for {
		keys, next, err := s.db.Scan(ctx, cursor, s.prefix+"*", s.scanBatchSize).Result()
		if err != nil {
			return errors.Join(ErrStorageUnavailable, err)
		}
		if len(keys) > 0 {
			if err := s.db.Del(ctx, keys...).Err(); err != nil {
				return errors.Join(ErrStorageUnavailable, err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// Conn returns the underlying client.
func (s *Storage) Conn() redis.UniversalClient {
	return s.db
}
