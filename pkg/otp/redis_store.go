package otp

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces pending codes in a shared Redis database.
const DefaultRedisKeyPrefix = "frontdoor:otp:"

// RedisStore implements Store with one Redis string per identifier.
// Expiry is delegated to Redis (SET ... PX).
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix overrides DefaultRedisKeyPrefix.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: DefaultRedisKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) Put(ctx context.Context, identifier, hashedCode string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+identifier, hashedCode, ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, identifier string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+identifier).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCodeNotFound
		}
		return "", errors.Join(ErrStoreUnavailable, err)
	}
	return val, nil
}

func (s *RedisStore) Forget(ctx context.Context, identifier string) error {
	if err := s.client.Del(ctx, s.prefix+identifier).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Has(ctx context.Context, identifier string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+identifier).Result()
	if err != nil {
		return false, errors.Join(ErrStoreUnavailable, err)
	}
	return n > 0, nil
}
