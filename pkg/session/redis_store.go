package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces sessions in a shared Redis database.
const DefaultRedisKeyPrefix = "frontdoor:session:"

// RedisStore keeps each session as a JSON string that expires with the
// session.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix overrides DefaultRedisKeyPrefix.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithRedisClock overrides the clock used to compute key TTLs.
func WithRedisClock(now func() time.Time) RedisStoreOption {
	return func(s *RedisStore) {
		s.now = now
	}
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: DefaultRedisKeyPrefix,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	raw, ttl, err := r.encode(s)
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, r.prefix+s.Token, raw, ttl).Result()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if !ok {
		return ErrInvalidSession
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := r.client.Get(ctx, r.prefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	if s.ExpiredAt(r.now()) {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	raw, ttl, err := r.encode(s)
	if err != nil {
		return err
	}
	ok, err := r.client.SetXX(ctx, r.prefix+s.Token, raw, ttl).Result()
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.prefix+token).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

func (r *RedisStore) encode(s *Session) ([]byte, time.Duration, error) {
	if s == nil || s.Token == "" {
		return nil, 0, ErrInvalidSession
	}
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil, 0, ErrInvalidSession
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, 0, errors.Join(ErrInvalidSession, err)
	}
	return raw, ttl, nil
}
