package ratelimiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix namespaces limiter keys in a shared Redis database.
const DefaultRedisKeyPrefix = "frontdoor:limiter:"

// incrementScript increments the counter and sets the expiry only on the
// first hit of a window. A key left without expiry is repaired in place.
var incrementScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// incrementBelowScript is incrementScript guarded by the limit. The third
// reply element is 1 when the hit was counted.
var incrementBelowScript = redis.NewScript(`
local count = tonumber(redis.call('GET', KEYS[1]) or '0')
local allowed = 0
if count < tonumber(ARGV[2]) then
  count = redis.call('INCR', KEYS[1])
  allowed = 1
  if count == 1 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
  end
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl == -1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
elseif ttl < 0 then
  ttl = 0
end
return {count, ttl, allowed}
`)

// RedisStore implements Store on top of Redis so that several processes share
// the same windows. Increment runs as a single Lua script and is atomic per key.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix overrides DefaultRedisKeyPrefix.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		rs.prefix = prefix
	}
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	rs := &RedisStore{
		client: client,
		prefix: DefaultRedisKeyPrefix,
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

func (rs *RedisStore) Increment(ctx context.Context, key string, decay time.Duration) (int, time.Duration, error) {
	ms := decay.Milliseconds()
	if ms < 1 {
		ms = 1
	}

	res, err := incrementScript.Run(ctx, rs.client, []string{rs.prefix + key}, ms).Int64Slice()
	if err != nil {
		return 0, 0, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return 0, 0, errors.Join(ErrStoreUnavailable, errors.New("unexpected script reply"))
	}

	return int(res[0]), time.Duration(res[1]) * time.Millisecond, nil
}

func (rs *RedisStore) IncrementBelow(ctx context.Context, key string, limit int, decay time.Duration) (int, time.Duration, bool, error) {
	ms := max(decay.Milliseconds(), 1)

	res, err := incrementBelowScript.Run(ctx, rs.client, []string{rs.prefix + key}, ms, limit).Int64Slice()
	if err != nil {
		return 0, 0, false, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 3 {
		return 0, 0, false, errors.Join(ErrStoreUnavailable, errors.New("unexpected script reply"))
	}

	return int(res[0]), time.Duration(res[1]) * time.Millisecond, res[2] == 1, nil
}

func (rs *RedisStore) Get(ctx context.Context, key string) (int, time.Duration, error) {
	k := rs.prefix + key

	pipe := rs.client.Pipeline()
	getCmd := pipe.Get(ctx, k)
	ttlCmd := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return 0, 0, errors.Join(ErrStoreUnavailable, err)
	}

	count, err := getCmd.Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, 0, nil
		}
		return 0, 0, errors.Join(ErrStoreUnavailable, err)
	}

	// PTTL reports -1 (no expiry) and -2 (missing) as raw negative durations.
	ttl := ttlCmd.Val()
	if ttl < 0 {
		ttl = 0
	}
	return count, ttl, nil
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
