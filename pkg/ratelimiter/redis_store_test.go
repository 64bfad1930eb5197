package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daikazu/frontdoor/pkg/ratelimiter"
)

func newRedisStore(t *testing.T) (*ratelimiter.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return ratelimiter.NewRedisStore(client), mr
}

func TestRedisStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("first hit sets expiry", func(t *testing.T) {
		t.Parallel()
		store, mr := newRedisStore(t)

		count, ttl, err := store.Increment(ctx, "key", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
		assert.Equal(t, time.Minute, ttl)
		assert.Equal(t, time.Minute, mr.TTL(ratelimiter.DefaultRedisKeyPrefix+"key"))
	})

	t.Run("later hits keep the window", func(t *testing.T) {
		t.Parallel()
		store, mr := newRedisStore(t)

		_, _, err := store.Increment(ctx, "key", time.Minute)
		require.NoError(t, err)

		mr.FastForward(30 * time.Second)

		count, ttl, err := store.Increment(ctx, "key", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
		assert.Equal(t, 30*time.Second, ttl)
	})

	t.Run("window elapses", func(t *testing.T) {
		t.Parallel()
		store, mr := newRedisStore(t)

		_, _, err := store.Increment(ctx, "key", time.Minute)
		require.NoError(t, err)

		mr.FastForward(time.Minute)

		count, ttl, err := store.Get(ctx, "key")
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Zero(t, ttl)
	})

	t.Run("repairs key without expiry", func(t *testing.T) {
		t.Parallel()
		store, mr := newRedisStore(t)

		require.NoError(t, mr.Set(ratelimiter.DefaultRedisKeyPrefix+"key", "4"))

		count, ttl, err := store.Increment(ctx, "key", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
		assert.Equal(t, time.Minute, ttl)
	})

	t.Run("reset", func(t *testing.T) {
		t.Parallel()
		store, mr := newRedisStore(t)

		_, _, err := store.Increment(ctx, "key", time.Minute)
		require.NoError(t, err)
		require.NoError(t, store.Reset(ctx, "key"))

		assert.False(t, mr.Exists(ratelimiter.DefaultRedisKeyPrefix+"key"))
	})

	t.Run("increment below limit", func(t *testing.T) {
		t.Parallel()
		store, mr := newRedisStore(t)

		count, ttl, allowed, err := store.IncrementBelow(ctx, "key", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, 1, count)
		assert.Equal(t, time.Minute, ttl)

		_, _, allowed, err = store.IncrementBelow(ctx, "key", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)

		mr.FastForward(20 * time.Second)
		count, ttl, allowed, err = store.IncrementBelow(ctx, "key", 2, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 2, count)
		assert.Equal(t, 40*time.Second, ttl)
		assert.Equal(t, "2", mustGet(t, mr, ratelimiter.DefaultRedisKeyPrefix+"key"))
	})

	t.Run("custom prefix", func(t *testing.T) {
		t.Parallel()
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()

		store := ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix("app:"))
		_, _, err := store.Increment(ctx, "key", time.Minute)
		require.NoError(t, err)

		assert.True(t, mr.Exists("app:key"))
	})

	t.Run("unavailable backend", func(t *testing.T) {
		t.Parallel()
		store, mr := newRedisStore(t)
		mr.Close()

		_, _, err := store.Increment(ctx, "key", time.Minute)
		assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)

		_, _, err = store.Get(ctx, "key")
		assert.ErrorIs(t, err, ratelimiter.ErrStoreUnavailable)
	})

	t.Run("limiter on redis", func(t *testing.T) {
		t.Parallel()
		store, mr := newRedisStore(t)
		limiter := ratelimiter.New(store)

		for range 5 {
			_, err := limiter.Hit(ctx, "rate:id", 5*time.Minute)
			require.NoError(t, err)
		}

		limited, err := limiter.TooManyAttempts(ctx, "rate:id", 5)
		require.NoError(t, err)
		assert.True(t, limited)

		mr.FastForward(2 * time.Minute)

		wait, err := limiter.AvailableIn(ctx, "rate:id")
		require.NoError(t, err)
		assert.Equal(t, 3*time.Minute, wait)
	})
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
