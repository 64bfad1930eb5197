package ratelimiter_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daikazu/frontdoor/pkg/ratelimiter"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newMemoryLimiter(t *testing.T) (*ratelimiter.Limiter, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(0),
		ratelimiter.WithClock(clock.Now),
	)
	t.Cleanup(store.Close)

	return ratelimiter.New(store), clock
}

func TestLimiter_Hit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("counts hits within window", func(t *testing.T) {
		t.Parallel()
		limiter, _ := newMemoryLimiter(t)

		for i := 1; i <= 3; i++ {
			count, err := limiter.Hit(ctx, "key", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, i, count)
		}

		attempts, err := limiter.Attempts(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("window is fixed, not rolling", func(t *testing.T) {
		t.Parallel()
		limiter, clock := newMemoryLimiter(t)

		_, err := limiter.Hit(ctx, "key", time.Minute)
		require.NoError(t, err)

		clock.Advance(40 * time.Second)
		_, err = limiter.Hit(ctx, "key", time.Minute)
		require.NoError(t, err)

		wait, err := limiter.AvailableIn(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, 20*time.Second, wait)

		clock.Advance(20 * time.Second)
		attempts, err := limiter.Attempts(ctx, "key")
		require.NoError(t, err)
		assert.Zero(t, attempts)
	})

	t.Run("new window after decay", func(t *testing.T) {
		t.Parallel()
		limiter, clock := newMemoryLimiter(t)

		_, err := limiter.Hit(ctx, "key", time.Minute)
		require.NoError(t, err)
		_, err = limiter.Hit(ctx, "key", time.Minute)
		require.NoError(t, err)

		clock.Advance(time.Minute)

		count, err := limiter.Hit(ctx, "key", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		t.Parallel()
		limiter, _ := newMemoryLimiter(t)

		_, err := limiter.Hit(ctx, "", time.Minute)
		assert.ErrorIs(t, err, ratelimiter.ErrEmptyKey)

		_, err = limiter.Hit(ctx, "key", 0)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidDecay)
	})
}

func TestLimiter_TooManyAttempts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	limiter, _ := newMemoryLimiter(t)

	for i := range 3 {
		limited, err := limiter.TooManyAttempts(ctx, "key", 3)
		require.NoError(t, err)
		assert.False(t, limited, "attempt %d", i+1)

		_, err = limiter.Hit(ctx, "key", time.Minute)
		require.NoError(t, err)
	}

	limited, err := limiter.TooManyAttempts(ctx, "key", 3)
	require.NoError(t, err)
	assert.True(t, limited)

	_, err = limiter.TooManyAttempts(ctx, "key", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidMaxAttempts)
}

func TestLimiter_AvailableIn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("zero without window", func(t *testing.T) {
		t.Parallel()
		limiter, _ := newMemoryLimiter(t)

		wait, err := limiter.AvailableIn(ctx, "missing")
		require.NoError(t, err)
		assert.Zero(t, wait)
	})

	t.Run("rounds up to whole seconds", func(t *testing.T) {
		t.Parallel()
		limiter, clock := newMemoryLimiter(t)

		_, err := limiter.Hit(ctx, "key", time.Minute)
		require.NoError(t, err)

		clock.Advance(59*time.Second + 500*time.Millisecond)

		wait, err := limiter.AvailableIn(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, time.Second, wait)
	})
}

func TestLimiter_Clear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	limiter, _ := newMemoryLimiter(t)

	_, err := limiter.Hit(ctx, "a", time.Minute)
	require.NoError(t, err)
	_, err = limiter.Hit(ctx, "b", time.Minute)
	require.NoError(t, err)

	require.NoError(t, limiter.Clear(ctx, "a"))

	attempts, err := limiter.Attempts(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, attempts)

	attempts, err = limiter.Attempts(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestLimiter_Status(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	limiter, _ := newMemoryLimiter(t)

	res, err := limiter.Status(ctx, "key", 2)
	require.NoError(t, err)
	assert.True(t, res.Allowed())
	assert.Equal(t, 2, res.Remaining())
	assert.True(t, res.ResetAt.IsZero())
	assert.Zero(t, res.RetryAfter())

	for range 2 {
		_, err = limiter.Hit(ctx, "key", time.Hour)
		require.NoError(t, err)
	}

	res, err = limiter.Status(ctx, "key", 2)
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Zero(t, res.Remaining())
	assert.True(t, res.RetryAfter() > 0)
}

func TestLimiter_ConcurrentHits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	defer store.Close()
	limiter := ratelimiter.New(store)

	const workers = 50
	var wg sync.WaitGroup
	counts := make([]int, workers)

	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			count, err := limiter.Hit(ctx, "shared", time.Minute)
			assert.NoError(t, err)
			counts[i] = count
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool, workers)
	for _, c := range counts {
		assert.False(t, seen[c], "count %d returned twice", c)
		seen[c] = true
	}

	attempts, err := limiter.Attempts(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, workers, attempts)
}

func TestLimiter_Attempt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rejects once the window is full without counting", func(t *testing.T) {
		t.Parallel()
		limiter, clock := newMemoryLimiter(t)

		for range 3 {
			allowed, wait, err := limiter.Attempt(ctx, "key", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, allowed)
			assert.Zero(t, wait)
		}

		clock.Advance(10*time.Second + 500*time.Millisecond)
		allowed, wait, err := limiter.Attempt(ctx, "key", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, 50*time.Second, wait)

		attempts, err := limiter.Attempts(ctx, "key")
		require.NoError(t, err)
		assert.Equal(t, 3, attempts)

		clock.Advance(time.Minute)
		allowed, _, err = limiter.Attempt(ctx, "key", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		t.Parallel()
		limiter, _ := newMemoryLimiter(t)

		_, _, err := limiter.Attempt(ctx, "", 3, time.Minute)
		assert.ErrorIs(t, err, ratelimiter.ErrEmptyKey)
		_, _, err = limiter.Attempt(ctx, "key", 0, time.Minute)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidMaxAttempts)
		_, _, err = limiter.Attempt(ctx, "key", 3, 0)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidDecay)
	})
}

func TestLimiter_ConcurrentAttempts(t *testing.T) {
	t.Parallel()

	memory := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(memory.Close)
	redisStore, _ := newRedisStore(t)

	for name, store := range map[string]ratelimiter.Store{"memory": memory, "redis": redisStore} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			limiter := ratelimiter.New(store)

			const workers, limit = 40, 5
			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				allowed int
			)
			for range workers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					ok, _, err := limiter.Attempt(ctx, "burst", limit, time.Minute)
					assert.NoError(t, err)
					if ok {
						mu.Lock()
						allowed++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, limit, allowed)
			attempts, err := limiter.Attempts(ctx, "burst")
			require.NoError(t, err)
			assert.Equal(t, limit, attempts)
		})
	}
}
