package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daikazu/frontdoor/pkg/cache"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing key returns nil without error", func(t *testing.T) {
		t.Parallel()
		s := cache.NewStore(10)

		v, err := s.Get(ctx, "missing")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("set get delete", func(t *testing.T) {
		t.Parallel()
		s := cache.NewStore(10)

		require.NoError(t, s.Set(ctx, "k", []byte("v"), 0))
		v, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), v)

		require.NoError(t, s.Delete(ctx, "k"))
		require.NoError(t, s.Delete(ctx, "k"))
		v, err = s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("values are copied", func(t *testing.T) {
		t.Parallel()
		s := cache.NewStore(10)

		in := []byte("abc")
		require.NoError(t, s.Set(ctx, "k", in, 0))
		in[0] = 'x'

		out, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), out)
		out[1] = 'y'

		again, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("expiry", func(t *testing.T) {
		t.Parallel()
		clock := &manualClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
		s := cache.NewStore(10, cache.WithClock(clock.Now))

		require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
		clock.Advance(59 * time.Second)
		v, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.NotNil(t, v)

		clock.Advance(time.Second)
		v, err = s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("reset", func(t *testing.T) {
		t.Parallel()
		s := cache.NewStore(10)
		require.NoError(t, s.Set(ctx, "a", []byte("1"), 0))
		require.NoError(t, s.Set(ctx, "b", []byte("2"), 0))
		require.NoError(t, s.Reset(ctx))

		v, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		s := cache.NewStore(10)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.Get(cctx, "k")
		require.ErrorIs(t, err, context.Canceled)
		require.ErrorIs(t, s.Set(cctx, "k", nil, 0), context.Canceled)
	})
}

func TestLRUCache_TTL(t *testing.T) {
	t.Parallel()

	clock := &manualClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := cache.NewLRUCache[string, int](3, cache.WithClock(clock.Now))

	c.PutWithTTL("short", 1, time.Second)
	c.Put("forever", 2)

	clock.Advance(2 * time.Second)
	assert.Equal(t, 2, c.Len(), "expired entries stay until read")

	_, ok := c.Get("short")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	v, ok := c.Get("forever")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	c.PutWithTTL("again", 3, time.Second)
	clock.Advance(time.Second)
	c.PutWithTTL("again", 4, time.Minute)

	v, ok = c.Get("again")
	assert.True(t, ok)
	assert.Equal(t, 4, v)
}
