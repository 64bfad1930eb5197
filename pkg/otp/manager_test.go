package otp_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/daikazu/frontdoor/pkg/events"
	"github.com/daikazu/frontdoor/pkg/otp"
	"github.com/daikazu/frontdoor/pkg/ratelimiter"
)

var testAppKey = []byte(strings.Repeat("a", 32))

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	manager  *otp.Manager
	limiter  *ratelimiter.Limiter
	recorder *events.Recorder
	clock    *testClock
}

func newFixture(t *testing.T, opts ...otp.Option) *fixture {
	t.Helper()

	clock := &testClock{now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}

	codes := otp.NewMemoryStore(0, otp.WithClock(clock.Now))
	t.Cleanup(func() { _ = codes.Close() })

	windows := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(0),
		ratelimiter.WithClock(clock.Now),
	)
	t.Cleanup(windows.Close)

	limiter := ratelimiter.New(windows)
	recorder := events.NewRecorder()

	manager, err := otp.NewManager(codes, limiter, testAppKey,
		append([]otp.Option{otp.WithEvents(recorder)}, opts...)...,
	)
	require.NoError(t, err)

	return &fixture{manager: manager, limiter: limiter, recorder: recorder, clock: clock}
}

// wrongCode returns a code of the same length that differs from code.
func wrongCode(code string) string {
	n, _ := strconv.Atoi(code)
	return fmt.Sprintf("%0*d", len(code), (n+1)%1_000_000)
}

func TestManager_GenerateAndVerify(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	code, err := f.manager.Generate(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "code %q must be numeric", code)
	}

	ok, err := f.manager.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.manager.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.False(t, ok, "a code must not verify twice")

	assert.Equal(t, []events.Type{events.OtpRequested, events.OtpVerified, events.LoginFailed}, f.recorder.Types())
	last, _ := f.recorder.Last(events.LoginFailed)
	assert.Equal(t, events.ReasonExpired, last.Reason)
}

func TestManager_WrongCode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	code, err := f.manager.Generate(ctx, "jane@example.com")
	require.NoError(t, err)

	ok, err := f.manager.Verify(ctx, "jane@example.com", wrongCode(code))
	require.NoError(t, err)
	assert.False(t, ok)

	last, found := f.recorder.Last(events.LoginFailed)
	require.True(t, found)
	assert.Equal(t, events.ReasonInvalidCode, last.Reason)

	pending, err := f.manager.HasPending(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, pending, "a wrong guess under the cap keeps the code")

	ok, err = f.manager.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestManager_MalformedCodeCountsAsAttempt(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	_, err := f.manager.Generate(ctx, "jane@example.com")
	require.NoError(t, err)

	for _, bad := range []string{"", "12", "abcdef", "1234567"} {
		ok, err := f.manager.Verify(ctx, "jane@example.com", bad)
		require.NoError(t, err)
		assert.False(t, ok, bad)
	}

	attempts, err := f.limiter.Attempts(ctx, "verify:"+otp.Identifier("jane@example.com"))
	require.NoError(t, err)
	assert.Equal(t, 4, attempts)
}

func TestManager_VerificationCap(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	code, err := f.manager.Generate(ctx, "jane@example.com")
	require.NoError(t, err)
	wrong := wrongCode(code)

	for i := range 4 {
		ok, err := f.manager.Verify(ctx, "jane@example.com", wrong)
		require.NoError(t, err, "attempt %d", i+1)
		assert.False(t, ok)
	}

	ok, err := f.manager.Verify(ctx, "jane@example.com", wrong)
	assert.ErrorIs(t, err, otp.ErrTooManyVerificationAttempts)
	assert.False(t, ok)

	pending, err := f.manager.HasPending(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.False(t, pending, "the code is purged when the cap is reached")

	ok, err = f.manager.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.False(t, ok, "the original code no longer works")
}

func TestManager_CustomVerifyLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := otp.DefaultConfig()
	cfg.VerifyLimit = otp.Limit{MaxAttempts: 2, Decay: time.Minute}
	f := newFixture(t, otp.WithConfig(cfg))

	code, err := f.manager.Generate(ctx, "jane@example.com")
	require.NoError(t, err)

	ok, err := f.manager.Verify(ctx, "jane@example.com", wrongCode(code))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = f.manager.Verify(ctx, "jane@example.com", wrongCode(code))
	assert.ErrorIs(t, err, otp.ErrTooManyVerificationAttempts)
}

func TestManager_RequestLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	for i := range 5 {
		_, err := f.manager.Generate(ctx, "jane@example.com")
		require.NoError(t, err, "request %d", i+1)
		f.clock.Advance(10 * time.Second)
	}

	_, err := f.manager.Generate(ctx, "jane@example.com")
	require.ErrorIs(t, err, otp.ErrTooManyRequests)

	var rl *otp.RateLimitedError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, 250, rl.RetryAfterSeconds())

	attempts, err := f.limiter.Attempts(ctx, "rate:"+otp.Identifier("jane@example.com"))
	require.NoError(t, err)
	assert.Equal(t, 5, attempts, "rejected calls are not counted")

	assert.Equal(t, 5, f.recorder.Count(events.OtpRequested))

	f.clock.Advance(250 * time.Second)
	_, err = f.manager.Generate(ctx, "jane@example.com")
	assert.NoError(t, err, "a new window opens after decay")
}

func TestManager_NewCodeReplacesPending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	first, err := f.manager.Generate(ctx, "jane@example.com")
	require.NoError(t, err)

	var second string
	for second == "" || second == first {
		second, err = f.manager.Generate(ctx, "jane@example.com")
		require.NoError(t, err)
	}

	ok, err := f.manager.Verify(ctx, "jane@example.com", second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestManager_CaseInsensitiveEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	code, err := f.manager.Generate(ctx, "JANE@Example.COM")
	require.NoError(t, err)

	ok, err := f.manager.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, otp.Identifier("JANE@Example.COM"), otp.Identifier(" jane@example.com "))
	assert.NotContains(t, otp.Identifier("jane@example.com"), "jane")
}

func TestManager_SuccessClearsWindows(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	email := "jane@example.com"

	for range 4 {
		_, err := f.manager.Generate(ctx, email)
		require.NoError(t, err)
	}
	code, err := f.manager.Generate(ctx, email)
	require.NoError(t, err)

	for range 4 {
		ok, err := f.manager.Verify(ctx, email, wrongCode(code))
		require.NoError(t, err)
		assert.False(t, ok)
	}

	ok, err := f.manager.Verify(ctx, email, code)
	require.NoError(t, err)
	require.True(t, ok)

	// Both windows start over: a full round of requests and wrong guesses is allowed again.
	for range 4 {
		_, err := f.manager.Generate(ctx, email)
		require.NoError(t, err)
	}
	code, err = f.manager.Generate(ctx, email)
	require.NoError(t, err)

	for range 4 {
		ok, err := f.manager.Verify(ctx, email, wrongCode(code))
		require.NoError(t, err)
		assert.False(t, ok)
	}

	ok, err = f.manager.Verify(ctx, email, code)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestManager_Expiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	code, err := f.manager.Generate(ctx, "jane@example.com")
	require.NoError(t, err)

	f.clock.Advance(10 * time.Minute)

	pending, err := f.manager.HasPending(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.False(t, pending)

	ok, err := f.manager.Verify(ctx, "jane@example.com", code)
	require.NoError(t, err)
	assert.False(t, ok)

	attempts, err := f.limiter.Attempts(ctx, "verify:"+otp.Identifier("jane@example.com"))
	require.NoError(t, err)
	assert.Zero(t, attempts, "a missing code does not count as an attempt")
}

func TestManager_HasPending(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	pending, err := f.manager.HasPending(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.False(t, pending)

	_, err = f.manager.Generate(ctx, "jane@example.com")
	require.NoError(t, err)

	for range 3 {
		pending, err = f.manager.HasPending(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.True(t, pending)
	}

	assert.Equal(t, 1, len(f.recorder.Events()), "HasPending emits nothing")
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

func TestManager_ZeroPadding(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cfg := otp.DefaultConfig()
	cfg.Length = 8
	f := newFixture(t, otp.WithConfig(cfg), otp.WithRandom(zeroReader{}))

	code, err := f.manager.Generate(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "00000000", code)

	ok, err := f.manager.Verify(ctx, "jane@example.com", "00000000")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewManager_Validation(t *testing.T) {
	t.Parallel()

	store := otp.NewMemoryStore(0)
	defer store.Close()
	limiter := ratelimiter.New(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)))

	_, err := otp.NewManager(store, limiter, []byte("short"))
	assert.Error(t, err)

	bad := []otp.Config{
		{Length: 3, TTL: time.Minute, RequestLimit: otp.Limit{MaxAttempts: 1, Decay: time.Minute}, VerifyLimit: otp.Limit{MaxAttempts: 1, Decay: time.Minute}},
		{Length: 6, TTL: 0, RequestLimit: otp.Limit{MaxAttempts: 1, Decay: time.Minute}, VerifyLimit: otp.Limit{MaxAttempts: 1, Decay: time.Minute}},
		{Length: 6, TTL: time.Minute, RequestLimit: otp.Limit{MaxAttempts: 0, Decay: time.Minute}, VerifyLimit: otp.Limit{MaxAttempts: 1, Decay: time.Minute}},
		{Length: 6, TTL: time.Minute, RequestLimit: otp.Limit{MaxAttempts: 1, Decay: time.Minute}, VerifyLimit: otp.Limit{MaxAttempts: 1}},
	}
	for _, cfg := range bad {
		_, err := otp.NewManager(store, limiter, testAppKey, otp.WithConfig(cfg))
		assert.ErrorIs(t, err, otp.ErrInvalidConfig)
	}
}

func TestManager_EmptyEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)

	_, err := f.manager.Generate(ctx, "  ")
	assert.ErrorIs(t, err, otp.ErrEmptyEmail)

	_, err = f.manager.Verify(ctx, "", "123456")
	assert.ErrorIs(t, err, otp.ErrEmptyEmail)
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Put(ctx context.Context, identifier, hashedCode string, ttl time.Duration) error {
	args := m.Called(ctx, identifier, hashedCode, ttl)
	return args.Error(0)
}

func (m *mockStore) Get(ctx context.Context, identifier string) (string, error) {
	args := m.Called(ctx, identifier)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Forget(ctx context.Context, identifier string) error {
	args := m.Called(ctx, identifier)
	return args.Error(0)
}

func (m *mockStore) Has(ctx context.Context, identifier string) (bool, error) {
	args := m.Called(ctx, identifier)
	return args.Bool(0), args.Error(1)
}

func TestManager_StoreErrorsPropagate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backendErr := errors.Join(otp.ErrStoreUnavailable, errors.New("connection refused"))
	id := otp.Identifier("jane@example.com")

	store := &mockStore{}
	store.On("Put", mock.Anything, id, mock.AnythingOfType("string"), 10*time.Minute).Return(backendErr)
	store.On("Get", mock.Anything, id).Return("", backendErr)
	store.On("Has", mock.Anything, id).Return(false, backendErr)

	limiter := ratelimiter.New(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)))
	manager, err := otp.NewManager(store, limiter, testAppKey)
	require.NoError(t, err)

	_, err = manager.Generate(ctx, "jane@example.com")
	assert.ErrorIs(t, err, otp.ErrStoreUnavailable)

	_, err = manager.Verify(ctx, "jane@example.com", "123456")
	assert.ErrorIs(t, err, otp.ErrStoreUnavailable)

	_, err = manager.HasPending(ctx, "jane@example.com")
	assert.ErrorIs(t, err, otp.ErrStoreUnavailable)

	store.AssertExpectations(t)
}

func TestRateLimitedError(t *testing.T) {
	t.Parallel()

	err := &otp.RateLimitedError{RetryAfter: 1500 * time.Millisecond}
	assert.Equal(t, 2, err.RetryAfterSeconds())
	assert.ErrorIs(t, err, otp.ErrTooManyRequests)
	assert.Contains(t, err.Error(), "2 seconds")

	assert.Equal(t, 1, (&otp.RateLimitedError{}).RetryAfterSeconds())
}

func TestManager_ConcurrentRequestsOnRedis(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	client, _ := newRedisClient(t)
	limiter := ratelimiter.New(ratelimiter.NewRedisStore(client))
	manager, err := otp.NewManager(otp.NewRedisStore(client), limiter, testAppKey)
	require.NoError(t, err)

	const callers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		issued  int
		limited int
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := manager.Generate(ctx, "jane@example.com")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				issued++
			case errors.Is(err, otp.ErrTooManyRequests):
				limited++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	maxAttempts := otp.DefaultConfig().RequestLimit.MaxAttempts
	assert.Equal(t, maxAttempts, issued)
	assert.Equal(t, callers-maxAttempts, limited)

	attempts, err := limiter.Attempts(ctx, "rate:"+otp.Identifier("jane@example.com"))
	require.NoError(t, err)
	assert.Equal(t, maxAttempts, attempts, "rejected requests are not counted")
}
