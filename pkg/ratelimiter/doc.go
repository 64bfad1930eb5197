// Package ratelimiter provides fixed-window attempt counting with in-memory and Redis storage.
//
// A window opens on the first hit for a key and lasts for the decay duration given
// to that hit. Further hits only increment the counter; they never move the reset
// time. Once the window elapses the counter starts from zero again.
//
// # Basic Usage
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter := ratelimiter.New(store)
//
//	limited, err := limiter.TooManyAttempts(ctx, "rate:"+id, 5)
//	if err != nil {
//		return err
//	}
//	if limited {
//		wait, _ := limiter.AvailableIn(ctx, "rate:"+id)
//		return fmt.Errorf("retry in %s", wait)
//	}
//	if _, err := limiter.Hit(ctx, "rate:"+id, 5*time.Minute); err != nil {
//		return err
//	}
//
// # Storage Backends
//
// MemoryStore keeps windows in a mutex-guarded map and sweeps elapsed ones in a
// background goroutine; call Close to stop it. RedisStore shares windows between
// processes. Its Increment is a Lua script (INCR plus PEXPIRE on the first hit),
// so concurrent callers can never push a key past its limit unnoticed.
//
//	store := ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix("myapp:limiter:"))
//
// Backend failures are returned wrapped with ErrStoreUnavailable.
package ratelimiter
