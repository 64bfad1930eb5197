// Package redis connects to Redis and exposes a small key/value Storage on
// top of github.com/redis/go-redis/v9.
//
// Connect retries until the server answers a PING or the configured timeout
// elapses. Config is populated from the environment (REDIS_URL and friends)
// through pkg/config.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	kv := redis.NewStorage(client, redis.WithPrefix("frontdoor:"))
//	err = kv.Set(ctx, "accounts:jane@example.com", payload, 0)
//
// Storage has the same Get/Set/Delete/Reset method set as cache.Store, so the
// account driver can run on either. Get returns nil, nil for a missing key and
// backend failures are wrapped with ErrStorageUnavailable.
//
// Healthcheck returns a probe suitable for readiness checks.
package redis
