package account

import (
	"context"
	"time"
)

// KV is the byte key/value store behind CacheDriver. cache.Store and
// redis.Storage both satisfy it. Get returns nil, nil for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
