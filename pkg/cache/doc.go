// Package cache provides a generic, thread-safe LRU cache with optional
// per-entry expiry, plus Store, a context-aware byte key/value store built on
// top of it.
//
// LRUCache evicts the least recently used entry once it reaches capacity.
// Entries written with PutWithTTL expire lazily: they disappear on the first
// read after their deadline.
//
//	c := cache.NewLRUCache[string, *Account](1000)
//	c.PutWithTTL("jane@example.com", acct, time.Hour)
//	acct, ok := c.Get("jane@example.com")
//
// Store exposes Get, Set, Delete and Reset with a context and []byte values,
// the same method set as the Redis-backed storage in pkg/redis, so a component
// that needs key/value persistence can run in-process during development and
// tests and against Redis in production. Get returns nil, nil for missing keys.
//
//	kv := cache.NewStore(0) // DefaultStoreCapacity
//	_ = kv.Set(ctx, "frontdoor:accounts:jane@example.com", payload, 0)
package cache
