package ratelimiter

import "errors"

// Package-level error definitions for rate limiter operations.
var (
	// ErrInvalidDecay indicates that the window length is not positive.
	ErrInvalidDecay = errors.New("invalid decay duration")

	// ErrInvalidMaxAttempts indicates that the attempt limit is not positive.
	ErrInvalidMaxAttempts = errors.New("invalid max attempts")

	// ErrEmptyKey indicates that an operation was called without a key.
	ErrEmptyKey = errors.New("empty rate limit key")

	// ErrStoreUnavailable indicates that the store backend is unavailable.
	ErrStoreUnavailable = errors.New("store unavailable")
)
