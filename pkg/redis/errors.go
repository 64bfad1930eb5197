package redis

import "errors"

// Connection.
var (
	ErrEmptyConnectionURL = errors.New("redis: connection URL is empty")
	ErrInvalidURL         = errors.New("redis: invalid connection URL")
	ErrNotReady           = errors.New("redis: server did not answer in time")
	ErrHealthcheckFailed  = errors.New("redis: ping failed")
)

// Storage.
var (
	ErrStorageUnavailable = errors.New("redis: storage unavailable")
	ErrEmptyKey           = errors.New("redis: empty key")
	ErrUnscopedReset      = errors.New("redis: reset needs a key prefix")
)
