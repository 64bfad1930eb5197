package async

import "errors"

var (
	ErrPanic   = errors.New("async: task panicked")
	ErrTimeout = errors.New("async: timed out waiting for tasks")
)
