package otp

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrCodeNotFound                = errors.New("otp: code not found or expired")
	ErrStoreUnavailable            = errors.New("otp: store unavailable")
	ErrTooManyRequests             = errors.New("otp: too many code requests")
	ErrTooManyVerificationAttempts = errors.New("otp: too many verification attempts")
	ErrEmptyEmail                  = errors.New("otp: empty email")
	ErrInvalidConfig               = errors.New("otp: invalid configuration")
	ErrCodeGeneration              = errors.New("otp: failed to generate code")
)

// RateLimitedError is returned by Generate when the request window is exhausted.
// errors.Is(err, ErrTooManyRequests) reports true for it.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("%s: retry in %d seconds", ErrTooManyRequests, e.RetryAfterSeconds())
}

func (e *RateLimitedError) Unwrap() error {
	return ErrTooManyRequests
}

// RetryAfterSeconds returns the wait hint in whole seconds, at least 1.
func (e *RateLimitedError) RetryAfterSeconds() int {
	secs := int((e.RetryAfter + time.Second - 1) / time.Second)
	return max(secs, 1)
}
