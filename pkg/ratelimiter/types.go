package ratelimiter

import "time"

// Result describes the state of a fixed window for a key.
type Result struct {
	Limit    int       // Maximum attempts allowed in the window
	Attempts int       // Attempts registered in the current window
	ResetAt  time.Time // Zero when no window is active
}

// Allowed reports whether another attempt fits into the window.
func (r *Result) Allowed() bool {
	return r.Attempts < r.Limit
}

// Remaining returns how many attempts are left in the current window.
func (r *Result) Remaining() int {
	return max(r.Limit-r.Attempts, 0)
}

// RetryAfter returns how long to wait before the next attempt.
// Returns 0 if an attempt is allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() || r.ResetAt.IsZero() {
		return 0
	}
	return max(time.Until(r.ResetAt), 0)
}
