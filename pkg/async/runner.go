package async

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ErrorHandler receives the error of a failed task. ctx is the task context,
// already detached from the caller.
type ErrorHandler func(ctx context.Context, err error)

// Runner runs fire-and-forget tasks. Each task gets its own deadline, a panic
// is turned into an error, and errors go to the handler instead of the caller.
type Runner struct {
	wg      sync.WaitGroup
	timeout time.Duration
	onError ErrorHandler
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds every task. Zero means no deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// WithErrorHandler sets the callback for failed tasks.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(r *Runner) {
		if fn != nil {
			r.onError = fn
		}
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{onError: func(context.Context, error) {}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Go starts fn in a new goroutine. The task context keeps the values of ctx
// but not its cancellation, so the task outlives the request that started it.
func (r *Runner) Go(ctx context.Context, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		taskCtx := context.WithoutCancel(ctx)
		if r.timeout > 0 {
			var cancel context.CancelFunc
			taskCtx, cancel = context.WithTimeout(taskCtx, r.timeout)
			defer cancel()
		}

		if err := run(taskCtx, fn); err != nil {
			r.onError(taskCtx, err)
		}
	}()
}

// Wait blocks until every started task has returned or ctx is done.
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
	}
}

func run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, rec)
		}
	}()
	return fn(ctx)
}
