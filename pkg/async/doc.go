// Package async runs fire-and-forget background tasks.
//
// A Runner detaches each task from the caller's cancellation, applies an
// optional per-task deadline, recovers panics and reports failures to an
// ErrorHandler. Wait drains in-flight tasks during shutdown.
//
//	r := async.NewRunner(
//	    async.WithTimeout(30*time.Second),
//	    async.WithErrorHandler(func(ctx context.Context, err error) {
//	        log.ErrorContext(ctx, "background task failed", logger.Error(err))
//	    }),
//	)
//	r.Go(ctx, func(ctx context.Context) error {
//	    return mailer.Send(ctx, to, kind, payload)
//	})
//
//	// on shutdown
//	_ = r.Wait(shutdownCtx)
package async
