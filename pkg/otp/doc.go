// Package otp issues and verifies short numeric one-time codes sent by email.
//
// Codes are drawn uniformly from [0, 10^Length) with crypto/rand and zero-padded.
// Only an HMAC-SHA256 of the code is stored, keyed with a subkey derived from the
// application key, and comparisons are constant time. Storage and rate-limit keys
// use Identifier(email), a SHA-256 digest of the lowercased address, so neither
// backend ever sees the address.
//
// # Limits
//
// Two fixed windows guard each address:
//
//   - "rate:<id>" counts Generate calls. When RequestLimit.MaxAttempts is reached,
//     Generate returns *RateLimitedError with a retry hint and the rejected call
//     is not counted.
//   - "verify:<id>" counts wrong codes. The call that reaches
//     VerifyLimit.MaxAttempts purges the pending code and returns
//     ErrTooManyVerificationAttempts.
//
// A successful Verify consumes the code and clears both windows.
//
// # Usage
//
//	limiter := ratelimiter.New(ratelimiter.NewRedisStore(client))
//	manager, err := otp.NewManager(otp.NewRedisStore(client), limiter, appKey,
//		otp.WithEvents(sink),
//	)
//
//	code, err := manager.Generate(ctx, "jane@example.com")
//	var rl *otp.RateLimitedError
//	if errors.As(err, &rl) {
//		// tell the user to wait rl.RetryAfterSeconds()
//	}
//
//	ok, err := manager.Verify(ctx, "Jane@Example.com", code)
package otp
