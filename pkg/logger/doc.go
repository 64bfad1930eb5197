// Package logger builds slog loggers from environment config and provides
// shared attribute helpers so every package logs the same keys.
//
//	log := logger.FromConfig(cfg.Log)
//	log.InfoContext(ctx, "otp requested", logger.Email(email))
//
// Email never logs the address itself, only a short SHA-256 prefix of the
// normalised address. Lines for one user can be correlated without exposing
// who signed in.
//
// WithContextValue copies a context value onto every record logged with
// that context.
package logger
