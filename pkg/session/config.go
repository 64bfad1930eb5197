package session

import "time"

// Config holds session lifetimes.
type Config struct {
	AnonLifetime    time.Duration `env:"SESSION_ANON_LIFETIME" envDefault:"24h"`
	AuthLifetime    time.Duration `env:"SESSION_AUTH_LIFETIME" envDefault:"720h"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"` // memory store only, 0 disables
}

// DefaultConfig mirrors the env defaults.
func DefaultConfig() Config {
	return Config{
		AnonLifetime:    24 * time.Hour,
		AuthLifetime:    30 * 24 * time.Hour,
		CleanupInterval: 5 * time.Minute,
	}
}

// Lifetime returns the lifetime for a session in the given state.
func (c Config) Lifetime(authenticated bool) time.Duration {
	if authenticated {
		return c.AuthLifetime
	}
	return c.AnonLifetime
}
