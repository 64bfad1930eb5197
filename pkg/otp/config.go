package otp

import (
	"fmt"
	"time"
)

// Limit is a fixed-window attempt limit.
type Limit struct {
	MaxAttempts int           `env:"MAX_ATTEMPTS" envDefault:"5"`
	Decay       time.Duration `env:"DECAY" envDefault:"5m"`
}

// Config holds OTP settings.
type Config struct {
	Length int           `env:"FRONTDOOR_OTP_LENGTH" envDefault:"6"`
	TTL    time.Duration `env:"FRONTDOOR_OTP_TTL" envDefault:"10m"`

	// RequestLimit caps Generate calls per email.
	RequestLimit Limit `envPrefix:"FRONTDOOR_OTP_REQUEST_"`

	// VerifyLimit caps wrong codes per email. Reaching it purges the pending code.
	VerifyLimit Limit `envPrefix:"FRONTDOOR_OTP_VERIFY_"`
}

// DefaultConfig returns 6-digit codes valid for 10 minutes, with 5 requests and
// 5 wrong guesses allowed per 5-minute window.
func DefaultConfig() Config {
	return Config{
		Length:       6,
		TTL:          10 * time.Minute,
		RequestLimit: Limit{MaxAttempts: 5, Decay: 5 * time.Minute},
		VerifyLimit:  Limit{MaxAttempts: 5, Decay: 5 * time.Minute},
	}
}

const (
	minCodeLength = 4
	maxCodeLength = 10
)

func (c Config) validate() error {
	if c.Length < minCodeLength || c.Length > maxCodeLength {
		return fmt.Errorf("%w: length must be between %d and %d, got %d", ErrInvalidConfig, minCodeLength, maxCodeLength, c.Length)
	}
	if c.TTL <= 0 {
		return fmt.Errorf("%w: ttl must be positive, got %v", ErrInvalidConfig, c.TTL)
	}
	if err := c.RequestLimit.validate("request"); err != nil {
		return err
	}
	return c.VerifyLimit.validate("verify")
}

func (l Limit) validate(name string) error {
	if l.MaxAttempts <= 0 {
		return fmt.Errorf("%w: %s max attempts must be positive, got %d", ErrInvalidConfig, name, l.MaxAttempts)
	}
	if l.Decay <= 0 {
		return fmt.Errorf("%w: %s decay must be positive, got %v", ErrInvalidConfig, name, l.Decay)
	}
	return nil
}
