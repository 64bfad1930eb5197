package frontdoor

import (
	"fmt"
	"time"
)

// Config is the top-level configuration read from the environment.
type Config struct {
	AppKey              string `env:"FRONTDOOR_APP_KEY,required"`
	RegistrationEnabled bool   `env:"FRONTDOOR_REGISTRATION_ENABLED" envDefault:"true"`
	AccountDriver       string `env:"FRONTDOOR_ACCOUNT_DRIVER" envDefault:"testing"`
	SeedFile            string `env:"FRONTDOOR_SEED_FILE"`
}

// MailConfig controls the content and delivery mode of outgoing mail.
type MailConfig struct {
	AppName             string        `env:"FRONTDOOR_APP_NAME" envDefault:"Frontdoor"`
	OTPSubject          string        `env:"FRONTDOOR_MAIL_OTP_SUBJECT" envDefault:"Your login code"`
	VerificationSubject string        `env:"FRONTDOOR_MAIL_VERIFICATION_SUBJECT" envDefault:"Verify your email address"`
	WelcomeSubject      string        `env:"FRONTDOOR_MAIL_WELCOME_SUBJECT"` // "Welcome to <AppName>" when empty
	Async               bool          `env:"FRONTDOOR_MAIL_ASYNC" envDefault:"false"`
	AsyncTimeout        time.Duration `env:"FRONTDOOR_MAIL_ASYNC_TIMEOUT" envDefault:"30s"`
}

// DefaultMailConfig mirrors the envDefault values.
func DefaultMailConfig() MailConfig {
	return MailConfig{
		AppName:             "Frontdoor",
		OTPSubject:          "Your login code",
		VerificationSubject: "Verify your email address",
		AsyncTimeout:        30 * time.Second,
	}
}

// Subject returns the subject line for kind.
func (c MailConfig) Subject(kind MailKind) string {
	switch kind {
	case MailOTP:
		return c.OTPSubject
	case MailVerification:
		return c.VerificationSubject
	case MailWelcome:
		if c.WelcomeSubject != "" {
			return c.WelcomeSubject
		}
		return "Welcome to " + c.AppName
	}
	return ""
}

func (c MailConfig) validate() error {
	if c.AppName == "" {
		return fmt.Errorf("%w: app name is required", ErrInvalidConfig)
	}
	if c.OTPSubject == "" || c.VerificationSubject == "" {
		return fmt.Errorf("%w: mail subjects are required", ErrInvalidConfig)
	}
	return nil
}
