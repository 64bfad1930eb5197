package frontdoor

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/a-h/templ"

	"github.com/daikazu/frontdoor/pkg/account"
	"github.com/daikazu/frontdoor/pkg/email"
	"github.com/daikazu/frontdoor/pkg/email/templates"
)

// MailKind selects the message template.
type MailKind string

const (
	MailOTP          MailKind = "otp"
	MailVerification MailKind = "verification"
	MailWelcome      MailKind = "welcome"
)

// MailPayload carries the values a template needs. Account is nil for
// verification mail sent to an address that is not registered yet.
type MailPayload struct {
	Code      string
	Account   *account.Account
	ExpiresIn time.Duration
}

// Mailer delivers authentication mail.
type Mailer interface {
	Send(ctx context.Context, to string, kind MailKind, payload MailPayload) error
}

// MailerFunc adapts a function to Mailer.
type MailerFunc func(ctx context.Context, to string, kind MailKind, payload MailPayload) error

func (f MailerFunc) Send(ctx context.Context, to string, kind MailKind, payload MailPayload) error {
	return f(ctx, to, kind, payload)
}

// TemplateMailer renders the built-in templates and hands them to an
// email.EmailSender.
type TemplateMailer struct {
	sender email.EmailSender
	config MailConfig
}

// NewTemplateMailer creates a TemplateMailer.
func NewTemplateMailer(sender email.EmailSender, cfg MailConfig) (*TemplateMailer, error) {
	if sender == nil {
		return nil, fmt.Errorf("%w: mail sender is required", ErrInvalidConfig)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &TemplateMailer{sender: sender, config: cfg}, nil
}

// Send implements Mailer.
func (m *TemplateMailer) Send(ctx context.Context, to string, kind MailKind, payload MailPayload) error {
	tpl, err := m.component(kind, payload)
	if err != nil {
		return err
	}

	body, err := templates.Render(ctx, tpl)
	if err != nil {
		return fmt.Errorf("render %s mail: %w", kind, err)
	}

	return m.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   to,
		Subject:  m.config.Subject(kind),
		BodyHTML: body,
		Tag:      string(kind),
	})
}

func (m *TemplateMailer) component(kind MailKind, p MailPayload) (templ.Component, error) {
	var name string
	if p.Account != nil {
		name = p.Account.Name
	}

	switch kind {
	case MailOTP:
		return templates.LoginCode(m.codeData(name, p)), nil
	case MailVerification:
		return templates.VerificationCode(m.codeData(name, p)), nil
	case MailWelcome:
		return templates.Welcome(templates.WelcomeData{AppName: m.config.AppName, Name: name}), nil
	}
	return nil, fmt.Errorf("%w: unknown mail kind %q", ErrInvalidConfig, kind)
}

func (m *TemplateMailer) codeData(name string, p MailPayload) templates.CodeData {
	return templates.CodeData{
		AppName:          m.config.AppName,
		Name:             name,
		Code:             p.Code,
		ExpiresInMinutes: expiresInMinutes(p.ExpiresIn),
	}
}

// expiresInMinutes rounds up so a 90s code reads "2 minutes".
func expiresInMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Minutes()))
}
