package frontdoor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/daikazu/frontdoor/pkg/account"
	"github.com/daikazu/frontdoor/pkg/async"
	"github.com/daikazu/frontdoor/pkg/events"
	"github.com/daikazu/frontdoor/pkg/logger"
	"github.com/daikazu/frontdoor/pkg/otp"
	"github.com/daikazu/frontdoor/pkg/sanitizer"
	"github.com/daikazu/frontdoor/pkg/validator"
)

// Service sequences account lookup, one-time codes, mail and identity into
// the sign-in and registration flows. It keeps no state of its own.
type Service struct {
	accounts     account.Driver
	creatable    account.CreatableDriver
	otp          *otp.Manager
	mailer       Mailer
	identity     Identity
	registration bool
	events       events.Sink
	log          *slog.Logger

	asyncMail   bool
	mailTimeout time.Duration
	runner      *async.Runner
}

// Option configures a Service.
type Option func(*Service)

// WithRegistration turns self-service registration on or off. It is on by
// default, and only takes effect when the bound driver can create accounts.
func WithRegistration(enabled bool) Option {
	return func(s *Service) {
		s.registration = enabled
	}
}

// WithEvents sets the sink for AccountRegistered.
func WithEvents(sink events.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.events = sink
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithAsyncMail sends mail in the background. Delivery failures are logged
// and never reach the caller.
func WithAsyncMail() Option {
	return func(s *Service) {
		s.asyncMail = true
	}
}

// WithMailTimeout bounds a background delivery. Default 30s.
func WithMailTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.mailTimeout = d
		}
	}
}

// New creates a Service over an already bound account driver.
func New(binding account.Binding, codes *otp.Manager, mailer Mailer, identity Identity, opts ...Option) (*Service, error) {
	if binding.Driver() == nil {
		return nil, fmt.Errorf("%w: account driver is required", ErrInvalidConfig)
	}
	if codes == nil {
		return nil, fmt.Errorf("%w: otp manager is required", ErrInvalidConfig)
	}
	if mailer == nil {
		return nil, fmt.Errorf("%w: mailer is required", ErrInvalidConfig)
	}
	if identity == nil {
		return nil, fmt.Errorf("%w: identity is required", ErrInvalidConfig)
	}

	s := &Service{
		accounts:     binding.Driver(),
		creatable:    binding.Creatable(),
		otp:          codes,
		mailer:       mailer,
		identity:     identity,
		registration: true,
		events:       events.Discard,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		mailTimeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log = s.log.With(logger.Component("frontdoor"))
	if s.asyncMail {
		s.runner = async.NewRunner(
			async.WithTimeout(s.mailTimeout),
			async.WithErrorHandler(func(ctx context.Context, err error) {
				s.log.ErrorContext(ctx, "background mail delivery failed", logger.Error(err))
			}),
		)
	}

	return s, nil
}

// RegistrationEnabled reports whether registration is switched on and the
// account driver can create accounts.
func (s *Service) RegistrationEnabled() bool {
	return s.registration && s.creatable != nil
}

// RegistrationFields describes the registration form.
func (s *Service) RegistrationFields() ([]account.RegistrationField, error) {
	if !s.RegistrationEnabled() {
		return nil, ErrRegistrationNotSupported
	}
	return s.creatable.RegistrationFields(), nil
}

// RequestOTP sends a sign-in code to a registered address and returns it.
// The code is returned for tracing and tests; production callers drop it.
func (s *Service) RequestOTP(ctx context.Context, email string) (string, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return "", otp.ErrEmptyEmail
	}

	acct, err := s.find(ctx, email)
	if err != nil {
		return "", err
	}
	if acct == nil {
		return "", ErrAccountNotFound
	}

	return s.sendCode(ctx, email, MailOTP, acct)
}

// RequestEmailVerification sends a code to an address that is about to
// register. A registered address gets a normal sign-in code instead, so the
// response does not reveal whether the account exists.
func (s *Service) RequestEmailVerification(ctx context.Context, email string) (string, error) {
	if !s.RegistrationEnabled() {
		return "", ErrRegistrationNotSupported
	}

	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return "", otp.ErrEmptyEmail
	}

	exists, err := s.accounts.Exists(ctx, email)
	if err != nil {
		return "", err
	}
	if exists {
		return s.RequestOTP(ctx, email)
	}

	return s.sendCode(ctx, email, MailVerification, nil)
}

// VerifyEmailOnly checks a code without signing anyone in. Hosts use it to
// gate the registration form.
func (s *Service) VerifyEmailOnly(ctx context.Context, email, code string) (bool, error) {
	return s.otp.Verify(ctx, email, code)
}

// Verify checks a sign-in code and, on success, signs the account in. An
// account deleted after the code was issued yields false without an error.
func (s *Service) Verify(ctx context.Context, email, code string) (bool, error) {
	ok, err := s.otp.Verify(ctx, email, code)
	if err != nil || !ok {
		return false, err
	}

	acct, err := s.find(ctx, email)
	if err != nil {
		return false, err
	}
	if acct == nil {
		s.log.WarnContext(ctx, "verified code for a missing account", logger.Email(email))
		return false, nil
	}

	if err := s.identity.Login(ctx, acct); err != nil {
		return false, err
	}
	return true, nil
}

// LoginAs signs an account in without a code. It is meant for trusted host
// code such as impersonation or tests. An unknown address yields false.
func (s *Service) LoginAs(ctx context.Context, email string) (bool, error) {
	acct, err := s.find(ctx, email)
	if err != nil || acct == nil {
		return false, err
	}
	if err := s.identity.Login(ctx, acct); err != nil {
		return false, err
	}
	return true, nil
}

// Logout clears the signed-in account.
func (s *Service) Logout(ctx context.Context) error {
	return s.identity.Logout(ctx)
}

// Current returns the signed-in account, or nil.
func (s *Service) Current(ctx context.Context) (*account.Account, error) {
	return s.identity.Current(ctx)
}

// Register creates an account from form data, signs it in and sends a
// welcome mail. For an address that is already registered it sends a code
// instead and returns the existing account unchanged.
//
// Invalid data returns an error matching ErrValidationFailed that also
// carries validator.ValidationErrors. When the account was created but a
// later step failed, both the account and the error are returned.
func (s *Service) Register(ctx context.Context, email string, data map[string]any) (*account.Account, error) {
	if !s.RegistrationEnabled() {
		return nil, ErrRegistrationNotSupported
	}

	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, otp.ErrEmptyEmail
	}

	existing, err := s.find(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if _, err := s.RequestEmailVerification(ctx, email); err != nil {
			return nil, err
		}
		return existing, nil
	}

	if err := s.validate(data); err != nil {
		return nil, err
	}

	acct, err := s.creatable.Create(ctx, email, data)
	if err != nil {
		return nil, err
	}

	s.events.Emit(ctx, events.New(events.AccountRegistered,
		events.WithEmail(acct.Email),
		events.WithAccountID(acct.ID),
	))
	s.log.InfoContext(ctx, "account registered", logger.AccountID(acct.ID), logger.Email(acct.Email))

	if err := s.identity.Login(ctx, acct); err != nil {
		return acct, err
	}

	if err := s.deliver(ctx, acct.Email, MailWelcome, MailPayload{Account: acct}); err != nil {
		return acct, err
	}

	return acct, nil
}

// Wait blocks until background mail has been handed off or ctx is done.
// It returns nil immediately in synchronous mode.
func (s *Service) Wait(ctx context.Context) error {
	if s.runner == nil {
		return nil
	}
	return s.runner.Wait(ctx)
}

// find returns nil, nil for an unknown address.
func (s *Service) find(ctx context.Context, email string) (*account.Account, error) {
	acct, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, account.ErrNotFound):
		return nil, nil
	case err != nil:
		return nil, err
	}
	return acct, nil
}

func (s *Service) sendCode(ctx context.Context, email string, kind MailKind, acct *account.Account) (string, error) {
	code, err := s.otp.Generate(ctx, email)
	if err != nil {
		return "", err
	}

	payload := MailPayload{
		Code:      code,
		Account:   acct,
		ExpiresIn: s.otp.Config().TTL,
	}
	if err := s.deliver(ctx, email, kind, payload); err != nil {
		return "", err
	}

	return code, nil
}

func (s *Service) validate(data map[string]any) error {
	var rules []validator.Rule
	for _, field := range s.creatable.RegistrationFields() {
		fieldRules, err := validator.FromSpecs(field.Name, data[field.Name], field.ValidationSpecs())
		if err != nil {
			return fmt.Errorf("%w: field %q: %w", ErrInvalidConfig, field.Name, err)
		}
		rules = append(rules, fieldRules...)
	}

	if err := validator.Apply(rules...); err != nil {
		return errors.Join(ErrValidationFailed, err)
	}
	return nil
}

func (s *Service) deliver(ctx context.Context, to string, kind MailKind, payload MailPayload) error {
	if s.runner != nil {
		s.runner.Go(ctx, func(ctx context.Context) error {
			if err := s.mailer.Send(ctx, to, kind, payload); err != nil {
				return fmt.Errorf("%s mail to %s: %w", kind, sanitizer.MaskEmail(to), err)
			}
			return nil
		})
		return nil
	}

	if err := s.mailer.Send(ctx, to, kind, payload); err != nil {
		s.log.ErrorContext(ctx, "mail delivery failed",
			logger.Kind(string(kind)),
			logger.Email(to),
			logger.Error(err),
		)
		return errors.Join(ErrMailFailed, err)
	}
	return nil
}
