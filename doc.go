// Package frontdoor implements passwordless sign-in with one-time codes sent
// by email.
//
// A Service ties together four collaborators:
//
//   - an account.Binding that finds (and optionally creates) accounts,
//   - an otp.Manager that issues, rate limits and checks codes,
//   - a Mailer that delivers the code, verification and welcome mail,
//   - an Identity that signs an account in on the current session.
//
// Typical wiring:
//
//	binding, err := account.Bind(account.NewCacheDriver(kv), false)
//	codes, err := otp.NewManager(otp.NewRedisStore(rdb), ratelimiter.New(ratelimiter.NewRedisStore(rdb)), appKey)
//	mailer, err := frontdoor.NewTemplateMailer(sender, frontdoor.DefaultMailConfig())
//	guard := session.NewGuard(sessions)
//
//	svc, err := frontdoor.New(binding, codes, mailer, guard,
//	    frontdoor.WithRegistration(cfg.RegistrationEnabled),
//	    frontdoor.WithEvents(sink),
//	    frontdoor.WithLogger(log),
//	)
//
// Sign-in is RequestOTP followed by Verify. Registration is
// RequestEmailVerification, VerifyEmailOnly and Register. For an address
// that already has an account, both registration entry points quietly send
// a normal sign-in code, so responses do not reveal which addresses exist.
//
// Identity is read from the context: wrap the request context with
// session.WithSession before calling Verify, Register or LoginAs. FlowState
// stores the progress between steps on the same session.
//
// # Errors
//
// ErrAccountNotFound and ErrRegistrationNotSupported describe refused
// requests. ErrValidationFailed is joined with validator.ValidationErrors,
// so per-field messages are available through validator.ExtractValidationErrors.
// Rate limiting surfaces as *otp.RateLimitedError (errors.Is
// otp.ErrTooManyRequests) and otp.ErrTooManyVerificationAttempts.
package frontdoor
