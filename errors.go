package frontdoor

import "errors"

var (
	// ErrAccountNotFound is returned when a sign-in is requested for an unknown email.
	ErrAccountNotFound = errors.New("no account for this email")

	// ErrRegistrationNotSupported is returned when registration is disabled or the
	// bound account driver cannot create accounts.
	ErrRegistrationNotSupported = errors.New("registration is not supported")

	// ErrValidationFailed wraps validator.ValidationErrors from Register.
	ErrValidationFailed = errors.New("registration data is invalid")

	// ErrMailFailed wraps a delivery failure in synchronous mail mode.
	ErrMailFailed = errors.New("failed to send mail")

	ErrInvalidConfig = errors.New("invalid frontdoor configuration")
)
