package events

import (
	"time"

	"github.com/google/uuid"
)

// Type names an authentication event.
type Type string

const (
	OtpRequested      Type = "otp.requested"
	OtpVerified       Type = "otp.verified"
	LoginFailed       Type = "login.failed"
	LoginSucceeded    Type = "login.succeeded"
	LogoutSucceeded   Type = "logout.succeeded"
	AccountRegistered Type = "account.registered"
)

// Reason explains a LoginFailed event.
type Reason string

const (
	ReasonExpired     Reason = "expired"
	ReasonInvalidCode Reason = "invalid_code"
)

// Event is a single authentication notification.
// Email is kept out of serialized forms; sinks that persist events store a digest.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Email      string    `json:"-"`
	AccountID  string    `json:"account_id,omitempty"`
	Reason     Reason    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Option applies configuration to an Event during creation.
type Option func(*Event)

// WithEmail sets the address the event is about.
func WithEmail(email string) Option {
	return func(e *Event) {
		e.Email = email
	}
}

// WithAccountID sets the account the event is about.
func WithAccountID(id string) Option {
	return func(e *Event) {
		e.AccountID = id
	}
}

// WithReason sets the failure reason.
func WithReason(r Reason) Option {
	return func(e *Event) {
		e.Reason = r
	}
}

// New creates an event of the given type with a fresh ID and timestamp.
func New(t Type, opts ...Option) Event {
	e := Event{
		ID:         uuid.New().String(),
		Type:       t,
		OccurredAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
