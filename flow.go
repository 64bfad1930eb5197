package frontdoor

import (
	"github.com/daikazu/frontdoor/pkg/session"
)

const (
	flowEmailKey         = "frontdoor.email"
	flowRegisteringKey   = "frontdoor.registering"
	flowEmailVerifiedKey = "frontdoor.email_verified"
)

// FlowState is the per-visitor state a host keeps between the steps of the
// sign-in and registration flow: which address a code was sent to, whether
// the visitor is registering, and whether that address has been confirmed.
type FlowState struct {
	Email         string
	Registering   bool
	EmailVerified bool
}

// LoadFlow reads the flow state from s. A nil session yields the zero state.
func LoadFlow(s *session.Session) FlowState {
	if s == nil {
		return FlowState{}
	}
	var st FlowState
	st.Email, _ = s.GetString(flowEmailKey)
	st.Registering, _ = s.GetBool(flowRegisteringKey)
	st.EmailVerified, _ = s.GetBool(flowEmailVerifiedKey)
	return st
}

// Save writes the state to s. Zero fields are removed rather than stored.
func (f FlowState) Save(s *session.Session) {
	if s == nil {
		return
	}
	setOrDelete(s, flowEmailKey, f.Email, f.Email != "")
	setOrDelete(s, flowRegisteringKey, true, f.Registering)
	setOrDelete(s, flowEmailVerifiedKey, true, f.EmailVerified)
}

// Pending reports whether a code has been sent and not yet used.
func (f FlowState) Pending() bool {
	return f.Email != ""
}

// ClearFlow removes every flow key from s.
func ClearFlow(s *session.Session) {
	if s == nil {
		return
	}
	s.Delete(flowEmailKey)
	s.Delete(flowRegisteringKey)
	s.Delete(flowEmailVerifiedKey)
}

func setOrDelete(s *session.Session, key string, value any, keep bool) {
	if keep {
		s.Set(key, value)
		return
	}
	s.Delete(key)
}
