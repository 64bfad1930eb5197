package session

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/daikazu/frontdoor/pkg/account"
)

// Session is server-side state addressed by an opaque token. A Session is not
// safe for concurrent use; load one per request.
type Session struct {
	ID             string           `json:"id"`
	Token          string           `json:"token"`
	Identity       *account.Account `json:"identity,omitempty"`
	Data           map[string]any   `json:"data,omitempty"`
	ExpiresAt      time.Time        `json:"expires_at"`
	LastActivityAt time.Time        `json:"last_activity_at"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NewSession creates an anonymous session valid for ttl from now.
func NewSession(token string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:             uuid.NewString(),
		Token:          token,
		Data:           make(map[string]any),
		ExpiresAt:      now.Add(ttl),
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

// IsAuthenticated reports whether an account is logged in on this session.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Identity != nil
}

// ExpiredAt reports whether the session is expired at t.
func (s *Session) ExpiredAt(t time.Time) bool {
	return s != nil && !t.Before(s.ExpiresAt)
}

// Get retrieves a value from session data.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Data == nil {
		return nil, false
	}
	val, ok := s.Data[key]
	return val, ok
}

// GetString retrieves a string value from session data.
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetBool retrieves a bool value from session data.
func (s *Session) GetBool(key string) (bool, bool) {
	val, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Set stores a value. Values must survive a JSON round trip when the session
// lives in Redis.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[key] = value
}

func (s *Session) Delete(key string) {
	if s == nil || s.Data == nil {
		return
	}
	delete(s.Data, key)
}

// Clear drops all data. The identity is kept.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.Data = make(map[string]any)
}

// clone returns a deep enough copy for stores to hold.
func (s *Session) clone() *Session {
	c := *s
	c.Data = maps.Clone(s.Data)
	c.Identity = s.Identity.Clone()
	return &c
}
