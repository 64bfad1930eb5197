package account

import (
	"maps"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Account is the identity record returned by a Driver. It is a value object:
// callers receive a fresh copy and never write it back.
type Account struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone,omitempty"`
	AvatarURL string         `json:"avatar_url,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Meta looks up a metadata value.
func (a *Account) Meta(key string) (any, bool) {
	if a == nil || a.Metadata == nil {
		return nil, false
	}
	v, ok := a.Metadata[key]
	return v, ok
}

// Initial returns the upper-cased first character of the name, or of the
// email's local part when the name is empty.
func (a *Account) Initial() string {
	if a == nil {
		return ""
	}
	return initial(a.Name, a.Email)
}

// Field resolves a named attribute the way templates address an account:
// the well-known fields first, then metadata.
func (a *Account) Field(name string) (any, bool) {
	if a == nil {
		return nil, false
	}
	switch name {
	case "id":
		return a.ID, true
	case "name":
		return a.Name, true
	case "email":
		return a.Email, true
	case "phone":
		return a.Phone, true
	case "avatar_url", "avatarUrl":
		return a.AvatarURL, true
	case "initial":
		return a.Initial(), true
	case "metadata":
		return a.Metadata, true
	}
	return a.Meta(name)
}

// Clone copies the account and its metadata map. Nested metadata values are shared.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	c := *a
	c.Metadata = maps.Clone(a.Metadata)
	return &c
}

func initial(name, fallback string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		s = strings.TrimSpace(fallback)
	}
	if at := strings.IndexByte(s, '@'); at >= 0 {
		s = s[:at]
	}
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r))
}
