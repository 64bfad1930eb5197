package account

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/daikazu/frontdoor/pkg/sanitizer"
)

// Seed is the stored form of an account in the key/value and config drivers.
// Empty fields fall back to derived defaults when the account is read.
type Seed struct {
	ID        string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty"`
	Phone     string         `json:"phone,omitempty" yaml:"phone,omitempty"`
	AvatarURL string         `json:"avatar_url,omitempty" yaml:"avatar_url,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type seedFile struct {
	Users map[string]Seed `yaml:"users"`
}

// LoadSeeds reads seed accounts from YAML keyed by email:
//
//	users:
//	  jane@example.com:
//	    name: Jane Doe
//	    metadata:
//	      plan: pro
//	  ops@example.com: {}
//
// Emails are normalised; two entries that normalise to the same address are
// rejected.
func LoadSeeds(r io.Reader) (map[string]Seed, error) {
	var f seedFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Join(ErrInvalidSeed, err)
	}
	return normalizeSeeds(f.Users)
}

func normalizeSeeds(in map[string]Seed) (map[string]Seed, error) {
	out := make(map[string]Seed, len(in))
	for email, seed := range in {
		key := sanitizer.NormalizeEmail(email)
		if key == "" || !strings.Contains(key, "@") {
			return nil, fmt.Errorf("%w: %q is not an email address", ErrInvalidSeed, email)
		}
		if _, dup := out[key]; dup {
			return nil, fmt.Errorf("%w: duplicate entry for %q", ErrInvalidSeed, key)
		}
		out[key] = seed
	}
	return out, nil
}

// toAccount fills the derived defaults: the hex MD5 of the normalised email as
// ID and a name built from the local part.
func (s Seed) toAccount(email string) *Account {
	a := &Account{
		ID:        s.ID,
		Name:      s.Name,
		Email:     email,
		Phone:     s.Phone,
		AvatarURL: s.AvatarURL,
		Metadata:  maps.Clone(s.Metadata),
	}
	if a.ID == "" {
		a.ID = DefaultID(email)
	}
	if a.Name == "" {
		a.Name = sanitizer.NameFromEmail(email)
	}
	if a.Metadata == nil {
		a.Metadata = map[string]any{}
	}
	return a
}

// DefaultID derives a stable account ID from an email address.
// MD5 is used as a fingerprint here, not for security.
func DefaultID(email string) string {
	sum := md5.Sum([]byte(sanitizer.NormalizeEmail(email)))
	return hex.EncodeToString(sum[:])
}
