package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/daikazu/frontdoor/pkg/sanitizer"
)

// DefaultKeyPrefix namespaces CacheDriver records.
const DefaultKeyPrefix = "frontdoor:accounts:"

// CacheDriver keeps accounts in a KV store, one JSON document per email, on
// top of an optional read-only seed list. A stored record shadows a seed with
// the same email. It is meant for development, demos and tests.
type CacheDriver struct {
	kv     KV
	seeds  map[string]Seed
	prefix string
}

// CacheDriverOption configures a CacheDriver.
type CacheDriverOption func(*CacheDriver)

// WithSeeds sets the seed accounts. Keys are normalised; malformed entries are
// skipped, use LoadSeeds to validate seed files up front.
func WithSeeds(seeds map[string]Seed) CacheDriverOption {
	return func(d *CacheDriver) {
		for email, seed := range seeds {
			if key := sanitizer.NormalizeEmail(email); key != "" {
				d.seeds[key] = seed
			}
		}
	}
}

// WithKeyPrefix overrides DefaultKeyPrefix.
func WithKeyPrefix(prefix string) CacheDriverOption {
	return func(d *CacheDriver) {
		d.prefix = prefix
	}
}

// NewCacheDriver creates a CacheDriver on kv.
func NewCacheDriver(kv KV, opts ...CacheDriverOption) *CacheDriver {
	d := &CacheDriver{
		kv:     kv,
		seeds:  make(map[string]Seed),
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *CacheDriver) FindByEmail(ctx context.Context, email string) (*Account, error) {
	key := sanitizer.NormalizeEmail(email)
	if key == "" {
		return nil, ErrNotFound
	}

	seed, ok, err := d.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return seed.toAccount(key), nil
}

func (d *CacheDriver) Exists(ctx context.Context, email string) (bool, error) {
	key := sanitizer.NormalizeEmail(email)
	if key == "" {
		return false, nil
	}
	_, ok, err := d.lookup(ctx, key)
	return ok, err
}

func (d *CacheDriver) RegistrationFields() []RegistrationField {
	return []RegistrationField{{
		Name:     "name",
		Label:    "Full name",
		Type:     FieldText,
		Required: true,
		Rules:    []string{"string", "max:255"},
	}}
}

// Create stores a new account. "name" and "phone" map onto the account
// fields; any other values are kept as metadata. A missing name is derived
// from the email. The existence check and the write are not atomic.
func (d *CacheDriver) Create(ctx context.Context, email string, data map[string]any) (*Account, error) {
	key := sanitizer.NormalizeEmail(email)
	if key == "" || !strings.Contains(key, "@") {
		return nil, ErrInvalidEmail
	}

	exists, err := d.Exists(ctx, key)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyExists
	}

	seed := seedFromForm(key, data)
	raw, err := json.Marshal(seed)
	if err != nil {
		return nil, errors.Join(ErrStorageFailed, err)
	}
	if err := d.kv.Set(ctx, d.prefix+key, raw, 0); err != nil {
		return nil, errors.Join(ErrStorageFailed, err)
	}

	return seed.toAccount(key), nil
}

// Delete removes a created account. Seeds cannot be deleted.
func (d *CacheDriver) Delete(ctx context.Context, email string) error {
	if err := d.kv.Delete(ctx, d.prefix+sanitizer.NormalizeEmail(email)); err != nil {
		return errors.Join(ErrStorageFailed, err)
	}
	return nil
}

func (d *CacheDriver) lookup(ctx context.Context, key string) (Seed, bool, error) {
	raw, err := d.kv.Get(ctx, d.prefix+key)
	if err != nil {
		return Seed{}, false, errors.Join(ErrStorageFailed, err)
	}
	if raw != nil {
		var seed Seed
		if err := json.Unmarshal(raw, &seed); err != nil {
			return Seed{}, false, errors.Join(ErrStorageFailed, fmt.Errorf("decode %s: %w", key, err))
		}
		return seed, true, nil
	}

	seed, ok := d.seeds[key]
	return seed, ok, nil
}

// seedFromForm maps registration form data onto a stored record.
func seedFromForm(email string, data map[string]any) Seed {
	seed := Seed{ID: DefaultID(email)}

	if name, ok := data["name"].(string); ok {
		seed.Name = sanitizer.SingleLine(name)
	}
	if seed.Name == "" {
		seed.Name = sanitizer.NameFromEmail(email)
	}
	if phone, ok := data["phone"].(string); ok {
		seed.Phone = strings.TrimSpace(phone)
	}

	extra := maps.Clone(data)
	delete(extra, "name")
	delete(extra, "phone")
	delete(extra, "email")
	if len(extra) > 0 {
		seed.Metadata = extra
	}
	return seed
}
