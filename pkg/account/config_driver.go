package account

import (
	"context"

	"github.com/daikazu/frontdoor/pkg/sanitizer"
)

// ConfigDriver serves a fixed, read-only set of accounts, typically loaded
// with LoadSeeds. It supports sign-in only.
type ConfigDriver struct {
	seeds map[string]Seed
}

// NewConfigDriver creates a ConfigDriver. Keys are normalised.
func NewConfigDriver(seeds map[string]Seed) *ConfigDriver {
	d := &ConfigDriver{seeds: make(map[string]Seed, len(seeds))}
	for email, seed := range seeds {
		if key := sanitizer.NormalizeEmail(email); key != "" {
			d.seeds[key] = seed
		}
	}
	return d
}

func (d *ConfigDriver) FindByEmail(_ context.Context, email string) (*Account, error) {
	key := sanitizer.NormalizeEmail(email)
	seed, ok := d.seeds[key]
	if !ok {
		return nil, ErrNotFound
	}
	return seed.toAccount(key), nil
}

func (d *ConfigDriver) Exists(_ context.Context, email string) (bool, error) {
	_, ok := d.seeds[sanitizer.NormalizeEmail(email)]
	return ok, nil
}
