package account

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
)

// Factory builds a driver. It is called once per Resolve.
type Factory func(ctx context.Context) (Driver, error)

// Registry maps driver names to factories, the way hosts pick a driver by
// configuration ("testing", "postgres", "mongodb", ...).
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Names lists registered driver names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve builds the driver registered under name.
func (r *Registry) Resolve(ctx context.Context, name string) (Driver, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok || f == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, name)
	}

	d, err := f(ctx)
	if err != nil {
		return nil, fmt.Errorf("account driver %q: %w", name, err)
	}
	if d == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDriver, name)
	}
	return d, nil
}

// Bind resolves name and binds it. See Bind.
func (r *Registry) Bind(ctx context.Context, name string, requireCreatable bool) (Binding, error) {
	d, err := r.Resolve(ctx, name)
	if err != nil {
		return Binding{}, err
	}
	b, err := Bind(d, requireCreatable)
	if err != nil {
		return Binding{}, fmt.Errorf("account driver %q: %w", name, err)
	}
	return b, nil
}

// Binding is a driver whose capabilities were checked once, at configuration
// time, instead of on every call.
type Binding struct {
	driver    Driver
	creatable CreatableDriver
}

// Bind checks d's capabilities. With requireCreatable set, a driver that
// cannot create accounts fails here with ErrDriverNotCreatable.
func Bind(d Driver, requireCreatable bool) (Binding, error) {
	if d == nil {
		return Binding{}, ErrInvalidDriver
	}
	b := Binding{driver: d}
	if c, ok := d.(CreatableDriver); ok {
		b.creatable = c
	}
	if requireCreatable && b.creatable == nil {
		return Binding{}, errors.Join(ErrDriverNotCreatable, fmt.Errorf("%T", d))
	}
	return b, nil
}

// Driver returns the bound driver, or nil for a zero Binding.
func (b Binding) Driver() Driver {
	return b.driver
}

// Creatable returns the driver as a CreatableDriver, or nil if it cannot
// create accounts.
func (b Binding) Creatable() CreatableDriver {
	return b.creatable
}
