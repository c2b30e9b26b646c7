package funcs

import (
	"fmt"
	"sync"
)

// Registry manages the collection of callable functions.
// It provides thread-safe registration, lookup, and listing, and preserves
// registration order so that prompt rendering is deterministic.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]*Function

	// order tracks registration order for deterministic listing
	order []string

	// validators for custom validation rules
	validators []RegistryValidator
}

// RegistryValidator is a function that validates definitions during
// registration.
type RegistryValidator func(fn *Function) error

// NewRegistry creates a new function registry.
func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]*Function),
	}
}

// AddValidator adds a custom validation rule applied on Register.
func (r *Registry) AddValidator(v RegistryValidator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.validators = append(r.validators, v)
}

// Register adds a function definition to the registry.
// It returns an error if the definition is invalid or if a function with
// the same name is already registered.
func (r *Registry) Register(fn *Function) error {
	if fn == nil {
		return fmt.Errorf("function cannot be nil")
	}

	if err := fn.Validate(); err != nil {
		return fmt.Errorf("function validation failed: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, validator := range r.validators {
		if err := validator(fn); err != nil {
			return fmt.Errorf("custom validation failed: %w", err)
		}
	}

	if _, exists := r.funcs[fn.Name]; exists {
		return fmt.Errorf("function %q already registered", fn.Name)
	}

	// Store a clone to prevent external modifications
	r.funcs[fn.Name] = fn.Clone()
	r.order = append(r.order, fn.Name)

	return nil
}

// Unregister removes a function from the registry.
// It returns an error if the function is not found.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.funcs[name]; !exists {
		return fmt.Errorf("function %q not found", name)
	}

	delete(r.funcs, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

// Get retrieves a function definition by name.
// The returned definition is a clone; mutating it does not affect the
// registry.
func (r *Registry) Get(name string) (*Function, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, exists := r.funcs[name]
	if !exists {
		return nil, fmt.Errorf("function %q not found", name)
	}

	return fn.Clone(), nil
}

// Has reports whether a function with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.funcs[name]
	return exists
}

// List returns clones of all registered functions in registration order.
func (r *Registry) List() []*Function {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]*Function, 0, len(r.order))
	for _, name := range r.order {
		results = append(results, r.funcs[name].Clone())
	}
	return results
}

// Names returns the registered function names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.funcs)
}

// Clear removes all functions from the registry.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.funcs = make(map[string]*Function)
	r.order = nil
}
