package check

import (
	"sort"
	"sync"
)

// Registry holds named checks.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	checks map[string]Action
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		checks: make(map[string]Action),
	}
}

// Register adds a check under the given name.
// Returns a *ConfigError if the name is empty, the action is nil, or the
// name is already registered. The registry is left unchanged on error.
func (r *Registry) Register(name string, action Action) error {
	if err := validate(name, action); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.checks[name]; exists {
		return &ConfigError{Name: name, Err: ErrDuplicate}
	}
	r.checks[name] = action
	return nil
}

// RegisterAll adds every check or none of them.
// Returns a *ConfigError for the first invalid, already registered, or
// repeated name; the registry is left unchanged on error.
func (r *Registry) RegisterAll(checks []Check) error {
	seen := make(map[string]bool, len(checks))
	for _, chk := range checks {
		if err := validate(chk.Name, chk.Action); err != nil {
			return err
		}
		if seen[chk.Name] {
			return &ConfigError{Name: chk.Name, Err: ErrDuplicate}
		}
		seen[chk.Name] = true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, chk := range checks {
		if _, exists := r.checks[chk.Name]; exists {
			return &ConfigError{Name: chk.Name, Err: ErrDuplicate}
		}
	}
	for _, chk := range checks {
		r.checks[chk.Name] = chk.Action
	}
	return nil
}

func validate(name string, action Action) error {
	if name == "" {
		return &ConfigError{Name: name, Err: ErrInvalid, Detail: "check name must not be empty"}
	}
	if action == nil {
		return &ConfigError{Name: name, Err: ErrInvalid, Detail: "check action must not be nil"}
	}
	return nil
}

// List returns all registered checks sorted by name.
func (r *Registry) List() []Check {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checks := make([]Check, 0, len(r.checks))
	for name, action := range r.checks {
		checks = append(checks, Check{Name: name, Action: action})
	}
	sort.Slice(checks, func(i, j int) bool {
		return checks[i].Name < checks[j].Name
	})
	return checks
}

// Len returns the number of registered checks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.checks)
}
