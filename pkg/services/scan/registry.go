package scan

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/compliance-atlas/pkg/models/domain"
)

// Check is one executable compliance evaluation. It returns zero or
// more results, or an error when the evaluation as a whole failed. The
// scanner converts both errors and panics into ERROR results at the
// rule boundary.
type Check func(ctx context.Context) ([]domain.Result, error)

// Registry binds check names to their implementations.
type Registry interface {
	// Register adds a new check under the given name.
	Register(name string, check Check) error
	// Resolve looks up a check by name, reporting whether it is bound.
	Resolve(name string) (Check, bool)
	// ListChecks returns the registered names, sorted.
	ListChecks() []string
}

type registry struct {
	mu     sync.RWMutex
	checks map[string]Check
}

// NewRegistry creates an empty check registry.
func NewRegistry() Registry {
	return &registry{
		checks: make(map[string]Check),
	}
}

func (r *registry) Register(name string, check Check) error {
	if name == "" {
		return fmt.Errorf("check name cannot be empty")
	}
	if check == nil {
		return fmt.Errorf("check cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.checks[name]; exists {
		return fmt.Errorf("check %q is already registered", name)
	}

	r.checks[name] = check
	return nil
}

func (r *registry) Resolve(name string) (Check, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	check, ok := r.checks[name]
	return check, ok
}

func (r *registry) ListChecks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.checks))
	for name := range r.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
