package backend

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrBackendExists is returned when a namespace is registered twice.
var ErrBackendExists = errors.New("backend already registered")

// Registry holds backends by namespace.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Backend
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Backend)}
}

// Register adds b under its name. Two backends cannot share a namespace.
func (r *Registry) Register(b Backend) error {
	switch {
	case b == nil:
		return errors.New("register: nil backend")
	case b.Name() == "":
		return errors.New("register: backend has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byName[b.Name()]; dup {
		return fmt.Errorf("%w: %s", ErrBackendExists, b.Name())
	}
	r.byName[b.Name()] = b
	return nil
}

// Get returns the backend serving namespace.
func (r *Registry) Get(namespace string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byName[namespace]
	return b, ok
}

// List returns every backend, ordered by namespace so tool listings are
// stable.
func (r *Registry) List() []Backend {
	r.mu.RLock()
	out := make([]Backend, 0, len(r.byName))
	for _, b := range r.byName {
		out = append(out, b)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Backend) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

// ListEnabled is List without the disabled backends.
func (r *Registry) ListEnabled() []Backend {
	return slices.DeleteFunc(r.List(), func(b Backend) bool { return !b.Enabled() })
}

// StartAll starts the enabled backends in namespace order and stops at the
// first failure.
func (r *Registry) StartAll(ctx context.Context) error {
	for _, b := range r.ListEnabled() {
		if err := b.Start(ctx); err != nil {
			return fmt.Errorf("start %s: %w", b.Name(), err)
		}
	}
	return nil
}

// StopAll stops every backend, enabled or not, and joins the failures.
func (r *Registry) StopAll() error {
	var errs []error
	for _, b := range r.List() {
		if err := b.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", b.Name(), err))
		}
	}
	return errors.Join(errs...)
}
