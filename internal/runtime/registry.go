package runtime

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/yuriacats/atcoder-helper/internal/ports"
)

// Factory builds a runner backend. It is called at most once per registry.
type Factory func() (ports.Runner, error)

// Backend names a runner factory.
type Backend struct {
	Name    string
	Factory Factory
}

// Registry selects a runner backend by name and owns the runners it built.
type Registry struct {
	mu        sync.Mutex
	factories map[string]Factory
	runners   map[string]ports.Runner
}

// NewRegistry constructs a registry from the supplied backends.
func NewRegistry(backends ...Backend) (*Registry, error) {
	reg := &Registry{
		factories: make(map[string]Factory, len(backends)),
		runners:   make(map[string]ports.Runner),
	}

	for _, backend := range backends {
		if backend.Name == "" {
			return nil, fmt.Errorf("runtime backend missing name")
		}
		if backend.Factory == nil {
			return nil, fmt.Errorf("runtime backend %q has no factory", backend.Name)
		}
		if _, exists := reg.factories[backend.Name]; exists {
			return nil, fmt.Errorf("duplicate runtime backend %q", backend.Name)
		}
		reg.factories[backend.Name] = backend.Factory
	}

	if len(reg.factories) == 0 {
		return nil, fmt.Errorf("at least one runtime backend must be registered")
	}

	return reg, nil
}

// Runner returns the runner registered under name, building it on first use.
func (r *Registry) Runner(name string) (ports.Runner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if runner, ok := r.runners[name]; ok {
		return runner, nil
	}

	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("no runtime backend registered as %q (have %v)", name, r.namesLocked())
	}

	runner, err := factory()
	if err != nil {
		return nil, fmt.Errorf("start %s runtime: %w", name, err)
	}
	r.runners[name] = runner
	return runner, nil
}

// Names lists the registered backends in lexical order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases every runner built so far.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, runner := range r.runners {
		if err := runner.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	r.runners = make(map[string]ports.Runner)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}
