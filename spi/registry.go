package spi

import (
	"sync"

	"github.com/pkg/errors"
)

// Registry is an in-process Loader: provider factories registered
// under a module path stand in for loadable module files. This is the
// loader of choice for statically linked providers and for tests.
type Registry struct {
	mu        sync.Mutex
	factories map[string]func() Provider
	released  map[string]int
}

var _ Loader = &Registry{}

func NewRegistry() *Registry {
	return &Registry{
		factories: map[string]func() Provider{},
		released:  map[string]int{},
	}
}

// Register installs a provider factory under path, replacing any
// previous registration.
func (r *Registry) Register(path string, factory func() Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[path] = factory
}

func (r *Registry) Load(path string) (Module, error) {
	r.mu.Lock()
	factory, ok := r.factories[path]
	r.mu.Unlock()

	if !ok {
		return nil, errors.Errorf("no provider registered for module path %q", path)
	}
	return &registryModule{registry: r, path: path, provider: factory()}, nil
}

// ReleaseCount reports how many modules loaded from path have been
// released. Test hook.
func (r *Registry) ReleaseCount(path string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.released[path]
}

type registryModule struct {
	registry *Registry
	path     string

	mu       sync.Mutex
	provider Provider
}

func (m *registryModule) Provider() Provider {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.provider
}

func (m *registryModule) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.provider == nil {
		return errors.Errorf("module %q released twice", m.path)
	}
	m.provider = nil

	m.registry.mu.Lock()
	m.registry.released[m.path]++
	m.registry.mu.Unlock()
	return nil
}
