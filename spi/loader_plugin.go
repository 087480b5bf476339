//go:build linux || darwin || freebsd

package spi

import (
	"plugin"

	"github.com/pkg/errors"
)

// NewProviderSymbol is the symbol a provider plugin must export: a
// func() Provider constructor.
const NewProviderSymbol = "NewProvider"

// PluginLoader loads provider modules from shared-object files built
// with -buildmode=plugin.
type PluginLoader struct{}

var _ Loader = PluginLoader{}

func (PluginLoader) Load(path string) (Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening provider module %q", path)
	}

	sym, err := p.Lookup(NewProviderSymbol)
	if err != nil {
		return nil, errors.Wrapf(err, "module %q does not export %s", path, NewProviderSymbol)
	}
	factory, ok := sym.(func() Provider)
	if !ok {
		return nil, errors.Errorf("module %q exports %s with the wrong type %T", path, NewProviderSymbol, sym)
	}

	return pluginModule{provider: factory()}, nil
}

type pluginModule struct {
	provider Provider
}

func (m pluginModule) Provider() Provider {
	return m.provider
}

// Release is a no-op: the runtime keeps plugins mapped for the life of
// the process.
func (m pluginModule) Release() error {
	return nil
}
