package engine

import (
	"fmt"
	"plugin"

	"firestige.xyz/wirefp/internal/core"
)

// Resolver looks up engine entry points by name.
type Resolver interface {
	Lookup(symbol string) (any, error)
}

// StaticResolver resolves symbols from a map.
type StaticResolver map[string]any

// Lookup implements Resolver.
func (r StaticResolver) Lookup(symbol string) (any, error) {
	if v, ok := r[symbol]; ok && v != nil {
		return v, nil
	}
	return nil, fmt.Errorf("%s: %w", symbol, core.ErrSymbolNotFound)
}

// Without returns a copy of r lacking the named symbols.
func (r StaticResolver) Without(symbols ...string) StaticResolver {
	out := make(StaticResolver, len(r))
	for k, v := range r {
		out[k] = v
	}
	for _, s := range symbols {
		delete(out, s)
	}
	return out
}

// PluginResolver resolves symbols from a Go plugin.
type PluginResolver struct {
	path string
	p    *plugin.Plugin
}

// OpenPlugin loads the plugin at path.
func OpenPlugin(path string) (*PluginResolver, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open engine %s: %v: %w", path, err, core.ErrBindFailed)
	}
	return &PluginResolver{path: path, p: p}, nil
}

// Lookup implements Resolver.
func (r *PluginResolver) Lookup(symbol string) (any, error) {
	sym, err := r.p.Lookup(symbol)
	if err != nil {
		return nil, fmt.Errorf("%s in %s: %w", symbol, r.path, core.ErrSymbolNotFound)
	}
	return sym, nil
}

// Path returns the plugin file the resolver was opened from.
func (r *PluginResolver) Path() string { return r.path }
