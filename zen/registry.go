package zen

import (
	"sort"
	"sync"
)

// PackageLoader builds the value bound by `.include <name>`. It runs once per
// interpreter, so packages may keep per-interpreter state.
type PackageLoader func(in *Interpreter) (Value, error)

// Registry maps built-in package names to loaders. One registry is attached
// to each interpreter through Config.Packages; a registry may be shared by
// several interpreters.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]PackageLoader
}

func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]PackageLoader)}
}

// Register adds or replaces a package loader.
func (r *Registry) Register(name string, loader PackageLoader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[name] = loader
}

// RegisterMembers registers a stateless package built from a fixed member
// table.
func (r *Registry) RegisterMembers(name string, members map[string]Value) {
	r.Register(name, func(*Interpreter) (Value, error) {
		clone := make(map[string]Value, len(members))
		for k, v := range members {
			clone[k] = v
		}
		return NewObject(clone), nil
	})
}

func (r *Registry) Lookup(name string) (PackageLoader, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	loader, ok := r.loaders[name]
	return loader, ok
}

// Names lists registered packages in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.loaders))
	for name := range r.loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
