// Package registry maps declared type names to constructors.
//
// Components are constructed by name in two ways: a kind-specific Builder
// that owns the whole element, or a plain Factory whose product is then
// configured generically. Names that are not registered statically may be
// supplied by Resolvers, which stand in for dynamic loading.
package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Registry 类型注册表
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	builders  map[Kind]map[string]Builder
	levels    map[string]LevelParser
	resolvers []Resolver
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		builders:  make(map[Kind]map[string]Builder),
		levels:    make(map[string]LevelParser),
	}
}

// Register binds name and its aliases to a factory. Duplicate names panic.
func (r *Registry) Register(name string, f Factory, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range append([]string{name}, aliases...) {
		if _, exists := r.factories[n]; exists {
			panic(fmt.Sprintf("type with name '%s' already registered", n))
		}
		slog.Debug("Registering type.", "name", n)
		r.factories[n] = f
	}
}

// RegisterBuilder binds a plugin builder for (kind, name) and its aliases.
func (r *Registry) RegisterBuilder(kind Kind, name string, b Builder, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.builders[kind]
	if !ok {
		m = make(map[string]Builder)
		r.builders[kind] = m
	}
	for _, n := range append([]string{name}, aliases...) {
		if _, exists := m[n]; exists {
			panic(fmt.Sprintf("%s builder with name '%s' already registered", kind, n))
		}
		slog.Debug("Registering builder.", "kind", kind, "name", n)
		m[n] = b
	}
}

// RegisterLevel binds a custom level class name to its parser.
func (r *Registry) RegisterLevel(name string, p LevelParser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.levels[name]; exists {
		panic(fmt.Sprintf("level class '%s' already registered", name))
	}
	r.levels[name] = p
}

// AddResolver appends a fallback consulted by New for unregistered names.
func (r *Registry) AddResolver(res Resolver) {
	r.mu.Lock()
	r.resolvers = append(r.resolvers, res)
	r.mu.Unlock()
}

// New constructs an instance of the named type.
func (r *Registry) New(name string) (any, error) {
	f, err := r.Factory(name)
	if err != nil {
		return nil, err
	}
	return f(), nil
}

// Factory returns the factory for name, consulting resolvers on a miss.
func (r *Registry) Factory(name string) (Factory, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	resolvers := r.resolvers
	r.mu.RUnlock()
	if ok {
		return f, nil
	}

	for _, res := range resolvers {
		if f, ok := res(name); ok && f != nil {
			return f, nil
		}
	}
	return nil, &UnknownTypeError{Name: name}
}

// Builder returns the plugin builder registered for (kind, name).
func (r *Registry) Builder(kind Kind, name string) (Builder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[kind][name]
	return b, ok
}

// LevelParser returns the parser registered for a custom level class.
func (r *Registry) LevelParser(name string) (LevelParser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.levels[name]
	return p, ok
}

// Names returns every statically registered type name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
