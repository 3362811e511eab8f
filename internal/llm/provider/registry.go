package provider

import (
	"fmt"
	"sync"
)

// Factory builds a Completer from a configuration map.
type Factory func(config map[string]any) (Completer, error)

// Registry manages completion providers. It is constructed explicitly and
// injected; there is no package-level registry.
type Registry struct {
	factories map[string]Factory
	providers map[string]Completer
	mu        sync.RWMutex
}

// NewRegistry creates a registry with the built-in factories registered.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[string]Factory),
		providers: make(map[string]Completer),
	}
	r.RegisterFactory("openai", newOpenAIFromConfig)
	r.RegisterFactory("gemini", newGeminiFromConfig)
	return r
}

// RegisterFactory registers a provider factory under a name.
func (r *Registry) RegisterFactory(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Register registers an already-constructed provider.
func (r *Registry) Register(name string, c Completer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = c
}

// Get returns the provider registered under name, constructing it from its
// factory on first use.
func (r *Registry) Get(name string, config map[string]any) (Completer, error) {
	r.mu.RLock()
	if c, ok := r.providers[name]; ok {
		r.mu.RUnlock()
		return c, nil
	}
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("provider '%s' not found", name)
	}

	c, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("create provider '%s': %w", name, err)
	}

	r.mu.Lock()
	r.providers[name] = c
	r.mu.Unlock()

	return c, nil
}

// Has checks if a provider or factory is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.providers[name]; ok {
		return true
	}
	_, ok := r.factories[name]
	return ok
}

// List returns all registered provider and factory names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(r.factories)+len(r.providers))
	names := make([]string, 0, len(r.factories)+len(r.providers))
	for name := range r.factories {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for name := range r.providers {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
