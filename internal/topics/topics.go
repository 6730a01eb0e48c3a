// Package topics provides a central registry of the named pub/sub topics the
// application routes messages over. Packages define their topics at init time
// with Define; the registry exists so topic names stay unique and discoverable
// (the CLI lists them).
package topics

import (
	"fmt"
	"sort"
	"sync"
)

// Topic is a registered bus topic.
type Topic struct {
	name        string
	module      string
	description string
}

// Name returns the unique string identifier for this topic.
func (t Topic) Name() string { return t.name }

// Module returns the module that owns this topic.
func (t Topic) Module() string { return t.module }

// Description returns human-readable documentation.
func (t Topic) Description() string { return t.description }

func (t Topic) String() string { return t.name }

// Registry holds topic definitions keyed by name.
type Registry struct {
	mu     sync.RWMutex
	topics map[string]Topic
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{topics: make(map[string]Topic)}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry that Define registers into.
func Default() *Registry { return defaultRegistry }

// Register adds a topic, failing on duplicate names.
func (r *Registry) Register(t Topic) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.name == "" {
		return fmt.Errorf("topic name must not be empty")
	}
	if _, exists := r.topics[t.name]; exists {
		return fmt.Errorf("topic %q already registered", t.name)
	}
	r.topics[t.name] = t
	return nil
}

// Get retrieves a topic by name.
func (r *Registry) Get(name string) (Topic, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.topics[name]
	return t, ok
}

// List returns all registered topics sorted by name.
func (r *Registry) List() []Topic {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Topic, 0, len(r.topics))
	for _, t := range r.topics {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Define creates a topic and registers it with the default registry. Topics
// are defined in package-level var blocks, so a collision is a configuration
// error that should stop startup.
func Define(module, name, description string) Topic {
	t := Topic{name: name, module: module, description: description}
	if err := defaultRegistry.Register(t); err != nil {
		panic("topics: " + err.Error())
	}
	return t
}
