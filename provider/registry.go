package provider

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds named, already configured gateway instances
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register adds an instance under name, replacing any previous one
func (r *Registry[T]) Register(name string, item T) error {
	if name == "" {
		return fmt.Errorf("component name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[name] = item
	return nil
}

// Get retrieves an instance by name
func (r *Registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	if !exists {
		var zero T
		return zero, fmt.Errorf("component '%s' is not registered", name)
	}

	return item, nil
}

// Names returns the registered names in sorted order
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Len returns the number of registered instances
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
