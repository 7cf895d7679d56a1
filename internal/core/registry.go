package core

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	registry   = make(map[string]ModelDefinition)
	registryMu sync.RWMutex
)

// Register adds a model definition. It panics on an empty or duplicate key
// and on a field name used twice within the model, since both would make
// header matching ambiguous. Models call it from init.
func Register(def ModelDefinition) {
	if def.Key == "" {
		panic("model key must not be empty")
	}
	seen := make(map[string]bool, len(def.Fields))
	for _, f := range def.Fields {
		if seen[f.Name] {
			panic(fmt.Sprintf("model %s: field %q declared twice", def.Key, f.Name))
		}
		seen[f.Name] = true
	}

	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("model already registered: %s", def.Key))
	}
	registry[def.Key] = def
}

// Get returns a model definition by key.
func Get(key string) (ModelDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns every registered model sorted by key.
func All() []ModelDefinition {
	registryMu.RLock()
	defs := make([]ModelDefinition, 0, len(registry))
	for _, def := range registry {
		defs = append(defs, def)
	}
	registryMu.RUnlock()

	slices.SortFunc(defs, func(a, b ModelDefinition) int {
		return strings.Compare(a.Key, b.Key)
	})
	return defs
}

// ModelCount returns the number of registered models.
func ModelCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}
