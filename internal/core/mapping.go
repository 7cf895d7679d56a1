package core

import (
	"context"
	"strings"
	"sync"
)

// MappingStore remembers which field a column header was imported into, per
// model. Column names are compared case-insensitively; field names are
// slash-separated paths such as "country_id/id".
type MappingStore interface {
	Lookup(ctx context.Context, model string) (map[string]string, error)
	Save(ctx context.Context, model, column, field string) error
}

// MemoryMappings is a MappingStore held in process memory.
type MemoryMappings struct {
	mu     sync.RWMutex
	models map[string]map[string]string
}

func NewMemoryMappings() *MemoryMappings {
	return &MemoryMappings{models: make(map[string]map[string]string)}
}

func (m *MemoryMappings) Lookup(_ context.Context, model string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]string, len(m.models[model]))
	for k, v := range m.models[model] {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryMappings) Save(_ context.Context, model, column, field string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.models[model] == nil {
		m.models[model] = make(map[string]string)
	}
	m.models[model][strings.ToLower(column)] = field
	return nil
}
