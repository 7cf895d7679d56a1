package core

import (
	"context"
	"sync"
)

// RecordSink receives converted rows. Fields are slash paths, one per cell.
// With dryRun set the sink must validate and count without keeping anything.
type RecordSink interface {
	Load(ctx context.Context, model string, fields []string, rows [][]string, dryRun bool) (int, error)
}

// Batch is one committed Load call.
type Batch struct {
	Model  string
	Fields []string
	Rows   [][]string
}

// MemorySink keeps every committed batch in memory.
type MemorySink struct {
	mu      sync.Mutex
	batches []Batch
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (m *MemorySink) Load(ctx context.Context, model string, fields []string, rows [][]string, dryRun bool) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if dryRun {
		return len(rows), nil
	}

	copied := make([][]string, len(rows))
	for i, r := range rows {
		copied[i] = append([]string(nil), r...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, Batch{
		Model:  model,
		Fields: append([]string(nil), fields...),
		Rows:   copied,
	})
	return len(rows), nil
}

// Batches returns the committed batches.
func (m *MemorySink) Batches() []Batch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Batch(nil), m.batches...)
}
