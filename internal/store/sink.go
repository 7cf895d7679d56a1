package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

// PostgresSink copies converted rows into import_record, one JSONB object
// per row keyed by field path. A batch is written in a single transaction;
// dry runs copy and then roll back so the database still checks the rows.
type PostgresSink struct {
	db TxBeginner
}

func NewPostgresSink(db TxBeginner) *PostgresSink {
	return &PostgresSink{db: db}
}

func (p *PostgresSink) Load(ctx context.Context, model string, fields []string, rows [][]string, dryRun bool) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	start := time.Now()

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	n, err := tx.CopyFrom(ctx,
		pgx.Identifier{"import_record"},
		[]string{"res_model", "data"},
		pgx.CopyFromRows(recordRows(model, fields, rows)),
	)
	if err != nil {
		return 0, fmt.Errorf("copy rows: %w", err)
	}

	if dryRun {
		return int(n), nil
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}

	slog.Debug("rows copied",
		"model", model,
		"rows", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return int(n), nil
}

// recordRows pairs each row with its field paths. Empty cells are left
// out of the object.
func recordRows(model string, fields []string, rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		data := make(map[string]string, len(fields))
		for j, field := range fields {
			if j < len(row) && row[j] != "" {
				data[field] = row[j]
			}
		}
		out[i] = []any{model, data}
	}
	return out
}
