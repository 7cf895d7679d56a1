package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// ResetTimeout bounds a Reset when the caller's context has no deadline.
const ResetTimeout = 30 * time.Second

// resetTables are cleared by Reset, in order. res_currency is kept.
var resetTables = []string{
	"import_record",
	"base_import_mapping",
	"import_audit_log",
}

// Reset empties the imported rows, the remembered column mappings and the
// audit log. It stops at the first table that fails.
func Reset(ctx context.Context, db DBTX) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, ResetTimeout)
		defer cancel()
	}

	for _, table := range resetTables {
		tag, err := db.Exec(ctx, "DELETE FROM "+table)
		if err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
		slog.Info("table reset", "table", table, "rows", tag.RowsAffected())
	}
	return nil
}
