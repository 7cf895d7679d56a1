package store

import (
	"context"
	"fmt"
	"strings"
)

// MappingStore persists column to field mappings in base_import_mapping.
type MappingStore struct {
	db DBTX
}

func NewMappingStore(db DBTX) *MappingStore {
	return &MappingStore{db: db}
}

// Lookup returns the saved mappings of model keyed by lowercased column name.
func (m *MappingStore) Lookup(ctx context.Context, model string) (map[string]string, error) {
	rows, err := m.db.Query(ctx,
		`SELECT column_name, field_name FROM base_import_mapping WHERE res_model = $1`,
		model,
	)
	if err != nil {
		return nil, fmt.Errorf("query mappings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var column, field string
		if err := rows.Scan(&column, &field); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		out[strings.ToLower(column)] = field
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read mappings: %w", err)
	}
	return out, nil
}

// Save records that column of model was imported into field, replacing any
// earlier choice for the same column.
func (m *MappingStore) Save(ctx context.Context, model, column, field string) error {
	_, err := m.db.Exec(ctx,
		`INSERT INTO base_import_mapping (res_model, column_name, field_name)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (res_model, column_name) DO UPDATE SET field_name = EXCLUDED.field_name`,
		model, strings.ToLower(column), field,
	)
	if err != nil {
		return fmt.Errorf("save mapping: %w", err)
	}
	return nil
}
