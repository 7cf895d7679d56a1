package store

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
)

// schema is applied in order by Migrate. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS res_currency (
		name       TEXT PRIMARY KEY,
		symbol     TEXT NOT NULL,
		active     BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE INDEX IF NOT EXISTS res_currency_symbol_idx ON res_currency (symbol)`,
	`CREATE TABLE IF NOT EXISTS base_import_mapping (
		id          BIGSERIAL PRIMARY KEY,
		res_model   TEXT NOT NULL,
		column_name TEXT NOT NULL,
		field_name  TEXT NOT NULL,
		UNIQUE (res_model, column_name)
	)`,
	`CREATE TABLE IF NOT EXISTS import_audit_log (
		id          UUID PRIMARY KEY,
		action      TEXT NOT NULL,
		res_model   TEXT NOT NULL,
		session_id  TEXT NOT NULL,
		file_name   TEXT,
		rows        INTEGER NOT NULL DEFAULT 0,
		errors      INTEGER NOT NULL DEFAULT 0,
		ip_address  TEXT,
		user_agent  TEXT,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS import_audit_log_created_idx ON import_audit_log (created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS import_record (
		id         BIGSERIAL PRIMARY KEY,
		res_model  TEXT NOT NULL,
		data       JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

// Migrate creates the tables used by the stores.
func Migrate(ctx context.Context, db DBTX) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	slog.Info("database schema up to date", "statements", len(schema))
	return nil
}

// SeedCurrencies inserts currencies (code to symbol) that are not present
// yet and returns how many were added. Existing rows keep their symbol and
// active flag.
func SeedCurrencies(ctx context.Context, db DBTX, currencies map[string]string) (int, error) {
	codes := make([]string, 0, len(currencies))
	for code := range currencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	added := 0
	for _, code := range codes {
		tag, err := db.Exec(ctx,
			`INSERT INTO res_currency (name, symbol, active) VALUES ($1, $2, TRUE)
			 ON CONFLICT (name) DO NOTHING`,
			code, currencies[code],
		)
		if err != nil {
			return added, fmt.Errorf("seed currency %s: %w", code, err)
		}
		added += int(tag.RowsAffected())
	}
	return added, nil
}
