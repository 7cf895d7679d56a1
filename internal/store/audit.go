package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/importguess/internal/core"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// AuditStore keeps audit entries in import_audit_log.
type AuditStore struct {
	db DBTX
}

func NewAuditStore(db DBTX) *AuditStore {
	return &AuditStore{db: db}
}

// Record inserts one entry.
func (a *AuditStore) Record(ctx context.Context, e core.AuditEntry) error {
	_, err := a.db.Exec(ctx,
		`INSERT INTO import_audit_log
			(id, action, res_model, session_id, file_name, rows, errors, ip_address, user_agent, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, string(e.Action), e.Model, e.SessionID,
		nullText(e.FileName), e.Rows, e.Errors,
		nullText(e.IPAddress), nullText(e.UserAgent), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// List returns matching entries, newest first.
func (a *AuditStore) List(ctx context.Context, filter core.AuditLogFilter) ([]core.AuditEntry, error) {
	where, args := auditWhere(filter)

	query := `SELECT id::text, action, res_model, session_id, file_name, rows, errors,
		ip_address, user_agent, created_at
		FROM import_audit_log` + where + " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := a.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]core.AuditEntry, 0)
	for rows.Next() {
		entry, err := scanAuditRow(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// auditWhere builds the WHERE clause of filter with numbered placeholders.
func auditWhere(filter core.AuditLogFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.Model != "" {
		add("res_model", filter.Model)
	}
	if filter.Action != "" {
		add("action", string(filter.Action))
	}
	if filter.SessionID != "" {
		add("session_id", filter.SessionID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanAuditRow(rows pgx.Rows) (core.AuditEntry, error) {
	var (
		e         core.AuditEntry
		action    string
		fileName  pgtype.Text
		ipAddress pgtype.Text
		userAgent pgtype.Text
		createdAt pgtype.Timestamptz
	)
	err := rows.Scan(
		&e.ID, &action, &e.Model, &e.SessionID, &fileName,
		&e.Rows, &e.Errors, &ipAddress, &userAgent, &createdAt,
	)
	if err != nil {
		return core.AuditEntry{}, fmt.Errorf("scan audit entry: %w", err)
	}
	e.Action = core.AuditAction(action)
	e.FileName = fileName.String
	e.IPAddress = ipAddress.String
	e.UserAgent = userAgent.String
	e.CreatedAt = createdAt.Time
	return e, nil
}

func nullText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
