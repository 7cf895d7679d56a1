package core

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionUpload        AuditAction = "upload"
	ActionPreview       AuditAction = "preview"
	ActionImport        AuditAction = "import"
	ActionDryRun        AuditAction = "dry_run"
	ActionSessionDelete AuditAction = "session_delete"
)

// DefaultHistoryLimit caps audit queries that do not set a limit.
const DefaultHistoryLimit = 50

// AuditEntry records one action taken on an import session.
type AuditEntry struct {
	ID        string      `json:"id"`
	Action    AuditAction `json:"action"`
	Model     string      `json:"model"`
	SessionID string      `json:"sessionId"`
	FileName  string      `json:"fileName,omitempty"`
	Rows      int         `json:"rows,omitempty"`
	Errors    int         `json:"errors,omitempty"`
	IPAddress string      `json:"ipAddress,omitempty"`
	UserAgent string      `json:"userAgent,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// AuditLogFilter contains filtering options for querying audit logs.
type AuditLogFilter struct {
	Model     string
	Action    AuditAction
	SessionID string
	Limit     int
	Offset    int
}

// Matches reports whether e passes the filter, ignoring paging.
func (f AuditLogFilter) Matches(e AuditEntry) bool {
	return (f.Model == "" || f.Model == e.Model) &&
		(f.Action == "" || f.Action == e.Action) &&
		(f.SessionID == "" || f.SessionID == e.SessionID)
}

// AuditStore persists audit entries.
type AuditStore interface {
	Record(ctx context.Context, entry AuditEntry) error
	List(ctx context.Context, filter AuditLogFilter) ([]AuditEntry, error)
}

// MemoryAudit keeps the most recent entries in memory.
type MemoryAudit struct {
	mu      sync.Mutex
	max     int
	entries []AuditEntry
}

// NewMemoryAudit keeps at most max entries; older ones are dropped.
func NewMemoryAudit(max int) *MemoryAudit {
	if max <= 0 {
		max = 1000
	}
	return &MemoryAudit{max: max}
}

func (m *MemoryAudit) Record(_ context.Context, entry AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	if over := len(m.entries) - m.max; over > 0 {
		m.entries = append([]AuditEntry(nil), m.entries[over:]...)
	}
	return nil
}

// List returns matching entries, newest first.
func (m *MemoryAudit) List(_ context.Context, filter AuditLogFilter) ([]AuditEntry, error) {
	m.mu.Lock()
	var out []AuditEntry
	for _, e := range m.entries {
		if filter.Matches(e) {
			out = append(out, e)
		}
	}
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Offset >= len(out) {
		return []AuditEntry{}, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// logAudit records an entry, filling in id, time and the client details
// carried by ctx. Audit failures never fail the action being audited.
func (s *Service) logAudit(ctx context.Context, entry AuditEntry) {
	entry.ID = uuid.New().String()
	entry.CreatedAt = s.now()
	client := ClientFromContext(ctx)
	entry.IPAddress = client.IP
	entry.UserAgent = client.UserAgent

	if err := s.audit.Record(ctx, entry); err != nil {
		slog.Warn("audit record failed",
			"action", entry.Action,
			"session_id", entry.SessionID,
			"error", err,
		)
	}
}

// GetAuditLog retrieves audit log entries with optional filtering.
func (s *Service) GetAuditLog(ctx context.Context, filter AuditLogFilter) ([]AuditEntry, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultHistoryLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.audit.List(ctx, filter)
}
