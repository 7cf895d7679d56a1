package web

import (
	"net/http"

	"github.com/JonMunkholm/importguess/internal/core"
)

// AuditLogResponse is one page of audit entries.
type AuditLogResponse struct {
	Entries  []core.AuditEntry `json:"entries"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// handleAuditLog returns audit entries, newest first, filtered by the
// model, action and session query parameters.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	page := parseIntParam(r, "page", 1)
	pageSize := parseIntParam(r, "limit", core.DefaultHistoryLimit)
	if pageSize > 500 {
		pageSize = 500
	}

	q := r.URL.Query()
	entries, err := s.service.GetAuditLog(r.Context(), core.AuditLogFilter{
		Model:     q.Get("model"),
		Action:    core.AuditAction(q.Get("action")),
		SessionID: q.Get("session"),
		Limit:     pageSize,
		Offset:    (page - 1) * pageSize,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if entries == nil {
		entries = []core.AuditEntry{}
	}

	writeJSON(w, http.StatusOK, AuditLogResponse{
		Entries:  entries,
		Page:     page,
		PageSize: pageSize,
	})
}
