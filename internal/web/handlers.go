package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleHealth reports liveness and the number of running imports.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"active_imports": s.service.ActiveImports(),
	})
}

// handleListModels returns every model files can be imported into.
func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ListModels())
}

// handleModelFields returns the importable field tree of a model.
func (s *Server) handleModelFields(w http.ResponseWriter, r *http.Request) {
	fields, err := s.service.ModelFields(chi.URLParam(r, "model"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}
