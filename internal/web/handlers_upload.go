package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/importguess/internal/core"
	"github.com/JonMunkholm/importguess/internal/guess"
	"github.com/JonMunkholm/importguess/internal/web/templates"
)

// multipartOverhead is allowed on top of the file size for form fields
// and part headers.
const multipartOverhead = 1 << 20

// SessionResponse describes a stored upload without its content.
type SessionResponse struct {
	ID          string          `json:"id"`
	Model       string          `json:"model"`
	FileName    string          `json:"file_name"`
	ContentType string          `json:"content_type"`
	Size        int             `json:"size"`
	Columns     []guess.Options `json:"columns,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExecuteRequest is the body of an execute call. Fields holds one field
// path per file column ("" skips it); Columns the matching headers.
type ExecuteRequest struct {
	Fields  []string `json:"fields"`
	Columns []string `json:"columns"`
	DryRun  bool     `json:"dry_run"`
}

// handleUpload stores a multipart file upload as a new import session.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	model := chi.URLParam(r, "model")

	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			s.respondError(w, r, fmt.Errorf("%w: limit is %d bytes", core.ErrFileTooLarge, maxSize))
			return
		}
		s.respondError(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, errNoFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	sessionID, err := s.service.CreateSession(r.Context(), model, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sessionID})
}

// handleGetSession describes a stored upload.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.service.Session(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{
		ID:          sess.ID,
		Model:       sess.Model,
		FileName:    sess.FileName,
		ContentType: sess.ContentType,
		Size:        len(sess.Data),
		Columns:     sess.Columns,
		CreatedAt:   sess.CreatedAt,
	})
}

// handleDeleteSession discards an upload.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePreview matches headers and guesses column types. HTMX requests
// get the preview table fragment instead of JSON.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var opts core.PreviewOptions
	if err := decodeJSON(w, r, &opts); err != nil {
		s.respondError(w, r, err)
		return
	}

	resp, err := s.service.ParsePreview(r.Context(), chi.URLParam(r, "sessionID"), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		renderHTML(w, r, http.StatusOK, templates.Preview(resp))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleExecute imports the session's file, or validates it on a dry run.
// Problems found in the file are part of a 200 response.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.service.Execute(r.Context(), chi.URLParam(r, "sessionID"), req.Fields, req.Columns, req.DryRun)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		renderHTML(w, r, http.StatusOK, templates.ImportResult(result))
		return
	}
	writeJSON(w, http.StatusOK, result)
}
