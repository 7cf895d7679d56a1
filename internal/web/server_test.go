package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/importguess/internal/config"
	"github.com/JonMunkholm/importguess/internal/core"
	_ "github.com/JonMunkholm/importguess/internal/core/models"
	"github.com/JonMunkholm/importguess/internal/guess"
)

const contactsCSV = "Name,Email,Credit Limit,Birthday\n" +
	"Acme,info@acme.test,\"1,500.25\",2020-01-31\n" +
	"Globex,hello@globex.test,300,2021-12-01\n"

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{RequestTimeout: 5 * time.Second},
		Import:   config.ImportConfig{PreviewCount: 10, MaxFileSize: 1 << 20},
		Security: config.SecurityConfig{AllowedOrigins: []string{"*"}},
	}
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *core.MemorySink) {
	t.Helper()
	sink := core.NewMemorySink()
	svc := core.NewService(cfg.Import, core.Dependencies{
		Sink:       sink,
		Currencies: guess.NewSymbolSet("$", "€"),
	})
	s := NewServer(svc, cfg)
	t.Cleanup(func() { s.Shutdown(t.Context()) })
	return s, sink
}

func do(s *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func uploadRequest(t *testing.T, model, fileName, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import/"+model, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func upload(t *testing.T, s *Server) string {
	t.Helper()
	rec := do(s, uploadRequest(t, "res.partner", "contacts.csv", contactsCSV))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotEmpty(t, resp["session_id"])
	return resp["session_id"]
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	rec := do(s, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"status":"ok"`)
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestListModels(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var models []core.ModelInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&models))
	require.Contains(t, models, core.ModelInfo{Key: "res.partner", Label: "Contact"})
}

func TestModelFields(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/models/res.partner/fields", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var fields []core.Field
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&fields))
	require.Equal(t, "id", fields[0].ID)

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/models/no.such/fields", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "IMP003", decodeError(t, rec).Code)
}

func TestImportFlow(t *testing.T) {
	s, sink := newTestServer(t, testConfig())
	id := upload(t, s)

	rec := do(s, jsonRequest(http.MethodPost, "/api/import/"+id+"/preview", `{}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var preview core.PreviewResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&preview))
	require.Empty(t, preview.Error)
	require.Equal(t, []string{"Name", "Email", "Credit Limit", "Birthday"}, preview.Headers)
	require.Equal(t, []string{"credit_limit"}, preview.Matches[2])
	require.Equal(t, []guess.FieldType{guess.TypeFloat, guess.TypeMonetary}, preview.HeaderTypes[2])
	require.Len(t, preview.Preview, 2)

	body := `{"fields":["name","email","credit_limit","birthday"],"columns":["Name","Email","Credit Limit","Birthday"]}`
	rec = do(s, jsonRequest(http.MethodPost, "/api/import/"+id+"/execute", body))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result core.ImportResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.False(t, result.HasErrors(), "%+v", result.Messages)
	require.Equal(t, 2, result.Rows)

	batches := sink.Batches()
	require.Len(t, batches, 1)
	require.Equal(t, []string{"Acme", "info@acme.test", "1500.25", "2020-01-31"}, batches[0].Rows[0])

	rec = do(s, httptest.NewRequest(http.MethodGet, "/api/audit?model=res.partner", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var audit AuditLogResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&audit))
	require.Len(t, audit.Entries, 3)
	require.Equal(t, core.ActionImport, audit.Entries[0].Action)
}

func TestExecute_ReportsCellErrors(t *testing.T) {
	s, sink := newTestServer(t, testConfig())
	rec := do(s, uploadRequest(t, "res.partner", "bad.csv", "Name,Credit Limit\nAcme,12\nGlobex,lots\n"))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	body := `{"fields":["name","credit_limit"],"columns":["Name","Credit Limit"]}`
	rec = do(s, jsonRequest(http.MethodPost, "/api/import/"+created["session_id"]+"/execute", body))
	require.Equal(t, http.StatusOK, rec.Code)

	var result core.ImportResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.True(t, result.HasErrors())
	require.Zero(t, result.Rows)
	require.Equal(t, "VAL002", result.Messages[0].Code)
	require.Equal(t, 3, result.Messages[0].Line)
	require.Empty(t, sink.Batches())
}

func TestPreview_HTMX(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	id := upload(t, s)

	req := jsonRequest(http.MethodPost, "/api/import/"+id+"/preview", "")
	req.Header.Set("HX-Request", "true")
	rec := do(s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), `<table class="preview-table">`)
}

func TestUploadErrors(t *testing.T) {
	s, _ := newTestServer(t, testConfig())

	tests := []struct {
		name   string
		req    *http.Request
		status int
		code   string
	}{
		{
			name:   "unknown model",
			req:    uploadRequest(t, "no.such", "a.csv", "a\n1\n"),
			status: http.StatusNotFound,
			code:   "IMP003",
		},
		{
			name:   "unsupported format",
			req:    uploadRequest(t, "res.partner", "a.pdf", "%PDF-1.4"),
			status: http.StatusUnsupportedMediaType,
			code:   "FILE002",
		},
		{
			name:   "empty file",
			req:    uploadRequest(t, "res.partner", "a.csv", ""),
			status: http.StatusBadRequest,
			code:   "FILE005",
		},
		{
			name:   "no file part",
			req:    jsonRequest(http.MethodPost, "/api/import/res.partner", "{}"),
			status: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(s, tt.req)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.code != "" {
				require.Equal(t, tt.code, decodeError(t, rec).Code)
			}
		})
	}
}

func TestUpload_TooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.Import.MaxFileSize = 16
	s, _ := newTestServer(t, cfg)

	rec := do(s, uploadRequest(t, "res.partner", "a.csv", contactsCSV))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Equal(t, "FILE001", decodeError(t, rec).Code)
}

func TestSessionLifecycle(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	id := upload(t, s)

	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/import/"+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var sess SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sess))
	require.Equal(t, "contacts.csv", sess.FileName)
	require.Equal(t, len(contactsCSV), sess.Size)

	rec = do(s, httptest.NewRequest(http.MethodDelete, "/api/import/"+id, nil))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(s, jsonRequest(http.MethodPost, "/api/import/"+id+"/preview", "{}"))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "IMP001", decodeError(t, rec).Code)
}

func TestPreview_BadBody(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	id := upload(t, s)

	rec := do(s, jsonRequest(http.MethodPost, "/api/import/"+id+"/preview", `{"bogus":1}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrors_HTMXFragment(t *testing.T) {
	s, _ := newTestServer(t, testConfig())
	req := jsonRequest(http.MethodPost, "/api/import/missing/execute", `{"fields":["name"]}`)
	req.Header.Set("HX-Request", "true")
	rec := do(s, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), `class="alert alert-error"`)
	require.Contains(t, rec.Body.String(), "IMP001")
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2, UploadLimit: 1}
	s, _ := newTestServer(t, cfg)

	for i := 0; i < 2; i++ {
		rec := do(s, httptest.NewRequest(http.MethodGet, "/api/models", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := do(s, httptest.NewRequest(http.MethodGet, "/api/models", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "RATE001", decodeError(t, rec).Code)
	require.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrSessionNotFound, http.StatusNotFound},
		{core.ErrTooManyImports, http.StatusServiceUnavailable},
		{errRateLimited, http.StatusTooManyRequests},
		{errNoFile, http.StatusBadRequest},
		{&http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{core.ErrNoFieldsMapped, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRenderHTML_LogsRenderError(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	failing := templ.ComponentFunc(func(context.Context, io.Writer) error {
		return errors.New("writer closed")
	})
	rec := httptest.NewRecorder()
	renderHTML(rec, httptest.NewRequest(http.MethodGet, "/api/import/x/preview", nil), http.StatusOK, failing)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, logs.String(), "render failed")
	require.Contains(t, logs.String(), "writer closed")
	require.Contains(t, logs.String(), "/api/import/x/preview")
}
