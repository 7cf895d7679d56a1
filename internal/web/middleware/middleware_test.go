package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/importguess/internal/config"
)

func remoteAddrHandler(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = r.RemoteAddr
	})
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		headers map[string]string
		want    string
	}{
		{
			name:    "no trusted proxies ignores headers",
			remote:  "203.0.113.9:5000",
			headers: map[string]string{"X-Real-IP": "1.2.3.4"},
			want:    "203.0.113.9:5000",
		},
		{
			name:    "trusted proxy X-Real-IP",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.1.2.3:5000",
			headers: map[string]string{"X-Real-IP": "1.2.3.4"},
			want:    "1.2.3.4",
		},
		{
			name:    "trusted proxy first forwarded entry",
			trusted: []string{"127.0.0.1"},
			remote:  "127.0.0.1:5000",
			headers: map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.1"},
			want:    "198.51.100.7",
		},
		{
			name:    "untrusted source keeps address",
			trusted: []string{"10.0.0.0/8"},
			remote:  "192.0.2.1:5000",
			headers: map[string]string{"X-Real-IP": "1.2.3.4"},
			want:    "192.0.2.1:5000",
		},
		{
			name:    "invalid header ignored",
			trusted: []string{"10.0.0.0/8"},
			remote:  "10.0.0.2:5000",
			headers: map[string]string{"X-Real-IP": "not-an-ip"},
			want:    "10.0.0.2:5000",
		},
		{
			name:    "invalid trusted entry skipped",
			trusted: []string{"garbage", "10.0.0.0/8"},
			remote:  "10.0.0.2:5000",
			headers: map[string]string{"X-Real-IP": "1.2.3.4"},
			want:    "1.2.3.4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(remoteAddrHandler(&got))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("RemoteAddr = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAPIKeyAuth(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })
	required := config.SecurityConfig{RequireAPIKey: true, APIKeys: []string{"k1", "k2"}}

	tests := []struct {
		name   string
		cfg    config.SecurityConfig
		method string
		header string
		value  string
		want   int
	}{
		{"disabled", config.SecurityConfig{}, http.MethodGet, "", "", http.StatusTeapot},
		{"missing", required, http.MethodGet, "", "", http.StatusUnauthorized},
		{"invalid", required, http.MethodGet, "X-API-Key", "nope", http.StatusForbidden},
		{"valid second key", required, http.MethodPost, "X-API-Key", "k2", http.StatusTeapot},
		{"bearer token", required, http.MethodGet, "Authorization", "Bearer k1", http.StatusTeapot},
		{"bearer scheme is case-insensitive", required, http.MethodGet, "Authorization", "bearer k2", http.StatusTeapot},
		{"invalid bearer token", required, http.MethodGet, "Authorization", "Bearer nope", http.StatusForbidden},
		{"basic auth is not a key", required, http.MethodGet, "Authorization", "Basic azE6", http.StatusUnauthorized},
		{"preflight", required, http.MethodOptions, "", "", http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			h := APIKeyAuth(&cfg)(ok)

			req := httptest.NewRequest(tt.method, "/api/models", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestLogger_CapturesStatusAndSize(t *testing.T) {
	var inner *responseWriter
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = w.(*responseWriter)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("missing"))
		w.WriteHeader(http.StatusOK) // ignored
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if inner.status != http.StatusNotFound || inner.bytes != len("missing") {
		t.Errorf("captured status=%d bytes=%d", inner.status, inner.bytes)
	}
}
