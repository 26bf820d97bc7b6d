package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCacheControl(t *testing.T) {
	handler := CacheControl(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		path string
		want string
	}{
		{"static asset", "/static/app.js", "public, max-age=31536000, immutable"},
		{"assets dir", "/assets/logo.svg", "public, max-age=31536000, immutable"},
		{"font", "/fonts/inter.woff2", "public, max-age=31536000, immutable"},
		{"image", "/images/stadion.webp", "public, max-age=2592000"},
		{"favicon", "/favicon.ico", "public, max-age=2592000"},
		{"stylesheet", "/main.css", "public, max-age=86400"},
		{"html page", "/fudbal/", ""},
		{"root", "/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if got := rr.Header().Get("Cache-Control"); got != tt.want {
				t.Errorf("path %s: got %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
