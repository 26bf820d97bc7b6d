package middleware

import (
	"net/http"
	"regexp"
	"strings"
)

var (
	fontRE  = regexp.MustCompile(`\.(woff2|woff|ttf|otf)$`)
	imageRE = regexp.MustCompile(`\.(jpg|jpeg|png|gif|svg|webp|avif|ico)$`)
	scriptRE = regexp.MustCompile(`\.(js|css)$`)
)

// CacheControl sets Cache-Control headers by resource type so the CDN and
// browsers cache static assets aggressively while HTML stays uncached.
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		h := w.Header()

		switch {
		case strings.HasPrefix(path, "/static/") || strings.HasPrefix(path, "/assets/"):
			// Fingerprinted build assets never change.
			h.Set("Cache-Control", "public, max-age=31536000, immutable")
		case fontRE.MatchString(path):
			h.Set("Cache-Control", "public, max-age=31536000, immutable")
		case imageRE.MatchString(path):
			// Editorial images rotate; a month is enough.
			h.Set("Cache-Control", "public, max-age=2592000")
		case scriptRE.MatchString(path):
			h.Set("Cache-Control", "public, max-age=86400")
		}

		next.ServeHTTP(w, r)
	})
}
