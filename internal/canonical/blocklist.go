package canonical

import (
	"log/slog"
	"net/http"
	"strings"

	"meridiansport/internal/taxonomy"
)

// BlockInvalidCategories is stage 2: single-segment paths naming a retired
// category terminate with a 404. Runs after normalization so trailing-slash
// variants cannot dodge the deny list.
func (p *Pipeline) BlockInvalidCategories(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		if segs := segments(r.URL.Path); len(segs) == 1 && taxonomy.IsInvalidCategory(segs[0]) {
			slog.Info("blocked retired category", "path", r.URL.Path)
			p.notFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectPagePaths is stage 3: anything under the legacy /page prefix
// (paginated archive URLs from the old site, heavily probed by bots)
// 301-redirects to the homepage, preserving the query string.
func (p *Pipeline) RedirectPagePaths(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		if strings.HasPrefix(r.URL.Path, "/page") {
			if p.redirect(w, r, "/", r.URL.RawQuery) {
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
