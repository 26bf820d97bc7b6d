package canonical

import (
	"log/slog"
	"net/http"
	"strings"

	"meridiansport/internal/taxonomy"
)

// RewriteLegacyThreeSegment is stage 4: the old site nested articles under
// sub-categories, producing /main-category/sub-category/slug/ URLs. When the
// first segment is a main category and the second is one of ITS recognized
// legacy children, the sub-category segment is dropped and the request
// 301s to /main-category/slug/.
//
// Three-segment paths are not inherently invalid — /tag/x/y/ and unknown
// second segments pass through untouched and may legitimately render or 404
// downstream.
func (p *Pipeline) RewriteLegacyThreeSegment(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		segs := segments(r.URL.Path)
		if len(segs) != 3 {
			next.ServeHTTP(w, r)
			return
		}

		main, sub, slug := segs[0], segs[1], segs[2]
		if taxonomy.IsMainCategory(main) && taxonomy.IsLegacySubcategory(main, sub) {
			target := "/" + strings.ToLower(main) + "/" + slug + "/"
			slog.Info("rewriting legacy three-segment url",
				"path", r.URL.Path, "target", target, "sub", sub)
			if p.redirect(w, r, target, r.URL.RawQuery) {
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
