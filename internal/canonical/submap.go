package canonical

import (
	"log/slog"
	"net/http"
	"strings"

	"meridiansport/internal/taxonomy"
)

// MapSubcategory is stage 5: single-segment category pages for deprecated
// sub-categories 301 to their parent main-category page. The static alias
// table answers without I/O; slugs it does not know fall back to one lookup
// in the cached live category tree (single-hop parent resolution — the
// canonical scheme has no deeper nesting). Reserved top-level pages are
// never remapped, and any fallback failure passes through so the page can
// render or 404 itself.
func (p *Pipeline) MapSubcategory(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		segs := segments(r.URL.Path)
		if len(segs) != 1 {
			next.ServeHTTP(w, r)
			return
		}

		slug := segs[0]
		if taxonomy.IsReservedPage(slug) {
			next.ServeHTTP(w, r)
			return
		}

		// Static alias table first: no upstream call on the common path.
		if parent, ok := taxonomy.SubcategoryParents[strings.ToLower(slug)]; ok {
			slog.Info("mapping subcategory to parent", "slug", slug, "parent", parent)
			if p.redirect(w, r, "/"+parent+"/", r.URL.RawQuery) {
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		// Dynamic fallback against the live category tree.
		if parent := p.lookupParent(r, slug); parent != "" {
			slog.Info("dynamic subcategory redirect", "slug", slug, "parent", parent)
			if p.redirect(w, r, "/"+parent+"/", r.URL.RawQuery) {
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// lookupParent resolves slug's parent category slug via the cached category
// tree. Returns "" when the slug is unknown, top-level, or the lookup fails.
func (p *Pipeline) lookupParent(r *http.Request, slug string) string {
	if p.categories == nil {
		return ""
	}
	ctx := r.Context()

	cat, err := p.categories.FindBySlug(ctx, slug)
	if err != nil {
		slog.Warn("category tree lookup failed", "slug", slug, "error", err)
		return ""
	}
	if cat == nil || cat.ParentID == nil {
		return ""
	}

	parent, err := p.categories.FindByID(ctx, *cat.ParentID)
	if err != nil || parent == nil || parent.Slug == "" {
		return ""
	}
	return strings.ToLower(parent.Slug)
}
