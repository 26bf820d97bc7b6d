package canonical

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"meridiansport/internal/cms"
	"meridiansport/internal/taxonomy"
)

// ctxKey is the private key type for request-context values.
type ctxKey int

const articleKey ctxKey = iota

// WithArticle stores a resolved article in the context.
func WithArticle(ctx context.Context, a *taxonomy.Article) context.Context {
	return context.WithValue(ctx, articleKey, a)
}

// ArticleFromContext returns the article the resolver already fetched for
// this request, or nil. Page handlers use it to avoid a second upstream call.
func ArticleFromContext(ctx context.Context) *taxonomy.Article {
	a, _ := ctx.Value(articleKey).(*taxonomy.Article)
	return a
}

// resolverSkippedRoutes are two-segment prefixes with their own route
// handlers; their second segment is not an article slug.
var resolverSkippedRoutes = map[string]struct{}{
	"tag":     {},
	"article": {},
}

// ResolveArticle is stage 6, the canonical article check: for a two-segment
// /category/slug/ path it fetches the article and, when the requested
// category is not the article's canonical one, 301s to the canonical URL.
//
// Outcomes follow the pipeline's error taxonomy: a genuine upstream 404 is
// terminal; transient upstream failures and invalid payloads pass through so
// a flaky CMS never blocks rendering; a matching category passes through
// with the article stashed in the request context for the page handler.
func (p *Pipeline) ResolveArticle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.skip(r) {
			next.ServeHTTP(w, r)
			return
		}

		segs := segments(r.URL.Path)
		if len(segs) != 2 {
			next.ServeHTTP(w, r)
			return
		}
		category, slug := segs[0], segs[1]
		if _, ok := resolverSkippedRoutes[strings.ToLower(category)]; ok {
			next.ServeHTTP(w, r)
			return
		}

		if p.articles == nil {
			slog.Warn("article resolver disabled: no backend configured")
			next.ServeHTTP(w, r)
			return
		}

		article, err := p.articles.ArticleBySlug(r.Context(), category, slug)
		switch {
		case errors.Is(err, cms.ErrNotFound):
			p.notFound(w, r)
			return
		case errors.Is(err, cms.ErrNotConfigured):
			next.ServeHTTP(w, r)
			return
		case err != nil:
			slog.Warn("article lookup failed, passing through",
				"category", category, "slug", slug, "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if article.ID == 0 || article.Title == "" || len(article.Categories) == 0 {
			slog.Warn("article payload incomplete, passing through",
				"category", category, "slug", slug, "id", article.ID)
			next.ServeHTTP(w, r)
			return
		}

		canonicalCat := taxonomy.CanonicalCategory(article.Categories)
		if canonicalCat != "" && !strings.EqualFold(canonicalCat, category) {
			target := "/" + canonicalCat + "/" + slug + "/"
			slog.Info("canonical category redirect",
				"path", r.URL.Path, "target", target)
			if p.redirect(w, r, target, r.URL.RawQuery) {
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(WithArticle(r.Context(), article)))
	})
}
