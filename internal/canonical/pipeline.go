// Package canonical implements the request-time URL resolution pipeline of
// the portal: a fixed chain of middlewares that normalize, validate, and
// 301-redirect incoming paths to the single canonical /category/slug/ form
// before any page logic runs.
//
// Chain order (Middlewares):
//
//  1. Normalize             — slashes, tracking params, trailing slash
//  2. BlockInvalidCategories — deny-listed category paths → 404
//  3. RedirectPagePaths     — legacy /page* URLs → /
//  4. RewriteLegacyThreeSegment — /main/sub/slug/ → /main/slug/
//  5. MapSubcategory        — /sub/ → /main/ (static table, live fallback)
//  6. ResolveArticle        — /category/slug/ → canonical category
//
// Any stage may short-circuit with a redirect or a terminal 404; otherwise
// the request reaches the page handlers untouched. Search engines must see
// the 301 on first contact, which is why all of this happens here and not
// in page components.
package canonical

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"meridiansport/internal/cache"
	"meridiansport/internal/taxonomy"
)

// ArticleFetcher is the single upstream call the article resolver needs.
// *cms.Client satisfies it.
type ArticleFetcher interface {
	ArticleBySlug(ctx context.Context, category, slug string) (*taxonomy.Article, error)
}

// DefaultMaxHops bounds redirect chains. A request that already carries
// this many hops in X-Redirect-Count passes through instead of redirecting
// again, so contradictory table data cannot loop forever.
const DefaultMaxHops = 3

// redirectCountHeader is the request header carrying the hop count.
const redirectCountHeader = "X-Redirect-Count"

// skipPrefixes are path prefixes the pipeline never touches: the portal's
// own API surface and static assets.
var skipPrefixes = []string{"/api/", "/static/", "/assets/"}

// extensionRE is the file-extension heuristic: a final path segment ending
// in a dot plus alphanumerics is a file, not a page.
var extensionRE = regexp.MustCompile(`(?i)\.[a-z0-9]+$`)

// Pipeline holds the dependencies shared by all stages. Articles and
// Categories may be nil when the backend is not configured; the stages that
// need them then pass through.
type Pipeline struct {
	articles   ArticleFetcher
	categories *cache.Snapshot
	maxHops    int
	notFound   http.HandlerFunc
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMaxHops overrides the redirect-hop bound.
func WithMaxHops(n int) Option {
	return func(p *Pipeline) { p.maxHops = n }
}

// WithNotFound sets the handler used for terminal 404 outcomes, so the
// pipeline renders the same not-found page as the rest of the site.
func WithNotFound(h http.HandlerFunc) Option {
	return func(p *Pipeline) { p.notFound = h }
}

// New creates a Pipeline. articles and categories may be nil.
func New(articles ArticleFetcher, categories *cache.Snapshot, opts ...Option) *Pipeline {
	p := &Pipeline{
		articles:   articles,
		categories: categories,
		maxHops:    DefaultMaxHops,
		notFound:   http.NotFound,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Middlewares returns the pipeline stages in canonical order, ready for
// router.Use.
func (p *Pipeline) Middlewares() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		p.Normalize,
		p.BlockInvalidCategories,
		p.RedirectPagePaths,
		p.RewriteLegacyThreeSegment,
		p.MapSubcategory,
		p.ResolveArticle,
	}
}

// skip reports whether the pipeline must leave this request alone entirely:
// non-GET/HEAD methods, the health probe, API/static prefixes, and file
// requests.
func (p *Pipeline) skip(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return true
	}
	if r.URL.Path == "/health" {
		return true
	}
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return hasExtension(r.URL.Path)
}

// hasExtension applies the file-extension heuristic to a path.
func hasExtension(path string) bool {
	return extensionRE.MatchString(path)
}

// segments splits a path into its non-empty segments.
func segments(path string) []string {
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// redirect emits a 301 to path?query and reports whether it did. It refuses
// a zero-progress redirect (target equal to the URL being served) and any
// redirect past the hop bound; in both cases the caller should pass through.
func (p *Pipeline) redirect(w http.ResponseWriter, r *http.Request, path, rawQuery string) bool {
	target := path
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	if target == r.URL.RequestURI() {
		slog.Debug("redirect target equals source, passing through", "path", target)
		return false
	}

	if hops := redirectHops(r); hops >= p.maxHops {
		slog.Warn("redirect hop bound reached, passing through",
			"path", r.URL.RequestURI(), "target", target, "hops", hops)
		return false
	}

	http.Redirect(w, r, target, http.StatusMovedPermanently)
	return true
}

// redirectHops reads the hop counter from the request. Absent or malformed
// headers count as zero.
func redirectHops(r *http.Request) int {
	v := r.Header.Get(redirectCountHeader)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
