// Package feed proxies the upstream RSS service. The portal does not build
// feeds itself: it fetches the upstream XML, caches it in Valkey for the
// upstream's 15-minute publication cadence, and serves it verbatim with
// X-Cache headers. Upstream failures degrade to a self-describing RSS error
// document instead of an error status, so feed readers keep polling.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"meridiansport/internal/cache"
)

// Fetcher retrieves a raw RSS document from the upstream feed service.
type Fetcher interface {
	FeedXML(ctx context.Context, categoryID int64, page string) ([]byte, error)
}

// Handler serves the site-wide and per-category RSS routes.
type Handler struct {
	fetcher    Fetcher
	categories *cache.Snapshot
	cache      *cache.FeedCache
	siteURL    string
}

// NewHandler creates the feed handler. categories must be backed by the flat
// category list so slugs resolve to upstream IDs. feedCache may be nil.
func NewHandler(fetcher Fetcher, categories *cache.Snapshot, feedCache *cache.FeedCache, siteURL string) *Handler {
	return &Handler{
		fetcher:    fetcher,
		categories: categories,
		cache:      feedCache,
		siteURL:    strings.TrimSuffix(siteURL, "/"),
	}
}

// Index serves GET /feed.xml, the site-wide feed.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)
	h.serve(w, r, cache.IndexFeedKey(page), 0, page, "")
}

// Category serves GET /{category}/feed.xml. The najnovije-vesti feed is the
// site-wide feed under another name and redirects there.
func (h *Handler) Category(w http.ResponseWriter, r *http.Request) {
	slug := strings.ToLower(chi.URLParam(r, "category"))

	if slug == "najnovije-vesti" {
		target := "/feed.xml"
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusMovedPermanently)
		return
	}

	cat, err := h.categories.FindBySlug(r.Context(), slug)
	if err != nil {
		slog.Warn("feed category lookup failed", "slug", slug, "error", err)
		h.serveError(w, slug)
		return
	}
	if cat == nil {
		http.NotFound(w, r)
		return
	}

	page := pageParam(r)
	h.serve(w, r, cache.CategoryFeedKey(cat.ID, page), cat.ID, page, slug)
}

// serve answers a feed request from the Valkey cache, falling back to the
// upstream on a miss. slug is used only for the error document.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, key string, categoryID int64, page, slug string) {
	if data, age, ok := h.cache.Get(r.Context(), key); ok {
		writeFeedHeaders(w, "HIT")
		w.Header().Set("Age", fmt.Sprintf("%d", age))
		w.Write(data)
		return
	}

	data, err := h.fetcher.FeedXML(r.Context(), categoryID, page)
	if err != nil {
		slog.Error("feed upstream fetch failed", "key", key, "error", err)
		h.serveError(w, slug)
		return
	}

	h.cache.Set(r.Context(), key, data)
	writeFeedHeaders(w, "MISS")
	w.Write(data)
}

// serveError writes the RSS error document the upstream contract promises:
// a 200 with a single explanatory item, so readers retry on their next poll.
func (h *Handler) serveError(w http.ResponseWriter, slug string) {
	title := "Meridian Sport RSS Feed"
	link := h.siteURL
	if slug != "" {
		title = "Meridian Sport " + capitalize(slug) + " RSS Feed"
		link = h.siteURL + "/" + slug + "/"
	}

	w.Header().Set("Content-Type", "application/xml; charset=UTF-8")
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Error - %s</title>
    <link>%s</link>
    <description>Error loading RSS feed</description>
    <item>
      <title>Error</title>
      <description>Unable to load RSS feed at this time. Please try again later.</description>
    </item>
  </channel>
</rss>`, title, link)
}

func writeFeedHeaders(w http.ResponseWriter, xCache string) {
	h := w.Header()
	h.Set("Content-Type", "application/xml; charset=UTF-8")
	h.Set("Cache-Control", "public, max-age=900, s-maxage=900")
	h.Set("X-Cache", xCache)
}

func pageParam(r *http.Request) string {
	page := r.URL.Query().Get("page")
	if page == "" {
		return "1"
	}
	return page
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
