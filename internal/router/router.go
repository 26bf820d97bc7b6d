// Package router wires the middleware chains and routes of the portal
// server. Ambient middleware runs first, then the canonical URL resolution
// pipeline, so every page handler only ever sees canonical URLs.
package router

import (
	"github.com/go-chi/chi/v5"

	"meridiansport/internal/canonical"
	"meridiansport/internal/config"
	"meridiansport/internal/feed"
	"meridiansport/internal/handlers"
	"meridiansport/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and routes wired up. limiter may be nil to disable rate limiting.
func New(cfg *config.Config, pipeline *canonical.Pipeline, feeds *feed.Handler, public *handlers.Public, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CacheControl)
	r.Use(middleware.BlockMalformed(!cfg.IsDev()))
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	// Canonical URL resolution, in fixed stage order.
	for _, stage := range pipeline.Middlewares() {
		r.Use(stage)
	}

	// Health check — the pipeline skips this path.
	r.Get("/health", public.Health)

	// RSS feeds. The extension keeps these out of the pipeline.
	r.Get("/feed.xml", feeds.Index)
	r.Get("/{category}/feed.xml", feeds.Category)

	// Pages. All URLs are canonical by the time they match here.
	r.Get("/", public.Homepage)
	r.Get("/{category}/", public.CategoryPage)
	r.Get("/{category}/{slug}/", public.ArticlePage)

	r.NotFound(public.NotFound)

	return r
}
