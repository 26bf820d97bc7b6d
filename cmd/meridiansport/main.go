// Package main is the entry point for the Meridian Sport portal server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meridiansport/internal/cache"
	"meridiansport/internal/canonical"
	"meridiansport/internal/cms"
	"meridiansport/internal/config"
	"meridiansport/internal/feed"
	"meridiansport/internal/handlers"
	"meridiansport/internal/middleware"
	"meridiansport/internal/router"
)

func main() {
	// Structured logger — text output, debug level in development.
	level := slog.LevelInfo
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.IsDev() {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend_configured", cfg.BackendURL != "",
	)

	// Connect to Valkey for the shared feed cache. The portal runs without
	// it; feeds are then fetched from upstream on every request.
	var feedCache *cache.FeedCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, feed caching disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		feedCache = cache.NewFeedCache(valkeyClient, cache.DefaultFeedTTL)
	}

	// Upstream CMS client.
	client := cms.New(cfg.BackendURL, cfg.FeedURL, cfg.APIKey)
	if !client.Configured() {
		slog.Warn("no backend configured, upstream-gated redirects disabled")
	}

	// Two category snapshots: the tree endpoint drives redirect decisions,
	// the flat list resolves feed slugs to upstream IDs.
	treeSnapshot := cache.NewSnapshot(client.Categories, cache.DefaultSnapshotTTL)
	flatSnapshot := cache.NewSnapshot(client.AllCategories, cache.DefaultSnapshotTTL)

	// Handler groups and the canonical URL pipeline.
	public := handlers.NewPublic(client, cfg.SiteURL)
	pipeline := canonical.New(client, treeSnapshot, canonical.WithNotFound(public.NotFound))
	feeds := feed.NewHandler(client, flatSnapshot, feedCache, cfg.SiteURL)

	// Per-IP rate limiting for the public surface.
	limiter := middleware.NewRateLimiter(300, time.Minute)
	defer limiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(cfg, pipeline, feeds, public, limiter)

	// Create the HTTP server with sensible timeouts. WriteTimeout covers the
	// worst case of an article fetch with one retry.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
