// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Upstream CMS
	BackendURL string
	APIKey     string
	FeedURL    string

	// Public site
	SiteURL  string
	SiteName string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A missing backend URL is not an error:
// the portal starts in a degraded mode where redirect decisions that need
// upstream data are skipped.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		BackendURL: strings.TrimSuffix(os.Getenv("BACKEND_URL"), "/"),
		APIKey:     os.Getenv("API_KEY"),
		FeedURL:    envOrDefault("FEED_URL", "https://meridian.mpanel.app/api/webV3/rss"),

		SiteURL:  strings.TrimSuffix(envOrDefault("SITE_URL", "https://meridiansport.rs"), "/"),
		SiteName: envOrDefault("SITE_NAME", "Meridian Sport"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
	}

	if cfg.Env == "production" && cfg.BackendURL != "" && cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY must be set in production when BACKEND_URL is configured")
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
