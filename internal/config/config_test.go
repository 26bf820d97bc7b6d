package config

import (
	"testing"
)

// clearEnv blanks every variable Load reads. envOrDefault treats an empty
// value as unset, so the defaults apply.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_HOST", "APP_PORT", "APP_ENV",
		"BACKEND_URL", "API_KEY", "FEED_URL",
		"SITE_URL", "SITE_NAME",
		"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q", cfg.Host)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q", cfg.Env)
	}
	if cfg.BackendURL != "" {
		t.Errorf("BackendURL = %q, want empty", cfg.BackendURL)
	}
	if cfg.FeedURL != "https://meridian.mpanel.app/api/webV3/rss" {
		t.Errorf("FeedURL = %q", cfg.FeedURL)
	}
	if cfg.SiteURL != "https://meridiansport.rs" {
		t.Errorf("SiteURL = %q", cfg.SiteURL)
	}
	if cfg.SiteName != "Meridian Sport" {
		t.Errorf("SiteName = %q", cfg.SiteName)
	}
	if cfg.ValkeyHost != "localhost" || cfg.ValkeyPort != "6379" {
		t.Errorf("Valkey = %s:%s", cfg.ValkeyHost, cfg.ValkeyPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "3000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("BACKEND_URL", "https://cms.example.com/api/")
	t.Setenv("API_KEY", "secret-key")
	t.Setenv("SITE_URL", "https://staging.meridiansport.rs/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.BackendURL != "https://cms.example.com/api" {
		t.Errorf("BackendURL = %q, trailing slash should be stripped", cfg.BackendURL)
	}
	if cfg.SiteURL != "https://staging.meridiansport.rs" {
		t.Errorf("SiteURL = %q, trailing slash should be stripped", cfg.SiteURL)
	}
	if cfg.APIKey != "secret-key" {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
}

func TestLoadProductionRequiresAPIKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("BACKEND_URL", "https://cms.example.com/api")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing API_KEY in production")
	}
}

func TestLoadProductionWithoutBackendIsAllowed(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "" {
		t.Errorf("BackendURL = %q", cfg.BackendURL)
	}
}

func TestAddr(t *testing.T) {
	cfg := &Config{Host: "127.0.0.1", Port: "9000"}
	if got := cfg.Addr(); got != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", got)
	}
}

func TestIsDev(t *testing.T) {
	if !(&Config{Env: "development"}).IsDev() {
		t.Error("development should be dev")
	}
	if (&Config{Env: "production"}).IsDev() {
		t.Error("production should not be dev")
	}
}
