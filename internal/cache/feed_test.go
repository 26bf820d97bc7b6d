package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "feed:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, "")
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestFeedCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	fc := NewFeedCache(client, 1*time.Minute)

	ctx := context.Background()

	// Miss.
	if _, _, ok := fc.Get(ctx, IndexFeedKey("1")); ok {
		t.Error("expected cache miss")
	}

	// Set then hit.
	xml := []byte(`<?xml version="1.0"?><rss version="2.0"></rss>`)
	fc.Set(ctx, IndexFeedKey("1"), xml)

	data, age, ok := fc.Get(ctx, IndexFeedKey("1"))
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(xml) {
		t.Errorf("data mismatch: got %q", data)
	}
	if age < 0 || age > 60 {
		t.Errorf("implausible age %d", age)
	}
}

func TestNewFeedCacheDefaultTTL(t *testing.T) {
	fc := NewFeedCache(nil, 0)
	if fc.ttl != DefaultFeedTTL {
		t.Errorf("expected DefaultFeedTTL (%v), got %v", DefaultFeedTTL, fc.ttl)
	}
}
