// feed.go provides a Valkey-backed cache for proxied RSS XML documents.
// Feed requests hit the upstream RSS service at most once per TTL window;
// everything else is served from Valkey with an X-Cache style age.
package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// feedKeyPrefix is the Valkey key prefix for cached feed documents.
	feedKeyPrefix = "feed:"

	// DefaultFeedTTL matches the upstream's 15-minute publication cadence.
	DefaultFeedTTL = 15 * time.Minute
)

// FeedCache stores rendered RSS XML in Valkey. A nil *FeedCache or a
// FeedCache with a nil client is a no-op, so the portal runs without Valkey.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewFeedCache creates a feed cache backed by the given Valkey client,
// which may be nil.
func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if ttl == 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedCache{client: client, ttl: ttl}
}

// Get retrieves a cached feed document together with its age in seconds.
func (fc *FeedCache) Get(ctx context.Context, key string) ([]byte, int, bool) {
	if fc == nil || fc.client == nil {
		return nil, 0, false
	}
	val, err := fc.client.Get(ctx, feedKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, 0, false
	}
	if err != nil {
		slog.Warn("feed cache get error", "key", key, "error", err)
		return nil, 0, false
	}

	age := 0
	if remaining, err := fc.client.TTL(ctx, feedKeyPrefix+key).Result(); err == nil && remaining > 0 {
		age = int((fc.ttl - remaining).Seconds())
	}
	slog.Debug("feed cache hit", "key", key, "age", age)
	return val, age, true
}

// Set stores a feed document for key with the configured TTL.
func (fc *FeedCache) Set(ctx context.Context, key string, xml []byte) {
	if fc == nil || fc.client == nil {
		return
	}
	if err := fc.client.Set(ctx, feedKeyPrefix+key, xml, fc.ttl).Err(); err != nil {
		slog.Warn("feed cache set error", "key", key, "error", err)
	}
}

// IndexFeedKey returns the cache key for page n of the site-wide feed.
func IndexFeedKey(page string) string {
	if page == "" {
		page = "1"
	}
	return "index-page-" + page
}

// CategoryFeedKey returns the cache key for page n of a category feed.
func CategoryFeedKey(categoryID int64, page string) string {
	if page == "" {
		page = "1"
	}
	return "category-" + strconv.FormatInt(categoryID, 10) + "-page-" + page
}
