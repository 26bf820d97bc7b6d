// snapshot.go provides an in-process TTL cache holding a single snapshot of
// the upstream category list. The category tree changes rarely but gates
// redirect decisions on the hot request path, so it is cached read-mostly:
// concurrent readers always see a complete snapshot (never a torn one), and
// concurrent refreshes are last-write-wins.
package cache

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"meridiansport/internal/taxonomy"
)

// DefaultSnapshotTTL is how long a fetched category list stays fresh.
const DefaultSnapshotTTL = 15 * time.Minute

// FetchFunc loads the category list from upstream.
type FetchFunc func(ctx context.Context) ([]taxonomy.Category, error)

// Snapshot caches one category list with a TTL. The clock is injectable so
// tests control time.
type Snapshot struct {
	mu        sync.RWMutex
	fetch     FetchFunc
	ttl       time.Duration
	now       func() time.Time
	cats      []taxonomy.Category
	fetchedAt time.Time
}

// NewSnapshot creates a category snapshot cache around fetch.
func NewSnapshot(fetch FetchFunc, ttl time.Duration) *Snapshot {
	if ttl == 0 {
		ttl = DefaultSnapshotTTL
	}
	return &Snapshot{fetch: fetch, ttl: ttl, now: time.Now}
}

// SetClock overrides the snapshot's clock. Test use only.
func (s *Snapshot) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Get returns the cached category list, refreshing it from upstream when
// the snapshot is stale or empty. On refresh failure a stale snapshot is
// still returned rather than an error: redirect decisions degrade to the
// last known tree instead of failing the request.
func (s *Snapshot) Get(ctx context.Context) ([]taxonomy.Category, error) {
	s.mu.RLock()
	cats, fresh := s.cats, s.fresh()
	s.mu.RUnlock()

	if fresh && cats != nil {
		return cats, nil
	}

	fetched, err := s.fetch(ctx)
	if err != nil {
		if cats != nil {
			slog.Warn("category snapshot refresh failed, serving stale", "error", err)
			return cats, nil
		}
		return nil, err
	}

	s.mu.Lock()
	s.cats = fetched
	s.fetchedAt = s.now()
	s.mu.Unlock()

	slog.Debug("category snapshot refreshed", "count", len(fetched))
	return fetched, nil
}

// fresh reports whether the current snapshot is within its TTL.
// Caller holds at least a read lock.
func (s *Snapshot) fresh() bool {
	return !s.fetchedAt.IsZero() && s.now().Sub(s.fetchedAt) < s.ttl
}

// FindBySlug returns the cached category with the given slug.
func (s *Snapshot) FindBySlug(ctx context.Context, slug string) (*taxonomy.Category, error) {
	cats, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if strings.EqualFold(cats[i].Slug, slug) {
			return &cats[i], nil
		}
	}
	return nil, nil
}

// FindByID returns the cached category with the given ID.
func (s *Snapshot) FindByID(ctx context.Context, id int64) (*taxonomy.Category, error) {
	cats, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if cats[i].ID == id {
			return &cats[i], nil
		}
	}
	return nil, nil
}

