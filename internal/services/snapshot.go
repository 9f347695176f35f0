package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nnamdiokafor/foliobot/internal/models"
)

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Snapshot is one consistent read of the profile and config, as the chat
// pipeline sees them.
type Snapshot struct {
	Profile models.Profile
	Config  models.BotConfig
}

// SnapshotCache serves the chat pipeline a short-lived cached read of the
// profile and config so a burst of chat traffic doesn't hammer the store.
// Concurrent refreshes collapse into one load via singleflight.
type SnapshotCache struct {
	settings *SettingsService
	ttl      time.Duration
	clock    Clock

	mu       sync.RWMutex
	cached   *Snapshot
	cachedAt time.Time

	group singleflight.Group
}

func NewSnapshotCache(settings *SettingsService, ttl time.Duration) *SnapshotCache {
	return NewSnapshotCacheWithClock(settings, ttl, realClock{})
}

// NewSnapshotCacheWithClock creates a cache with a custom clock (for testing).
func NewSnapshotCacheWithClock(settings *SettingsService, ttl time.Duration, clock Clock) *SnapshotCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &SnapshotCache{settings: settings, ttl: ttl, clock: clock}
}

// Get returns the cached snapshot, refreshing it from the store when the TTL
// has elapsed.
func (c *SnapshotCache) Get(ctx context.Context) (Snapshot, error) {
	c.mu.RLock()
	if c.cached != nil && c.clock.Now().Sub(c.cachedAt) < c.ttl {
		snap := *c.cached
		c.mu.RUnlock()
		return snap, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("snapshot", func() (interface{}, error) {
		profile, err := c.settings.LoadProfile(ctx)
		if err != nil {
			return nil, err
		}
		cfg, err := c.settings.LoadConfig(ctx)
		if err != nil {
			return nil, err
		}
		snap := Snapshot{Profile: profile, Config: cfg}
		c.mu.Lock()
		c.cached = &snap
		c.cachedAt = c.clock.Now()
		c.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return v.(Snapshot), nil
}

// Invalidate drops the cached snapshot so the next read hits the store.
// Called after every admin write.
func (c *SnapshotCache) Invalidate() {
	c.mu.Lock()
	c.cached = nil
	c.mu.Unlock()
}
