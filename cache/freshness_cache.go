// cache/freshness_cache.go

package cache

import (
	"sync"
	"time"

	"go.uber.org/zap"

	logger "github.com/phishnheat/backend/logging"
	"github.com/phishnheat/backend/model"
)

// Entry is one cached upstream snapshot. Entries are immutable once stored;
// a refresh replaces the whole entry, so readers never observe a partial
// update.
type Entry struct {
	Payload   []model.PhishingIncident
	FetchedAt time.Time
}

// KeyInfo is a debugging snapshot of a single cache entry.
type KeyInfo struct {
	FetchedAt time.Time     `json:"fetched_at"`
	Age       time.Duration `json:"age"`
	Items     int           `json:"items"`
}

// FreshnessCache maps a cache key to the last fetched payload and its
// timestamp. It answers "is this fresh?" and "what do you have?" and knows
// nothing about the upstream. Entries are never evicted: a stale entry stays
// available for fallback until a newer fetch replaces it.
type FreshnessCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	now     func() time.Time
}

func NewFreshnessCache() *FreshnessCache {
	return &FreshnessCache{
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// Get returns the cached entry for key, fresh or not. It never triggers a
// fetch.
func (c *FreshnessCache) Get(key string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ent, ok := c.entries[key]
	if !ok {
		logger.Debug("Cache miss", zap.String("key", key))
		return nil, false
	}
	return ent, true
}

// Put replaces the entry for key atomically.
func (c *FreshnessCache) Put(key string, payload []model.PhishingIncident, fetchedAt time.Time) {
	ent := &Entry{Payload: payload, FetchedAt: fetchedAt}

	c.mu.Lock()
	c.entries[key] = ent
	c.mu.Unlock()

	logger.Debug("Cached payload",
		zap.String("key", key),
		zap.Int("items", len(payload)),
		zap.Time("fetchedAt", fetchedAt))
}

// IsFresh reports whether an entry exists for key and is younger than ttl.
// Freshness is computed on every call, so a different ttl takes effect
// immediately.
func (c *FreshnessCache) IsFresh(key string, ttl time.Duration) bool {
	c.mu.RLock()
	ent, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return false
	}
	return c.now().Sub(ent.FetchedAt) < ttl
}

// Clear removes the entry for key, or every entry when key is empty.
func (c *FreshnessCache) Clear(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if key == "" {
		c.entries = make(map[string]*Entry)
		logger.Info("Cleared entire cache")
		return
	}
	delete(c.entries, key)
	logger.Info("Cleared cache key", zap.String("key", key))
}

// Info returns per-key age and item counts for debugging and monitoring.
func (c *FreshnessCache) Info() map[string]KeyInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	info := make(map[string]KeyInfo, len(c.entries))
	for key, ent := range c.entries {
		info[key] = KeyInfo{
			FetchedAt: ent.FetchedAt,
			Age:       now.Sub(ent.FetchedAt),
			Items:     len(ent.Payload),
		}
	}
	return info
}

// SetNowFunc overrides the clock. Test hook.
func (c *FreshnessCache) SetNowFunc(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
