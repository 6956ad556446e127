package usecase

import (
	"sort"
	"strings"
	"sync"
	"time"

	"contextads/internal/core/port"
)

const (
	// DefaultCacheSize bounds the number of cached queries.
	DefaultCacheSize = 100
	// DefaultCacheTTL bounds staleness of a cached result.
	DefaultCacheTTL = 5 * time.Minute
)

type cacheEntry struct {
	ads      []port.AdResult
	storedAt time.Time
}

// queryCache is a bounded, time-expiring cache in front of the matcher.
// Eviction on overflow removes the single oldest inserted entry (FIFO,
// not LRU) so eviction stays O(1) and predictable. Reads past the TTL
// evict the stale entry and miss. Safe for concurrent use;
// last-writer-wins per key.
type queryCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string // insertion order, oldest first
	maxSize int
	ttl     time.Duration

	now func() time.Time
}

func newQueryCache(maxSize int, ttl time.Duration) *queryCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &queryCache{
		entries: make(map[string]cacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// cacheKey builds a normalized query signature: keywords are trimmed,
// case-folded and sorted so equivalent queries collide on one entry.
func cacheKey(keywords []string, filter port.StatusFilter) string {
	norm := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			norm = append(norm, k)
		}
	}
	sort.Strings(norm)
	return strings.Join(norm, ",") + "|" + string(filter.Normalize())
}

func (c *queryCache) get(key string) ([]port.AdResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		c.remove(key)
		return nil, false
	}
	return entry.ads, true
}

func (c *queryCache) set(key string, ads []port.AdResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		if len(c.entries) >= c.maxSize && len(c.order) > 0 {
			c.remove(c.order[0])
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{ads: ads, storedAt: c.now()}
}

func (c *queryCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
	c.order = c.order[:0]
}

// remove deletes an entry and its position. Caller holds the lock.
func (c *queryCache) remove(key string) {
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *queryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
