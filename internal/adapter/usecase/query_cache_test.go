package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contextads/internal/core/port"
)

func TestCacheKeyNormalization(t *testing.T) {
	// Equivalent queries must collide on one entry regardless of
	// casing, spacing and keyword order.
	a := cacheKey([]string{" Cars ", "BOATS"}, "")
	b := cacheKey([]string{"boats", "cars"}, port.FilterActive)
	assert.Equal(t, a, b)

	c := cacheKey([]string{"cars"}, port.FilterAll)
	assert.NotEqual(t, a, c)
}

func TestCacheHitWithinTTL(t *testing.T) {
	now := time.Now()
	cache := newQueryCache(10, 5*time.Minute)
	cache.now = func() time.Time { return now }

	ads := []port.AdResult{{ID: "a"}}
	cache.set("k", ads)

	now = now.Add(4 * time.Minute)
	got, ok := cache.get("k")
	require.True(t, ok)
	assert.Equal(t, ads, got)
}

func TestCacheMissAfterTTL(t *testing.T) {
	now := time.Now()
	cache := newQueryCache(10, 5*time.Minute)
	cache.now = func() time.Time { return now }

	cache.set("k", []port.AdResult{{ID: "a"}})

	now = now.Add(5*time.Minute + time.Second)
	_, ok := cache.get("k")
	assert.False(t, ok)
	// The stale entry is evicted, not retained.
	assert.Equal(t, 0, cache.len())
}

func TestCacheFIFOEviction(t *testing.T) {
	cache := newQueryCache(2, time.Hour)

	cache.set("first", nil)
	cache.set("second", nil)
	cache.set("third", nil)

	_, ok := cache.get("first")
	assert.False(t, ok, "oldest inserted entry should be evicted")
	_, ok = cache.get("second")
	assert.True(t, ok)
	_, ok = cache.get("third")
	assert.True(t, ok)
}

func TestCacheOverwriteKeepsInsertionOrder(t *testing.T) {
	cache := newQueryCache(2, time.Hour)

	cache.set("first", nil)
	cache.set("second", nil)
	// Rewriting an existing key is last-writer-wins, not a re-insertion:
	// "first" stays the eviction candidate.
	cache.set("first", []port.AdResult{{ID: "x"}})
	cache.set("third", nil)

	_, ok := cache.get("first")
	assert.False(t, ok)
	_, ok = cache.get("second")
	assert.True(t, ok)
}

func TestCacheClear(t *testing.T) {
	cache := newQueryCache(10, time.Hour)
	cache.set("k", nil)
	cache.clear()

	_, ok := cache.get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.len())
}
