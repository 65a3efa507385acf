package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock implements a mock time source for testing
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestTTLCacheFreshness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		advance   time.Duration
		wantFresh bool
	}{
		{name: "just stored", advance: 0, wantFresh: true},
		{name: "just before ttl", advance: 4*time.Minute + 59*time.Second, wantFresh: true},
		{name: "exactly ttl", advance: 5 * time.Minute, wantFresh: false},
		{name: "after ttl", advance: 5*time.Minute + time.Second, wantFresh: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			clock := newFakeClock()
			cache, err := NewTTLCache[string](10, 5*time.Minute, clock)
			require.NoError(t, err)

			cache.Add("47.05_8.31", "sunny")
			clock.Advance(tt.advance)

			got, ok := cache.GetFresh("47.05_8.31")
			assert.Equal(t, tt.wantFresh, ok)
			if tt.wantFresh {
				assert.Equal(t, "sunny", got)
			}

			stale, storedAt, ok := cache.GetAny("47.05_8.31")
			require.True(t, ok)
			assert.Equal(t, "sunny", stale)
			assert.Equal(t, clock.Now().Add(-tt.advance), storedAt)
		})
	}
}

func TestTTLCacheMissAndRemove(t *testing.T) {
	t.Parallel()

	cache, err := NewTTLCache[int](10, time.Minute, nil)
	require.NoError(t, err)

	_, ok := cache.GetFresh("missing")
	assert.False(t, ok)
	_, _, ok = cache.GetAny("missing")
	assert.False(t, ok)

	cache.Add("a", 1)
	cache.Add("b", 2)
	assert.Equal(t, 2, cache.Len())

	cache.Remove("a")
	_, _, ok = cache.GetAny("a")
	assert.False(t, ok)

	cache.Purge()
	assert.Equal(t, 0, cache.Len())
}

func TestTTLCacheEviction(t *testing.T) {
	t.Parallel()

	cache, err := NewTTLCache[int](2, time.Minute, newFakeClock())
	require.NoError(t, err)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	_, _, ok := cache.GetAny("a")
	assert.False(t, ok, "oldest entry should be evicted")
	assert.Equal(t, 2, cache.Len())
}

func TestTTLCacheStats(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cache, err := NewTTLCache[int](10, time.Minute, clock)
	require.NoError(t, err)

	cache.Add("a", 1)
	cache.GetFresh("a")
	cache.GetFresh("b")
	clock.Advance(2 * time.Minute)
	cache.GetFresh("a")
	cache.GetAny("a")

	stats := cache.GetCacheStats()
	assert.Equal(t, uint64(1), stats["hits"])
	assert.Equal(t, uint64(2), stats["misses"])
	assert.Equal(t, uint64(1), stats["stale_hits"])
}

func TestTTLCacheInvalidSize(t *testing.T) {
	t.Parallel()

	_, err := NewTTLCache[int](0, time.Minute, nil)
	assert.Error(t, err)
}

func TestTTLCacheConcurrentAccess(t *testing.T) {
	t.Parallel()

	cache, err := NewTTLCache[int](100, time.Minute, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%5)
			cache.Add(key, i)
			cache.GetFresh(key)
			cache.GetAny(key)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, cache.Len())
}
