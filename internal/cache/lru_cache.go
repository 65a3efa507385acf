package cache

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// LRUCacheEntry wraps the cached data with the time it was stored
type LRUCacheEntry[V any] struct {
	Data     V
	StoredAt time.Time
}

// TTLCache is a bounded LRU whose entries are fresh for ttl after they are
// stored. Expired entries are kept until evicted so callers can still fall
// back to them.
type TTLCache[V any] struct {
	lru    *lru.Cache[string, *LRUCacheEntry[V]]
	ttl    time.Duration
	clock  Clock
	mu     sync.Mutex
	hits   uint64
	misses uint64
	stale  uint64
}

func NewTTLCache[V any](size int, ttl time.Duration, clock Clock) (*TTLCache[V], error) {
	if clock == nil {
		clock = SystemClock{}
	}

	lruCache, err := lru.New[string, *LRUCacheEntry[V]](size)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &TTLCache[V]{
		lru:   lruCache,
		ttl:   ttl,
		clock: clock,
	}, nil
}

// GetFresh returns the value for key if it was stored less than ttl ago.
func (c *TTLCache[V]) GetFresh(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Get(key)
	if ok && c.clock.Now().Sub(entry.StoredAt) < c.ttl {
		c.hits++
		return entry.Data, true
	}

	c.misses++
	var zero V
	return zero, false
}

// GetAny returns the value for key regardless of its age.
func (c *TTLCache[V]) GetAny(key string) (V, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.lru.Get(key)
	if !ok {
		var zero V
		return zero, time.Time{}, false
	}
	if c.clock.Now().Sub(entry.StoredAt) >= c.ttl {
		c.stale++
	}
	return entry.Data, entry.StoredAt, true
}

func (c *TTLCache[V]) Add(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(key, &LRUCacheEntry[V]{
		Data:     value,
		StoredAt: c.clock.Now(),
	})
}

func (c *TTLCache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Remove(key)
}

// Purge removes all entries
func (c *TTLCache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Purge()
}

func (c *TTLCache[V]) Len() int {
	return c.lru.Len()
}

func (c *TTLCache[V]) TTL() time.Duration {
	return c.ttl
}

// GetCacheStats returns statistics about cache hits and misses
func (c *TTLCache[V]) GetCacheStats() map[string]uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]uint64{
		"hits":       c.hits,
		"misses":     c.misses,
		"stale_hits": c.stale,
	}
}
