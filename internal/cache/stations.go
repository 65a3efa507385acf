package cache

import (
	"sync"
	"time"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/config"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
)

type StationCache struct {
	stations    []models.Station
	lastUpdated time.Time
	ttl         time.Duration
	clock       Clock
	mu          sync.RWMutex
}

func NewStationCache(cfg *config.CacheConfig, clock Clock) *StationCache {
	if cfg == nil {
		cfg = config.GetCacheConfig()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &StationCache{
		stations:    make([]models.Station, 0),
		lastUpdated: time.Time{}, // Zero time to ensure first fetch
		ttl:         cfg.GetStationListTTL(),
		clock:       clock,
	}
}

// GetStations returns the cached list, or nil when it was never set or has
// expired.
func (c *StationCache) GetStations() []models.Station {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isExpired() {
		return nil
	}
	return c.stations
}

func (c *StationCache) SetStations(stations []models.Station) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stations = stations
	c.lastUpdated = c.clock.Now()
}

func (c *StationCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastUpdated = time.Time{}
}

func (c *StationCache) isExpired() bool {
	return c.lastUpdated.IsZero() || c.clock.Now().Sub(c.lastUpdated) > c.ttl
}
