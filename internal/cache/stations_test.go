package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/config"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestStationCacheGetSet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		stations []models.Station
		wantLen  int
	}{
		{
			name:     "empty cache",
			stations: []models.Station{},
			wantLen:  0,
		},
		{
			name: "multiple stations",
			stations: []models.Station{
				{ID: "8508450", Name: "Luzern Bahnhofquai", Lake: "Vierwaldstättersee"},
				{ID: "8508470", Name: "Weggis", Lake: "Vierwaldstättersee"},
			},
			wantLen: 2,
		},
	}

	for _, tt := range tests {
		tt := tt // capture range variable
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cache := NewStationCache(&config.CacheConfig{StationListTTLHours: 1}, newFakeClock())

			assert.Nil(t, cache.GetStations(), "unset cache is expired")

			cache.SetStations(tt.stations)
			got := cache.GetStations()

			assert.Equal(t, tt.wantLen, len(got))
			assert.Equal(t, tt.stations, got)
		})
	}
}

func TestStationCacheExpiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	cache := NewStationCache(&config.CacheConfig{StationListTTLHours: 1}, clock)
	cache.SetStations([]models.Station{{ID: "1", Name: "Spiez"}})

	clock.Advance(59 * time.Minute)
	assert.Len(t, cache.GetStations(), 1)

	clock.Advance(2 * time.Minute)
	assert.Nil(t, cache.GetStations())
}

func TestStationCacheInvalidate(t *testing.T) {
	t.Parallel()

	cache := NewStationCache(&config.CacheConfig{StationListTTLHours: 24}, nil)
	cache.SetStations([]models.Station{{ID: "1", Name: "Spiez"}})
	cache.Invalidate()

	assert.Nil(t, cache.GetStations())
}

func TestStationCacheConcurrency(t *testing.T) {
	t.Parallel()

	cache := NewStationCache(&config.CacheConfig{StationListTTLHours: 24}, nil)
	stations := []models.Station{{ID: "1", Name: "Spiez"}}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cache.SetStations(stations)
		}()
		go func() {
			defer wg.Done()
			_ = cache.GetStations()
		}()
	}
	wg.Wait()

	assert.Equal(t, stations, cache.GetStations())
}
