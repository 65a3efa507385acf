package station

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/cache"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
)

//go:embed data/stations.json
var bundledStations []byte

// Catalog loads the boat stations of all lakes from the bundled dataset, or
// from a file when a path is configured.
type Catalog struct {
	path     string
	memCache *cache.StationCache
	mu       sync.Mutex
}

func NewCatalog(path string, memCache *cache.StationCache) *Catalog {
	if memCache == nil {
		memCache = cache.NewStationCache(nil, nil)
	}
	return &Catalog{
		path:     path,
		memCache: memCache,
	}
}

// LoadStations returns every station of every lake. A dataset that cannot be
// read or decoded yields an empty list.
func (c *Catalog) LoadStations(ctx context.Context) []models.Station {
	if stations := c.memCache.GetStations(); stations != nil {
		log.Debug().Msg("Memory cache HIT for station list")
		return stations
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if stations := c.memCache.GetStations(); stations != nil {
		return stations
	}

	data, err := c.read()
	if err != nil {
		log.Error().Err(err).Str("path", c.path).Msg("Failed to read station dataset")
		return []models.Station{}
	}

	stations, err := Parse(data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to decode station dataset")
		return []models.Station{}
	}

	log.Debug().Int("stations", len(stations)).Msg("Loaded station dataset")
	c.memCache.SetStations(stations)
	return stations
}

func (c *Catalog) read() ([]byte, error) {
	if c.path == "" {
		return bundledStations, nil
	}
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.path, err)
	}
	return data, nil
}

// Parse flattens a lake dataset into stations.
func Parse(data []byte) ([]models.Station, error) {
	var ds dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}

	stations := make([]models.Station, 0)
	for _, l := range ds.Lakes {
		for i, entry := range l.Stations {
			stations = append(stations, normalize(l.Name, i, entry))
		}
	}
	return stations, nil
}

func normalize(lakeName string, index int, entry stationEntry) models.Station {
	s := models.Station{
		ID:          entry.UICRef,
		Name:        entry.Name,
		Lake:        lakeName,
		WaveRating:  WaveRating(lakeName, entry.Name),
		Description: LakeDescription(lakeName),
	}
	if s.ID == "" {
		s.ID = generatedID(lakeName, index, entry.Name)
	}

	if entry.Kind == entryBare {
		return s
	}

	s.Latitude = entry.Latitude
	s.Longitude = entry.Longitude
	if entry.Name != "" {
		s.City = City(entry.Name)
		s.Type = StationType(entry.Name)
	}
	return s
}

func generatedID(lakeName string, index int, name string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("nextwave:"+lakeName+"/"+strconv.Itoa(index)+"/"+name)).String()
}
