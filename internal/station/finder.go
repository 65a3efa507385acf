package station

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
)

var ErrStationNotFound = errors.New("station not found")

const defaultNearestLimit = 5

// Finder answers station lookups from the catalog.
type Finder struct {
	catalog *Catalog
}

var _ models.StationFinder = (*Finder)(nil)

func NewFinder(catalog *Catalog) *Finder {
	return &Finder{catalog: catalog}
}

func (f *Finder) AllStations(ctx context.Context) []models.Station {
	return f.catalog.LoadStations(ctx)
}

func (f *Finder) FindStation(ctx context.Context, stationID string) (*models.Station, error) {
	for _, s := range f.catalog.LoadStations(ctx) {
		if s.ID == stationID {
			s := s
			return &s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrStationNotFound, stationID)
}

// FindNearestStations returns up to limit stations with known coordinates,
// closest first.
func (f *Finder) FindNearestStations(ctx context.Context, lat, lon float64, limit int) ([]models.NearbyStation, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid latitude: %f", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid longitude: %f", lon)
	}

	var nearby []models.NearbyStation
	for _, s := range f.catalog.LoadStations(ctx) {
		if !s.HasCoordinates() {
			continue
		}
		nearby = append(nearby, models.NearbyStation{
			Station:    s,
			DistanceKm: Distance(lat, lon, s.Latitude, s.Longitude),
		})
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	if limit <= 0 {
		limit = defaultNearestLimit
	}
	if limit > len(nearby) {
		limit = len(nearby)
	}

	result := nearby[:limit]
	for i := range result {
		result[i].DistanceKm = RoundKm(result[i].DistanceKm)
	}
	return result, nil
}

// StationsForLake returns the stations of one lake in dataset order.
func (f *Finder) StationsForLake(ctx context.Context, lake string) []models.Station {
	var out []models.Station
	for _, s := range f.catalog.LoadStations(ctx) {
		if s.Lake == lake {
			out = append(out, s)
		}
	}
	return out
}
