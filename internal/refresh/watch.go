package refresh

import (
	"context"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/station"
)

type FavoriteLister interface {
	List() []models.Station
}

type CatalogLoader interface {
	LoadStations(ctx context.Context) []models.Station
}

// Watch lists the favorites followed by the station nearest to home, when a
// home location is set and that station is not already a favorite.
type Watch struct {
	Favorites FavoriteLister
	Catalog   CatalogLoader
	Home      *models.Location
}

func (w *Watch) Stations(ctx context.Context) []models.Station {
	var out []models.Station
	seen := map[string]bool{}
	if w.Favorites != nil {
		for _, st := range w.Favorites.List() {
			seen[st.ID] = true
			out = append(out, st)
		}
	}

	if w.Home == nil || w.Catalog == nil {
		return out
	}

	var located []models.Station
	for _, st := range w.Catalog.LoadStations(ctx) {
		if st.HasCoordinates() {
			located = append(located, st)
		}
	}
	nearest, _ := station.FindNearest(located, w.Home)
	if nearest != nil && !seen[nearest.ID] {
		out = append(out, *nearest)
	}
	return out
}
