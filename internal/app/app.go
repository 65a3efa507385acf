package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/board"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/cache"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/config"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/favorites"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/handler"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/station"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/store"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/transit"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/weather"
	"github.com/lakeshorestudios/nextwave/backend-go/pkg/http/client"
)

const userAgent = "nextwave-backend/1.0"

// App holds the services shared by every binary.
type App struct {
	Config   *config.Config
	Location *time.Location

	Catalog   *station.Catalog
	Stations  *station.Finder
	Transit   *transit.Client
	Weather   *weather.Aggregator
	Boards    *board.Service
	Favorites *favorites.Store

	kv store.Backend
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc := cfg.Location()
	cacheCfg := config.GetCacheConfig()

	catalog := station.NewCatalog(cfg.StationsFile, cache.NewStationCache(cacheCfg, nil))

	transportHTTP := client.New(client.Options{
		BaseURL:   cfg.TransportBaseURL,
		Timeout:   cfg.TransportTimeout,
		UserAgent: userAgent,
	})
	transitClient := transit.NewClient(transportHTTP, transit.Options{
		Limit:    cfg.DepartureLimit,
		Location: loc,
	})

	if cfg.WeatherAPIKey == "" {
		log.Warn().Msg("OPENWEATHER_API_KEY is not set, weather requests will fail")
	}
	weatherHTTP := client.New(client.Options{
		BaseURL:   cfg.WeatherBaseURL,
		Timeout:   cfg.WeatherTimeout,
		UserAgent: userAgent,
	})
	fetcher := weather.NewClient(weatherHTTP, weather.ClientOptions{
		APIKey: cfg.WeatherAPIKey,
		RPS:    cfg.WeatherRPS,
		Burst:  cfg.WeatherBurst,
	})
	aggregator, err := weather.NewAggregator(fetcher, cacheCfg, weather.AggregatorOptions{Location: loc})
	if err != nil {
		return nil, fmt.Errorf("creating weather aggregator: %w", err)
	}

	kv, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.FavoritesBackend, err)
	}
	favs, err := favorites.New(ctx, kv, cfg.FavoritesKey)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("loading favorites: %w", err)
	}

	log.Info().
		Str("timezone", loc.String()).
		Str("favorites_backend", cfg.FavoritesBackend).
		Msg("Services initialized")

	return &App{
		Config:    cfg,
		Location:  loc,
		Catalog:   catalog,
		Stations:  station.NewFinder(catalog),
		Transit:   transitClient,
		Weather:   aggregator,
		Boards:    board.New(transitClient, aggregator, board.Options{Location: loc}),
		Favorites: favs,
		kv:        kv,
	}, nil
}

// Home returns the configured home location, or nil.
func (a *App) Home() *models.Location {
	if a.Config.HomeLatitude == nil || a.Config.HomeLongitude == nil {
		return nil
	}
	return &models.Location{Latitude: *a.Config.HomeLatitude, Longitude: *a.Config.HomeLongitude}
}

func (a *App) StationsHandler() *handler.StationsHandler {
	return handler.NewStationsHandler(a.Stations)
}

func (a *App) DeparturesHandler() *handler.DeparturesHandler {
	return handler.NewDeparturesHandler(a.Stations, a.Boards, a.Location, nil)
}

func (a *App) WeatherHandler() *handler.WeatherHandler {
	return handler.NewWeatherHandler(a.Weather, a.Location)
}

func (a *App) FavoritesHandler() *handler.FavoritesHandler {
	return handler.NewFavoritesHandler(a.Favorites, a.Stations)
}

func (a *App) Close() error {
	return a.kv.Close()
}
