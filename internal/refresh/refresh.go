package refresh

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/board"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/cache"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/publish"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/weather"
)

type NextWaver interface {
	NextWave(ctx context.Context, st models.Station) *board.NextWave
}

type WeatherRefresher interface {
	ClearCache()
	GetWeatherAndForecast(ctx context.Context, lat, lon float64) (weather.Combined, error)
}

// StationLister returns the stations to keep fresh.
type StationLister interface {
	Stations(ctx context.Context) []models.Station
}

type DepartureSnapshot struct {
	*board.NextWave
	PublishedAt time.Time `json:"publishedAt"`
}

type WeatherSnapshot struct {
	StationID   string              `json:"stationId"`
	Current     *models.WeatherInfo `json:"current"`
	Forecast    *models.WeatherInfo `json:"forecast,omitempty"`
	Stale       bool                `json:"stale"`
	PublishedAt time.Time           `json:"publishedAt"`
}

type Options struct {
	DepartureInterval time.Duration
	WeatherInterval   time.Duration
	Clock             cache.Clock
}

// Refresher periodically rebuilds the next departure and the weather of the
// watched stations and publishes the results.
type Refresher struct {
	boards            NextWaver
	weather           WeatherRefresher
	publisher         publish.Publisher
	stations          StationLister
	departureInterval time.Duration
	weatherInterval   time.Duration
	clock             cache.Clock
}

func New(boards NextWaver, w WeatherRefresher, publisher publish.Publisher, stations StationLister, opts Options) *Refresher {
	if opts.DepartureInterval <= 0 {
		opts.DepartureInterval = time.Minute
	}
	if opts.WeatherInterval <= 0 {
		opts.WeatherInterval = 5 * time.Minute
	}
	if opts.Clock == nil {
		opts.Clock = cache.SystemClock{}
	}
	if publisher == nil {
		publisher = publish.Nop{}
	}
	return &Refresher{
		boards:            boards,
		weather:           w,
		publisher:         publisher,
		stations:          stations,
		departureInterval: opts.DepartureInterval,
		weatherInterval:   opts.WeatherInterval,
		clock:             opts.Clock,
	}
}

// Run refreshes immediately and then on every interval until ctx is done.
func (r *Refresher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return every(ctx, r.departureInterval, r.RefreshDepartures)
	})
	g.Go(func() error {
		return every(ctx, r.weatherInterval, r.RefreshWeather)
	})
	return g.Wait()
}

func (r *Refresher) RefreshDepartures(ctx context.Context) {
	stations := r.stations.Stations(ctx)
	for _, st := range stations {
		if ctx.Err() != nil {
			return
		}
		snapshot := DepartureSnapshot{
			NextWave:    r.boards.NextWave(ctx, st),
			PublishedAt: r.clock.Now(),
		}
		if err := r.publisher.Publish(ctx, publish.DepartureTopic(st.ID), snapshot); err != nil {
			log.Error().Err(err).Str("station_id", st.ID).Msg("Failed to publish departure snapshot")
		}
	}
	log.Debug().Int("stations", len(stations)).Msg("Refreshed departures")
}

// RefreshWeather drops cached weather first so every station is fetched
// anew.
func (r *Refresher) RefreshWeather(ctx context.Context) {
	r.weather.ClearCache()

	stations := r.stations.Stations(ctx)
	for _, st := range stations {
		if ctx.Err() != nil {
			return
		}
		if !st.HasCoordinates() {
			continue
		}
		combined, err := r.weather.GetWeatherAndForecast(ctx, st.Latitude, st.Longitude)
		if err != nil {
			log.Error().Err(err).Str("station_id", st.ID).Msg("Failed to refresh weather")
			continue
		}

		snapshot := WeatherSnapshot{
			StationID:   st.ID,
			Current:     combined.Current.Weather,
			Stale:       combined.Current.Source == weather.SourceStale,
			PublishedAt: r.clock.Now(),
		}
		if combined.Forecast != nil {
			snapshot.Forecast = combined.Forecast.Weather
		}
		if err := r.publisher.Publish(ctx, publish.WeatherTopic(st.ID), snapshot); err != nil {
			log.Error().Err(err).Str("station_id", st.ID).Msg("Failed to publish weather snapshot")
		}
	}
	log.Debug().Int("stations", len(stations)).Msg("Refreshed weather")
}

func every(ctx context.Context, interval time.Duration, fn func(context.Context)) error {
	fn(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			fn(ctx)
		}
	}
}
