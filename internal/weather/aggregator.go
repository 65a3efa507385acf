package weather

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/cache"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/config"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
)

// Source tells where a weather result came from.
type Source string

const (
	SourceFresh Source = "fresh"
	SourceCache Source = "cache"
	// SourceStale is an expired cache entry served because the upstream
	// fetch failed. FetchErr holds that failure.
	SourceStale Source = "stale"
)

var errEmptyForecast = errors.New("forecast contains no entries")

// sharedFetchTimeout bounds an upstream fetch that is shared between callers
// and therefore runs without any single caller's cancellation.
const sharedFetchTimeout = 30 * time.Second

type Result struct {
	Weather  *models.WeatherInfo
	Source   Source
	FetchErr error
}

// Combined pairs current weather with tomorrow's forecast. Forecast is nil
// when only the forecast could not be resolved.
type Combined struct {
	Current  Result
	Forecast *Result
}

type AggregatorOptions struct {
	Clock    cache.Clock
	Location *time.Location
}

// Aggregator serves current weather and forecasts per coordinate from two
// independent TTL caches and tracks the pressure trend of each location.
type Aggregator struct {
	fetcher      Fetcher
	current      *cache.TTLCache[*models.WeatherInfo]
	forecast     *cache.TTLCache[*models.WeatherInfo]
	series       *cache.TTLCache[[]models.ForecastItem]
	pressure     *PressureHistory
	stampMu      sync.Mutex
	stamps       *lru.Cache[string, time.Time]
	group        singleflight.Group
	singleflight bool
	clock        cache.Clock
	location     *time.Location
}

func NewAggregator(fetcher Fetcher, cfg *config.CacheConfig, opts AggregatorOptions) (*Aggregator, error) {
	if opts.Clock == nil {
		opts.Clock = cache.SystemClock{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	current, err := cache.NewTTLCache[*models.WeatherInfo](cfg.WeatherLRUSize, cfg.GetWeatherTTL(), opts.Clock)
	if err != nil {
		return nil, fmt.Errorf("creating current weather cache: %w", err)
	}
	forecast, err := cache.NewTTLCache[*models.WeatherInfo](cfg.ForecastLRUSize, cfg.GetForecastTTL(), opts.Clock)
	if err != nil {
		return nil, fmt.Errorf("creating forecast cache: %w", err)
	}

	// Raw 5 day series per location, shared by tomorrow and specific-time
	// lookups so a board of many departures costs one upstream call.
	seriesCache, err := cache.NewTTLCache[[]models.ForecastItem](cfg.WeatherLRUSize, cfg.GetForecastTTL(), opts.Clock)
	if err != nil {
		return nil, fmt.Errorf("creating forecast series cache: %w", err)
	}

	// Outlives evictions so a re-fetched key never reuses an older stamp.
	stamps, err := lru.New[string, time.Time](cfg.WeatherLRUSize + cfg.ForecastLRUSize)
	if err != nil {
		return nil, fmt.Errorf("creating stamp cache: %w", err)
	}

	return &Aggregator{
		fetcher:      fetcher,
		stamps:       stamps,
		current:      current,
		forecast:     forecast,
		series:       seriesCache,
		pressure:     NewPressureHistory(cfg.GetPressureWindow(), cfg.WeatherLRUSize),
		singleflight: cfg.EnableSingleflight,
		clock:        opts.Clock,
		location:     opts.Location,
	}, nil
}

// GetWeatherForLocation returns current weather, cached for the current
// weather TTL. A failed fetch falls back to an expired entry when there is one.
func (a *Aggregator) GetWeatherForLocation(ctx context.Context, lat, lon float64) (Result, error) {
	key := locationKey(lat, lon)
	if info, ok := a.current.GetFresh(key); ok {
		return Result{Weather: info, Source: SourceCache}, nil
	}

	v, err := a.do(ctx, "current:"+key, func(ctx context.Context) (interface{}, error) {
		resp, err := a.fetcher.GetCurrentWeather(ctx, lat, lon)
		if err != nil {
			return nil, err
		}
		info := models.WeatherInfoFromCurrent(resp)
		info.PressureTrend = a.pressure.Record(key, resp.Main.Pressure, a.clock.Now())
		info.LastUpdated = a.stamp(key)
		a.current.Add(key, info)
		return info, nil
	})
	if err != nil {
		return a.staleOrFail(a.current, key, fmt.Errorf("getting weather for %s: %w", key, err))
	}

	log.Debug().Str("cache_key", key).Msg("Fetched current weather")
	return Result{Weather: v.(*models.WeatherInfo), Source: SourceFresh}, nil
}

// GetForecastForLocation returns tomorrow's forecast: the entry closest to
// noon tomorrow, with morning and afternoon temperatures and the strongest
// wind of the day.
func (a *Aggregator) GetForecastForLocation(ctx context.Context, lat, lon float64) (Result, error) {
	key := locationKey(lat, lon) + "_forecast"
	if info, ok := a.forecast.GetFresh(key); ok {
		return Result{Weather: info, Source: SourceCache}, nil
	}

	series, err := a.forecastSeries(ctx, lat, lon)
	if err != nil {
		return a.staleOrFail(a.forecast, key, fmt.Errorf("getting forecast for %s: %w", key, err))
	}

	info := a.tomorrow(series, a.clock.Now())
	info.LastUpdated = a.stamp(key)
	a.forecast.Add(key, info)

	log.Debug().Str("cache_key", key).Msg("Fetched tomorrow's forecast")
	return Result{Weather: info, Source: SourceFresh}, nil
}

// GetForecastForSpecificTime returns the forecast entry closest to target.
// Entries are cached per calendar day and minute of target.
func (a *Aggregator) GetForecastForSpecificTime(ctx context.Context, lat, lon float64, target time.Time) (Result, error) {
	key := locationKey(lat, lon) + "_" + target.In(a.location).Format("20060102_15:04")
	if info, ok := a.forecast.GetFresh(key); ok {
		return Result{Weather: info, Source: SourceCache}, nil
	}

	series, err := a.forecastSeries(ctx, lat, lon)
	if err != nil {
		return a.staleOrFail(a.forecast, key, fmt.Errorf("getting forecast for %s: %w", key, err))
	}

	info := models.WeatherInfoFromForecast(series[closest(series, target)])
	info.LastUpdated = a.stamp(key)
	a.forecast.Add(key, info)

	return Result{Weather: info, Source: SourceFresh}, nil
}

// GetWeatherAndForecast fails only when current weather cannot be resolved.
func (a *Aggregator) GetWeatherAndForecast(ctx context.Context, lat, lon float64) (Combined, error) {
	current, err := a.GetWeatherForLocation(ctx, lat, lon)
	if err != nil {
		return Combined{}, err
	}

	forecast, err := a.GetForecastForLocation(ctx, lat, lon)
	if err != nil {
		log.Warn().Err(err).
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("Forecast unavailable, returning current weather only")
		return Combined{Current: current}, nil
	}
	return Combined{Current: current, Forecast: &forecast}, nil
}

// ForceRefreshWeather evicts the location's current weather before fetching.
func (a *Aggregator) ForceRefreshWeather(ctx context.Context, lat, lon float64) (Result, error) {
	a.current.Remove(locationKey(lat, lon))
	return a.GetWeatherForLocation(ctx, lat, lon)
}

// ForceRefreshForecast evicts the location's forecast and series before
// fetching.
func (a *Aggregator) ForceRefreshForecast(ctx context.Context, lat, lon float64) (Result, error) {
	a.series.Remove(locationKey(lat, lon))
	a.forecast.Remove(locationKey(lat, lon) + "_forecast")
	return a.GetForecastForLocation(ctx, lat, lon)
}

// ClearCache empties both caches. Pressure history is kept.
func (a *Aggregator) ClearCache() {
	a.current.Purge()
	a.forecast.Purge()
	a.series.Purge()
	log.Debug().Msg("Cleared weather caches")
}

// PressureSamples exposes the pressure readings kept for a location.
func (a *Aggregator) PressureSamples(lat, lon float64) []PressureSample {
	return a.pressure.Samples(locationKey(lat, lon))
}

func (a *Aggregator) GetCacheStats() map[string]map[string]uint64 {
	return map[string]map[string]uint64{
		"current":  a.current.GetCacheStats(),
		"forecast": a.forecast.GetCacheStats(),
		"series":   a.series.GetCacheStats(),
	}
}

func (a *Aggregator) forecastSeries(ctx context.Context, lat, lon float64) ([]models.ForecastItem, error) {
	key := locationKey(lat, lon)
	if items, ok := a.series.GetFresh(key); ok {
		return items, nil
	}

	v, err := a.do(ctx, "series:"+key, func(ctx context.Context) (interface{}, error) {
		resp, err := a.fetcher.GetForecast(ctx, lat, lon)
		if err != nil {
			return nil, err
		}
		if len(resp.List) == 0 {
			return nil, errEmptyForecast
		}
		a.series.Add(key, resp.List)
		return resp.List, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.ForecastItem), nil
}

// do runs fn once per key among concurrent callers. The shared run does not
// inherit the cancellation of the caller that started it; each caller stops
// waiting when its own ctx is done.
func (a *Aggregator) do(ctx context.Context, key string, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	if !a.singleflight {
		return fn(ctx)
	}

	ch := a.group.DoChan(key, func() (interface{}, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedFetchTimeout)
		defer cancel()
		return fn(shared)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (a *Aggregator) tomorrow(series []models.ForecastItem, now time.Time) *models.WeatherInfo {
	local := now.In(a.location)
	start := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, a.location)
	at := func(hour int) time.Time {
		return time.Date(start.Year(), start.Month(), start.Day(), hour, 0, 0, 0, a.location)
	}

	info := models.WeatherInfoFromForecast(series[closest(series, at(12))])

	morning := series[closest(series, at(9))].Main.Temp
	afternoon := series[closest(series, at(15))].Main.Temp
	info.MorningTemp = &morning
	info.AfternoonTemp = &afternoon

	end := start.AddDate(0, 0, 1)
	var maxWind *float64
	for _, item := range series {
		t := item.Time()
		if t.Before(start) || !t.Before(end) {
			continue
		}
		if maxWind == nil || item.Wind.Speed > *maxWind {
			speed := item.Wind.Speed
			maxWind = &speed
		}
	}
	info.MaxWindSpeed = maxWind

	return info
}

// closest returns the index of the entry nearest to target. The first of
// equally near entries wins.
func closest(series []models.ForecastItem, target time.Time) int {
	best := 0
	bestDiff := absDuration(series[0].Time().Sub(target))
	for i := 1; i < len(series); i++ {
		if d := absDuration(series[i].Time().Sub(target)); d < bestDiff {
			best, bestDiff = i, d
		}
	}
	return best
}

// stamp returns the update time for a new entry under key, strictly after
// the one it replaces.
func (a *Aggregator) stamp(key string) time.Time {
	a.stampMu.Lock()
	defer a.stampMu.Unlock()

	now := a.clock.Now()
	if prev, ok := a.stamps.Get(key); ok && !now.After(prev) {
		now = prev.Add(time.Millisecond)
	}
	a.stamps.Add(key, now)
	return now
}

func (a *Aggregator) staleOrFail(c *cache.TTLCache[*models.WeatherInfo], key string, err error) (Result, error) {
	info, storedAt, ok := c.GetAny(key)
	if !ok {
		return Result{}, err
	}
	log.Warn().Err(err).
		Str("cache_key", key).
		Dur("age", a.clock.Now().Sub(storedAt)).
		Msg("Serving stale weather after fetch failure")
	return Result{Weather: info, Source: SourceStale, FetchErr: err}, nil
}

func locationKey(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "_" + strconv.FormatFloat(lon, 'f', -1, 64)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
