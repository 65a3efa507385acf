package board

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/cache"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/station"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/weather"
)

const (
	// MaxDaysAhead is how far in the future a board can be requested.
	MaxDaysAhead = 8
	// LookAheadDays is how many following days are checked when today has
	// no departures.
	LookAheadDays = 7

	MessageCheckFutureDates = "No departures today. Check future dates."
	MessageNoDepartures     = "No departures found"
)

// Forecaster is the part of the weather aggregator the board uses.
type Forecaster interface {
	GetForecastForLocation(ctx context.Context, lat, lon float64) (weather.Result, error)
	GetForecastForSpecificTime(ctx context.Context, lat, lon float64, target time.Time) (weather.Result, error)
}

type Options struct {
	Clock    cache.Clock
	Location *time.Location
}

// Service composes departures and weather for a station.
type Service struct {
	departures models.DepartureSource
	forecaster Forecaster
	clock      cache.Clock
	location   *time.Location
}

func New(departures models.DepartureSource, forecaster Forecaster, opts Options) *Service {
	if opts.Clock == nil {
		opts.Clock = cache.SystemClock{}
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Service{
		departures: departures,
		forecaster: forecaster,
		clock:      opts.Clock,
		location:   opts.Location,
	}
}

type Departure struct {
	models.Departure
	Weather *models.WeatherInfo `json:"weather,omitempty"`
}

type Board struct {
	Station             models.Station `json:"station"`
	Date                string         `json:"date"`
	Departures          []Departure    `json:"departures"`
	HasFutureDepartures bool           `json:"hasFutureDepartures"`
	Message             string         `json:"message,omitempty"`
}

// Departures builds the board of a station for a day. Dates more than
// MaxDaysAhead days out are moved to that limit. Transit errors are returned
// as is.
func (s *Service) Departures(ctx context.Context, st models.Station, date time.Time, withWeather bool) (*Board, error) {
	now := s.clock.Now().In(s.location)
	today := startOfDay(now)
	day := startOfDay(date.In(s.location))

	maxDay := today.AddDate(0, 0, MaxDaysAhead)
	if day.After(maxDay) {
		day = maxDay
	}

	isToday := day.Equal(today)
	from := day
	if isToday {
		from = now
	}

	departures, err := s.departures.GetDepartures(ctx, st.ID, from)
	if err != nil {
		return nil, err
	}

	board := &Board{
		Station:    st,
		Date:       day.Format("2006-01-02"),
		Departures: make([]Departure, 0, len(departures)),
	}
	for _, d := range departures {
		board.Departures = append(board.Departures, Departure{Departure: d})
	}

	if len(departures) == 0 {
		if isToday {
			board.HasFutureDepartures = s.hasFutureDepartures(ctx, st.ID, today)
		}
		board.Message = MessageNoDepartures
		if board.HasFutureDepartures {
			board.Message = MessageCheckFutureDates
		}
	}

	if withWeather {
		s.attachWeather(ctx, st, board.Departures)
	}

	return board, nil
}

func (s *Service) hasFutureDepartures(ctx context.Context, stationID string, today time.Time) bool {
	for i := 1; i <= LookAheadDays; i++ {
		departures, err := s.departures.GetDepartures(ctx, stationID, today.AddDate(0, 0, i))
		if err != nil {
			log.Debug().Err(err).
				Str("station_id", stationID).
				Int("days_ahead", i).
				Msg("Ignoring error while looking ahead")
			continue
		}
		if len(departures) > 0 {
			return true
		}
	}
	return false
}

// attachWeather adds the forecast closest to each departure. Departures
// without a known time get none. The aggregator shares one forecast series
// per location, so a full board costs a single upstream call.
func (s *Service) attachWeather(ctx context.Context, st models.Station, departures []Departure) {
	if s.forecaster == nil || !st.HasCoordinates() {
		return
	}
	for i := range departures {
		if departures[i].TimeUnknown {
			continue
		}
		res, err := s.forecaster.GetForecastForSpecificTime(ctx, st.Latitude, st.Longitude, departures[i].ScheduledAt)
		if err != nil {
			log.Warn().Err(err).
				Str("station_id", st.ID).
				Str("departure", departures[i].Time).
				Msg("No forecast for departure")
			continue
		}
		departures[i].Weather = res.Weather
	}
}

// NextWave is the next departure of a station with the weather expected for
// it, or tomorrow's forecast once the day is over.
type NextWave struct {
	Station   models.Station      `json:"station"`
	Departure *models.Departure   `json:"departure,omitempty"`
	Weather   *models.WeatherInfo `json:"weather,omitempty"`
	Message   string              `json:"message,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// NextWave never fails: a transit error is reported in the result next to
// tomorrow's forecast.
func (s *Service) NextWave(ctx context.Context, st models.Station) *NextWave {
	now := s.clock.Now().In(s.location)
	result := &NextWave{Station: st}

	departures, err := s.departures.GetDepartures(ctx, st.ID, now)
	if err != nil {
		log.Warn().Err(err).Str("station_id", st.ID).Msg("Departures unavailable, using tomorrow's forecast")
		result.Error = err.Error()
		result.Weather = s.tomorrowForecast(ctx, st, now)
		return result
	}

	// An unknown time holds the fetch time, not a real departure.
	for _, d := range departures {
		if !d.TimeUnknown && d.ScheduledAt.After(now) {
			d := d
			result.Departure = &d
			break
		}
	}

	if result.Departure == nil {
		result.Message = station.NoWavesMessage(st.ID)
		result.Weather = s.tomorrowForecast(ctx, st, now)
		return result
	}

	if s.forecaster != nil && st.HasCoordinates() {
		res, err := s.forecaster.GetForecastForSpecificTime(ctx, st.Latitude, st.Longitude, result.Departure.ScheduledAt)
		if err != nil {
			log.Warn().Err(err).Str("station_id", st.ID).Msg("No forecast for next departure")
		} else {
			result.Weather = res.Weather
		}
	}
	return result
}

// tomorrowForecast returns a copy of tomorrow's forecast dated noon tomorrow.
func (s *Service) tomorrowForecast(ctx context.Context, st models.Station, now time.Time) *models.WeatherInfo {
	if s.forecaster == nil || !st.HasCoordinates() {
		return nil
	}
	res, err := s.forecaster.GetForecastForLocation(ctx, st.Latitude, st.Longitude)
	if err != nil {
		log.Warn().Err(err).Str("station_id", st.ID).Msg("Tomorrow's forecast unavailable")
		return nil
	}

	info := *res.Weather
	noon := time.Date(now.Year(), now.Month(), now.Day()+1, 12, 0, 0, 0, s.location)
	info.ForecastDate = &noon
	return &info
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
