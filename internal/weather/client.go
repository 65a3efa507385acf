package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/lakeshorestudios/nextwave/backend-go/pkg/http/client"
)

// ErrInvalidCoordinates is returned before any request when a latitude or
// longitude is out of range.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Fetcher is the upstream the aggregator reads from.
type Fetcher interface {
	GetCurrentWeather(ctx context.Context, lat, lon float64) (*models.WeatherResponse, error)
	GetForecast(ctx context.Context, lat, lon float64) (*models.ForecastResponse, error)
}

type ClientOptions struct {
	APIKey string
	// RPS and Burst configure the token bucket shared by all requests.
	RPS   float64
	Burst int
}

// Client talks to the OpenWeatherMap current weather and forecast endpoints.
type Client struct {
	httpClient client.Interface
	apiKey     string
	limiter    *rate.Limiter
}

var _ Fetcher = (*Client)(nil)

func NewClient(httpClient client.Interface, opts ClientOptions) *Client {
	if opts.RPS <= 0 {
		opts.RPS = 1
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}
	return &Client{
		httpClient: httpClient,
		apiKey:     opts.APIKey,
		limiter:    rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst),
	}
}

func (c *Client) GetCurrentWeather(ctx context.Context, lat, lon float64) (*models.WeatherResponse, error) {
	var resp models.WeatherResponse
	if err := c.get(ctx, "weather", lat, lon, &resp); err != nil {
		return nil, fmt.Errorf("fetching current weather: %w", err)
	}
	return &resp, nil
}

// GetForecast returns the 5 day forecast in 3 hour steps.
func (c *Client) GetForecast(ctx context.Context, lat, lon float64) (*models.ForecastResponse, error) {
	var resp models.ForecastResponse
	if err := c.get(ctx, "forecast", lat, lon, &resp); err != nil {
		return nil, fmt.Errorf("fetching forecast: %w", err)
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, lat, lon float64, out interface{}) error {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait canceled: %w", err)
	}

	query := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(lon, 'f', -1, 64)},
		"units": {"metric"},
		"appid": {c.apiKey},
	}

	log.Debug().
		Str("endpoint", path).
		Float64("lat", lat).
		Float64("lon", lon).
		Msg("Requesting OpenWeatherMap")

	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(resp.Body))
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}

func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v must be between -90 and 90", ErrInvalidCoordinates, lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("%w: longitude %v must be between -180 and 180", ErrInvalidCoordinates, lon)
	}
	return nil
}
