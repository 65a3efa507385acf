package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/api"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/weather"
)

type WeatherService interface {
	GetWeatherForLocation(ctx context.Context, lat, lon float64) (weather.Result, error)
	GetForecastForLocation(ctx context.Context, lat, lon float64) (weather.Result, error)
	GetForecastForSpecificTime(ctx context.Context, lat, lon float64, target time.Time) (weather.Result, error)
	GetWeatherAndForecast(ctx context.Context, lat, lon float64) (weather.Combined, error)
	ForceRefreshWeather(ctx context.Context, lat, lon float64) (weather.Result, error)
	ForceRefreshForecast(ctx context.Context, lat, lon float64) (weather.Result, error)
}

type WeatherHandler struct {
	weather  WeatherService
	location *time.Location
}

func NewWeatherHandler(w WeatherService, location *time.Location) *WeatherHandler {
	if location == nil {
		location = time.Local
	}
	return &WeatherHandler{
		weather:  w,
		location: location,
	}
}

func (h *WeatherHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	lat, lon, err := api.ParseCoordinates(params)
	if err != nil {
		var invalidCoordErr api.InvalidCoordinatesError
		switch {
		case errors.Is(err, api.ErrMissingCoordinates):
			return api.Error(err.Error(), http.StatusBadRequest)
		case errors.As(err, &invalidCoordErr):
			return api.Error(err.Error(), http.StatusBadRequest)
		}
		return api.Error("Invalid parameters", http.StatusBadRequest)
	}

	refresh := api.ParseBool(params, "refresh")
	kind := params["kind"]
	if kind == "" {
		kind = "current"
	}

	switch kind {
	case "current":
		get := h.weather.GetWeatherForLocation
		if refresh {
			get = h.weather.ForceRefreshWeather
		}
		res, err := get(ctx, lat, lon)
		if err != nil {
			return weatherError(err)
		}
		return api.Success(api.NewWeatherResponse(res.Weather, nil, res.Source == weather.SourceStale))

	case "forecast":
		get := h.weather.GetForecastForLocation
		if refresh {
			get = h.weather.ForceRefreshForecast
		}
		res, err := get(ctx, lat, lon)
		if err != nil {
			return weatherError(err)
		}
		return api.Success(api.NewWeatherResponse(nil, res.Weather, res.Source == weather.SourceStale))

	case "both":
		if refresh {
			if _, err := h.weather.ForceRefreshWeather(ctx, lat, lon); err != nil {
				return weatherError(err)
			}
			if _, err := h.weather.ForceRefreshForecast(ctx, lat, lon); err != nil {
				log.Warn().Err(err).Msg("Forecast refresh failed")
			}
		}
		combined, err := h.weather.GetWeatherAndForecast(ctx, lat, lon)
		if err != nil {
			return weatherError(err)
		}
		resp := api.NewWeatherResponse(combined.Current.Weather, nil, combined.Current.Source == weather.SourceStale)
		if combined.Forecast != nil {
			resp.Forecast = combined.Forecast.Weather
		}
		return api.Success(resp)

	case "at":
		target, err := api.ParseTime(params, h.location)
		if err != nil {
			return api.Error("Invalid time, expected RFC 3339 or YYYY-MM-DDTHH:MM", http.StatusBadRequest)
		}
		res, err := h.weather.GetForecastForSpecificTime(ctx, lat, lon, target)
		if err != nil {
			return weatherError(err)
		}
		return api.Success(api.NewWeatherResponse(nil, res.Weather, res.Source == weather.SourceStale))

	default:
		return api.Error("kind must be one of current, forecast, both, at", http.StatusBadRequest)
	}
}

func weatherError(err error) (events.APIGatewayProxyResponse, error) {
	if errors.Is(err, weather.ErrInvalidCoordinates) {
		return api.Error("Invalid coordinates", http.StatusBadRequest)
	}
	log.Error().Err(err).Msg("Weather lookup failed")
	return api.Error("Weather data unavailable", http.StatusBadGateway)
}
