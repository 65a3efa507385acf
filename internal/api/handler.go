package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/board"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

func (r APIResponse) GetResponseType() string {
	return r.ResponseType
}

type StationsResponse struct {
	APIResponse
	Stations []models.Station `json:"stations"`
}

type NearbyStationsResponse struct {
	APIResponse
	Stations []models.NearbyStation `json:"stations"`
}

type DeparturesResponse struct {
	APIResponse
	*board.Board
}

type NextWaveResponse struct {
	APIResponse
	*board.NextWave
}

type WeatherResponse struct {
	APIResponse
	Current  *models.WeatherInfo `json:"current,omitempty"`
	Forecast *models.WeatherInfo `json:"forecast,omitempty"`
	// Stale is set when an expired cache entry was served because the
	// upstream could not be reached.
	Stale bool `json:"stale"`
}

type FavoritesResponse struct {
	APIResponse
	Result   string           `json:"result,omitempty"`
	Stations []models.Station `json:"stations"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewStationsResponse(stations []models.Station) *StationsResponse {
	if stations == nil {
		stations = []models.Station{}
	}
	return &StationsResponse{
		APIResponse: APIResponse{ResponseType: "stations"},
		Stations:    stations,
	}
}

func NewNearbyStationsResponse(stations []models.NearbyStation) *NearbyStationsResponse {
	if stations == nil {
		stations = []models.NearbyStation{}
	}
	return &NearbyStationsResponse{
		APIResponse: APIResponse{ResponseType: "stations"},
		Stations:    stations,
	}
}

func NewDeparturesResponse(b *board.Board) *DeparturesResponse {
	return &DeparturesResponse{
		APIResponse: APIResponse{ResponseType: "departures"},
		Board:       b,
	}
}

func NewNextWaveResponse(n *board.NextWave) *NextWaveResponse {
	return &NextWaveResponse{
		APIResponse: APIResponse{ResponseType: "nextWave"},
		NextWave:    n,
	}
}

func NewWeatherResponse(current, forecast *models.WeatherInfo, stale bool) *WeatherResponse {
	return &WeatherResponse{
		APIResponse: APIResponse{ResponseType: "weather"},
		Current:     current,
		Forecast:    forecast,
		Stale:       stale,
	}
}

func NewFavoritesResponse(result string, stations []models.Station) *FavoritesResponse {
	if stations == nil {
		stations = []models.Station{}
	}
	return &FavoritesResponse{
		APIResponse: APIResponse{ResponseType: "favorites"},
		Result:      result,
		Stations:    stations,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

// Parameter parsing helpers

var ErrMissingCoordinates = errors.New("lat and lon are required")

// ParseCoordinates reads lat and lon. Both absent yields ErrMissingCoordinates.
func ParseCoordinates(params map[string]string) (float64, float64, error) {
	latStr, hasLat := params["lat"]
	lonStr, hasLon := params["lon"]

	if !hasLat || !hasLon {
		return 0, 0, ErrMissingCoordinates
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, err
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, err
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, InvalidCoordinatesError{}
	}

	return lat, lon, nil
}

type InvalidCoordinatesError struct{}

func (e InvalidCoordinatesError) Error() string {
	return "Invalid coordinates"
}

// ParseDate reads the date parameter as YYYY-MM-DD in loc. Without it the
// result is now.
func ParseDate(params map[string]string, loc *time.Location, now time.Time) (time.Time, error) {
	value, ok := params["date"]
	if !ok || value == "" {
		return now, nil
	}
	return time.ParseInLocation("2006-01-02", value, loc)
}

// ParseTime reads an RFC 3339 timestamp, or a local date and time without
// zone, from the time parameter.
func ParseTime(params map[string]string, loc *time.Location) (time.Time, error) {
	value := params["time"]
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04", value, loc)
}

// ParseLimit returns the limit parameter, or def when it is absent or not a
// positive number.
func ParseLimit(params map[string]string, def int) int {
	if limitStr, ok := params["limit"]; ok {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			return parsed
		}
	}
	return def
}

func ParseBool(params map[string]string, key string) bool {
	b, _ := strconv.ParseBool(params[key])
	return b
}
