package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/api"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/board"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/cache"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/station"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/transit"
)

type BoardService interface {
	Departures(ctx context.Context, st models.Station, date time.Time, withWeather bool) (*board.Board, error)
	NextWave(ctx context.Context, st models.Station) *board.NextWave
}

type DeparturesHandler struct {
	stations models.StationFinder
	boards   BoardService
	location *time.Location
	clock    cache.Clock
}

func NewDeparturesHandler(stations models.StationFinder, boards BoardService, location *time.Location, clock cache.Clock) *DeparturesHandler {
	if location == nil {
		location = time.Local
	}
	if clock == nil {
		clock = cache.SystemClock{}
	}
	return &DeparturesHandler{
		stations: stations,
		boards:   boards,
		location: location,
		clock:    clock,
	}
}

func (h *DeparturesHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	stationID := params["stationId"]
	if stationID == "" {
		return api.Error("stationId is required", http.StatusBadRequest)
	}

	st, err := h.stations.FindStation(ctx, stationID)
	if errors.Is(err, station.ErrStationNotFound) || (err == nil && st == nil) {
		return api.Error("Station not found", http.StatusNotFound)
	}
	if err != nil {
		return api.Error("Error finding station", http.StatusInternalServerError)
	}

	if api.ParseBool(params, "next") {
		return api.Success(api.NewNextWaveResponse(h.boards.NextWave(ctx, *st)))
	}

	date, err := api.ParseDate(params, h.location, h.clock.Now())
	if err != nil {
		return api.Error("Invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
	}

	b, err := h.boards.Departures(ctx, *st, date, api.ParseBool(params, "weather"))
	if err != nil {
		return transitError(err, stationID)
	}
	return api.Success(api.NewDeparturesResponse(b))
}

// transitError maps stationboard failures to a status code. The message is
// meant for users and is passed through unchanged.
func transitError(err error, stationID string) (events.APIGatewayProxyResponse, error) {
	var apiErr *transit.APIError
	if !errors.As(err, &apiErr) {
		log.Error().Err(err).Str("station_id", stationID).Msg("Departure lookup failed")
		return api.Error("Error loading departures", http.StatusInternalServerError)
	}

	status := http.StatusInternalServerError
	switch apiErr.Kind {
	case transit.KindNoJourneyFound:
		status = http.StatusNotFound
	case transit.KindTimeout:
		status = http.StatusGatewayTimeout
	case transit.KindInvalidResponse:
		status = http.StatusBadGateway
	case transit.KindNetwork:
		status = http.StatusServiceUnavailable
	}

	log.Warn().Err(err).
		Str("station_id", stationID).
		Str("kind", apiErr.Kind.String()).
		Msg("Stationboard request failed")
	return api.Error(apiErr.Error(), status)
}
