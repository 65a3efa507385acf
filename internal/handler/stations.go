package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/api"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/station"
)

const defaultNearestLimit = 5

// StationLookup is the station catalog as the handlers see it.
type StationLookup interface {
	models.StationFinder
	AllStations(ctx context.Context) []models.Station
	StationsForLake(ctx context.Context, lake string) []models.Station
}

type StationsHandler struct {
	stations StationLookup
}

func NewStationsHandler(stations StationLookup) *StationsHandler {
	return &StationsHandler{
		stations: stations,
	}
}

func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	if stationID, ok := params["stationId"]; ok {
		found, err := h.stations.FindStation(ctx, stationID)
		if errors.Is(err, station.ErrStationNotFound) || (err == nil && found == nil) {
			return api.Error("Station not found", http.StatusNotFound)
		}
		if err != nil {
			log.Error().Err(err).Str("station_id", stationID).Msg("Station lookup failed")
			return api.Error("Error finding station", http.StatusInternalServerError)
		}
		return api.Success(api.NewStationsResponse([]models.Station{*found}))
	}

	lat, lon, err := api.ParseCoordinates(params)
	switch {
	case errors.Is(err, api.ErrMissingCoordinates):
		if lake, ok := params["lake"]; ok {
			return api.Success(api.NewStationsResponse(h.stations.StationsForLake(ctx, lake)))
		}
		return api.Success(api.NewStationsResponse(h.stations.AllStations(ctx)))
	case err != nil:
		var invalidCoordErr api.InvalidCoordinatesError
		if errors.As(err, &invalidCoordErr) {
			return api.Error(err.Error(), http.StatusBadRequest)
		}
		return api.Error("Invalid parameters", http.StatusBadRequest)
	}

	limit := api.ParseLimit(params, defaultNearestLimit)
	nearby, err := h.stations.FindNearestStations(ctx, lat, lon, limit)
	if err != nil {
		log.Error().Err(err).Float64("lat", lat).Float64("lon", lon).Msg("Nearest station lookup failed")
		return api.Error("Error finding stations", http.StatusInternalServerError)
	}

	return api.Success(api.NewNearbyStationsResponse(nearby))
}
