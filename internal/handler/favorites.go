package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/api"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/favorites"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/station"
)

type FavoriteStore interface {
	Reload(ctx context.Context) error
	List() []models.Station
	Toggle(ctx context.Context, st models.Station) (favorites.ToggleResult, error)
	Reorder(ctx context.Context, from, to int) error
	UpdateOrder(ctx context.Context, stations []models.Station) error
}

type toggleRequest struct {
	StationID string `json:"stationId"`
}

// orderRequest either moves one entry (from, to) or replaces the whole
// order (stationIds).
type orderRequest struct {
	From       *int     `json:"from"`
	To         *int     `json:"to"`
	StationIDs []string `json:"stationIds"`
}

type FavoritesHandler struct {
	favorites FavoriteStore
	stations  models.StationFinder
}

func NewFavoritesHandler(favorites FavoriteStore, stations models.StationFinder) *FavoritesHandler {
	return &FavoritesHandler{
		favorites: favorites,
		stations:  stations,
	}
}

func (h *FavoritesHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.HTTPMethod {
	case "", http.MethodGet:
		if err := h.favorites.Reload(ctx); err != nil {
			log.Warn().Err(err).Msg("Serving last loaded favorites")
		}
		return api.Success(api.NewFavoritesResponse("", h.favorites.List()))
	case http.MethodPost:
		return h.toggle(ctx, request.Body)
	case http.MethodPut:
		return h.order(ctx, request.Body)
	default:
		return api.Error("Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *FavoritesHandler) toggle(ctx context.Context, body string) (events.APIGatewayProxyResponse, error) {
	var req toggleRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil || req.StationID == "" {
		return api.Error("stationId is required", http.StatusBadRequest)
	}

	st, resp, ok := h.resolve(ctx, req.StationID)
	if !ok {
		return resp, nil
	}

	result, err := h.favorites.Toggle(ctx, *st)
	if err != nil {
		log.Error().Err(err).Str("station_id", req.StationID).Msg("Failed to toggle favorite")
		return api.Error("Error saving favorites", http.StatusInternalServerError)
	}
	return api.Success(api.NewFavoritesResponse(string(result), h.favorites.List()))
}

func (h *FavoritesHandler) order(ctx context.Context, body string) (events.APIGatewayProxyResponse, error) {
	var req orderRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return api.Error("Invalid request body", http.StatusBadRequest)
	}

	var err error
	switch {
	case req.From != nil && req.To != nil:
		err = h.favorites.Reorder(ctx, *req.From, *req.To)
	case req.StationIDs != nil:
		stations := make([]models.Station, 0, len(req.StationIDs))
		for _, id := range req.StationIDs {
			st, resp, ok := h.resolve(ctx, id)
			if !ok {
				return resp, nil
			}
			stations = append(stations, *st)
		}
		err = h.favorites.UpdateOrder(ctx, stations)
	default:
		return api.Error("Either from and to, or stationIds is required", http.StatusBadRequest)
	}

	switch {
	case errors.Is(err, favorites.ErrTooMany), errors.Is(err, favorites.ErrDuplicate):
		return api.Error(err.Error(), http.StatusBadRequest)
	case err != nil:
		log.Error().Err(err).Msg("Failed to reorder favorites")
		return api.Error("Error saving favorites", http.StatusInternalServerError)
	}
	return api.Success(api.NewFavoritesResponse("", h.favorites.List()))
}

// resolve looks a station up among the current favorites first, so removed
// catalog entries can still be reordered or toggled off.
func (h *FavoritesHandler) resolve(ctx context.Context, stationID string) (*models.Station, events.APIGatewayProxyResponse, bool) {
	for _, fav := range h.favorites.List() {
		if fav.ID == stationID {
			fav := fav
			return &fav, events.APIGatewayProxyResponse{}, true
		}
	}

	st, err := h.stations.FindStation(ctx, stationID)
	if errors.Is(err, station.ErrStationNotFound) || (err == nil && st == nil) {
		resp, _ := api.Error("Station not found", http.StatusNotFound)
		return nil, resp, false
	}
	if err != nil {
		resp, _ := api.Error("Error finding station", http.StatusInternalServerError)
		return nil, resp, false
	}
	return st, events.APIGatewayProxyResponse{}, true
}
