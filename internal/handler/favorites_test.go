package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/favorites"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/store"
)

func catalogOf(ids ...string) *mockStationLookup {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &mockStationLookup{
		findStationFn: func(ctx context.Context, stationID string) (*models.Station, error) {
			if !known[stationID] {
				return nil, nil
			}
			st := createTestStation(stationID)
			return &st, nil
		},
	}
}

func newFavoritesHandler(t *testing.T, ids ...string) (*FavoritesHandler, *favorites.Store) {
	t.Helper()
	favs, err := favorites.New(context.Background(), store.NewMemoryStore(), favorites.DefaultKey)
	require.NoError(t, err)
	return NewFavoritesHandler(favs, catalogOf(ids...)), favs
}

func favoriteIDs(body map[string]interface{}) []string {
	var ids []string
	for _, s := range body["stations"].([]interface{}) {
		ids = append(ids, s.(map[string]interface{})["id"].(string))
	}
	return ids
}

func send(t *testing.T, h *FavoritesHandler, method, body string) events.APIGatewayProxyResponse {
	t.Helper()
	response, err := h.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: method,
		Body:       body,
	})
	require.NoError(t, err)
	return response
}

func TestFavoritesHandler_Toggle(t *testing.T) {
	t.Parallel()

	h, favs := newFavoritesHandler(t, "A", "B", "C", "D", "E", "F")

	response := send(t, h, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Empty(t, decodeBody(t, response)["stations"])

	for _, id := range []string{"A", "B", "C", "D", "E"} {
		response = send(t, h, http.MethodPost, `{"stationId":"`+id+`"}`)
		require.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, "ADDED", decodeBody(t, response)["result"])
	}

	response = send(t, h, http.MethodPost, `{"stationId":"F"}`)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	body := decodeBody(t, response)
	assert.Equal(t, "MAX_REACHED", body["result"])
	assert.Equal(t, []string{"A", "B", "C", "D", "E"}, favoriteIDs(body))

	response = send(t, h, http.MethodPost, `{"stationId":"C"}`)
	body = decodeBody(t, response)
	assert.Equal(t, "REMOVED", body["result"])
	assert.Equal(t, []string{"A", "B", "D", "E"}, favoriteIDs(body))
	assert.Len(t, favs.List(), 4)
}

func TestFavoritesHandler_Order(t *testing.T) {
	t.Parallel()

	h, _ := newFavoritesHandler(t, "A", "B", "C")
	for _, id := range []string{"A", "B", "C"} {
		send(t, h, http.MethodPost, `{"stationId":"`+id+`"}`)
	}

	response := send(t, h, http.MethodPut, `{"from":0,"to":2}`)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, []string{"B", "C", "A"}, favoriteIDs(decodeBody(t, response)))

	response = send(t, h, http.MethodPut, `{"from":7,"to":0}`)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, []string{"B", "C", "A"}, favoriteIDs(decodeBody(t, response)))

	response = send(t, h, http.MethodPut, `{"stationIds":["C","A"]}`)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, []string{"C", "A"}, favoriteIDs(decodeBody(t, response)))
}

func TestFavoritesHandler_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "toggle without station",
			method:         http.MethodPost,
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "stationId is required",
		},
		{
			name:           "toggle unknown station",
			method:         http.MethodPost,
			body:           `{"stationId":"nope"}`,
			expectedStatus: http.StatusNotFound,
			expectedError:  "Station not found",
		},
		{
			name:           "malformed order",
			method:         http.MethodPut,
			body:           `[1,2]`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name:           "empty order",
			method:         http.MethodPut,
			body:           `{"from":1}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Either from and to, or stationIds is required",
		},
		{
			name:           "duplicate ids",
			method:         http.MethodPut,
			body:           `{"stationIds":["A","A"]}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  favorites.ErrDuplicate.Error() + ": A",
		},
		{
			name:           "too many ids",
			method:         http.MethodPut,
			body:           `{"stationIds":["A","B","C","D","E","F"]}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  favorites.ErrTooMany.Error(),
		},
		{
			name:           "unsupported method",
			method:         http.MethodDelete,
			expectedStatus: http.StatusMethodNotAllowed,
			expectedError:  "Method not allowed",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, _ := newFavoritesHandler(t, "A", "B", "C", "D", "E", "F")
			response := send(t, h, tt.method, tt.body)
			assert.Equal(t, tt.expectedStatus, response.StatusCode)

			body := decodeBody(t, response)
			assert.Equal(t, "error", body["responseType"])
			assert.Equal(t, tt.expectedError, body["error"])
		})
	}
}

func TestFavoritesHandler_ListReflectsOtherInstances(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	kv := store.NewMemoryStore()
	mine, err := favorites.New(ctx, kv, favorites.DefaultKey)
	require.NoError(t, err)
	other, err := favorites.New(ctx, kv, favorites.DefaultKey)
	require.NoError(t, err)
	h := NewFavoritesHandler(mine, catalogOf("A", "B"))

	_, err = other.Toggle(ctx, createTestStation("B"))
	require.NoError(t, err)

	response := send(t, h, http.MethodGet, "")
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, []string{"B"}, favoriteIDs(decodeBody(t, response)))

	response = send(t, h, http.MethodPost, `{"stationId":"A"}`)
	require.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, []string{"B", "A"}, favoriteIDs(decodeBody(t, response)))
}
