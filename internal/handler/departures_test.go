package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/board"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/transit"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type mockBoardService struct {
	departuresFn func(ctx context.Context, st models.Station, date time.Time, withWeather bool) (*board.Board, error)
	nextWaveFn   func(ctx context.Context, st models.Station) *board.NextWave
}

func (m *mockBoardService) Departures(ctx context.Context, st models.Station, date time.Time, withWeather bool) (*board.Board, error) {
	return m.departuresFn(ctx, st, date, withWeather)
}

func (m *mockBoardService) NextWave(ctx context.Context, st models.Station) *board.NextWave {
	return m.nextWaveFn(ctx, st)
}

func knownStations() *mockStationLookup {
	return &mockStationLookup{
		findStationFn: func(ctx context.Context, stationID string) (*models.Station, error) {
			if stationID != "8508450" {
				return nil, nil
			}
			st := createTestStation(stationID)
			return &st, nil
		},
	}
}

func TestDeparturesHandler_Board(t *testing.T) {
	t.Parallel()

	zurich, err := time.LoadLocation("Europe/Zurich")
	require.NoError(t, err)
	now := time.Date(2024, 7, 1, 14, 0, 0, 0, zurich)

	var gotDate time.Time
	var gotWeather bool
	boards := &mockBoardService{
		departuresFn: func(ctx context.Context, st models.Station, date time.Time, withWeather bool) (*board.Board, error) {
			gotDate = date
			gotWeather = withWeather
			return &board.Board{
				Station: st,
				Date:    date.Format("2006-01-02"),
				Departures: []board.Departure{
					{Departure: models.Departure{Time: "14:05", JourneyNumber: "38", Destination: "Flüelen", Status: models.StatusNow}},
				},
			}, nil
		},
	}

	handler := NewDeparturesHandler(knownStations(), boards, zurich, fixedClock{now: now})
	response, err := handler.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"stationId": "8508450", "date": "2024-07-03", "weather": "true"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	assert.True(t, gotWeather)
	assert.Equal(t, time.Date(2024, 7, 3, 0, 0, 0, 0, zurich), gotDate)

	body := decodeBody(t, response)
	assert.Equal(t, "departures", body["responseType"])
	assert.Equal(t, "2024-07-03", body["date"])
	require.Len(t, body["departures"], 1)
	first := body["departures"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Flüelen", first["destination"])
	assert.Equal(t, "NOW", first["status"])
}

func TestDeparturesHandler_DefaultsToNow(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	var gotDate time.Time
	boards := &mockBoardService{
		departuresFn: func(ctx context.Context, st models.Station, date time.Time, withWeather bool) (*board.Board, error) {
			gotDate = date
			assert.False(t, withWeather)
			return &board.Board{Station: st, Date: date.Format("2006-01-02"), Message: board.MessageNoDepartures}, nil
		},
	}

	handler := NewDeparturesHandler(knownStations(), boards, time.UTC, fixedClock{now: now})
	response, err := handler.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"stationId": "8508450"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Equal(t, now, gotDate)
	assert.Equal(t, board.MessageNoDepartures, decodeBody(t, response)["message"])
}

func TestDeparturesHandler_NextWave(t *testing.T) {
	t.Parallel()

	boards := &mockBoardService{
		nextWaveFn: func(ctx context.Context, st models.Station) *board.NextWave {
			return &board.NextWave{Station: st, Message: "Lake's quiet today"}
		},
	}

	handler := NewDeparturesHandler(knownStations(), boards, time.UTC, nil)
	response, err := handler.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"stationId": "8508450", "next": "true"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)

	body := decodeBody(t, response)
	assert.Equal(t, "nextWave", body["responseType"])
	assert.Equal(t, "Lake's quiet today", body["message"])
	assert.NotContains(t, body, "departure")
}

func TestDeparturesHandler_Errors(t *testing.T) {
	t.Parallel()

	failWith := func(err error) *mockBoardService {
		return &mockBoardService{
			departuresFn: func(ctx context.Context, st models.Station, date time.Time, withWeather bool) (*board.Board, error) {
				return nil, err
			},
		}
	}

	tests := []struct {
		name           string
		params         map[string]string
		boards         *mockBoardService
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "missing station id",
			params:         map[string]string{},
			boards:         failWith(assert.AnError),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "stationId is required",
		},
		{
			name:           "unknown station",
			params:         map[string]string{"stationId": "0000000"},
			boards:         failWith(assert.AnError),
			expectedStatus: http.StatusNotFound,
			expectedError:  "Station not found",
		},
		{
			name:           "bad date",
			params:         map[string]string{"stationId": "8508450", "date": "01.07.2024"},
			boards:         failWith(assert.AnError),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid date, expected YYYY-MM-DD",
		},
		{
			name:           "no journey found",
			params:         map[string]string{"stationId": "8508450"},
			boards:         failWith(transit.ErrNoJourneyFound),
			expectedStatus: http.StatusNotFound,
			expectedError:  "No connections found",
		},
		{
			name:           "timeout",
			params:         map[string]string{"stationId": "8508450"},
			boards:         failWith(transit.ErrTimeout),
			expectedStatus: http.StatusGatewayTimeout,
			expectedError:  transit.ErrTimeout.Error(),
		},
		{
			name:           "invalid response",
			params:         map[string]string{"stationId": "8508450"},
			boards:         failWith(transit.ErrInvalidResponse),
			expectedStatus: http.StatusBadGateway,
			expectedError:  "The OpenTransport API is currently unavailable. Please try again later.",
		},
		{
			name:           "network",
			params:         map[string]string{"stationId": "8508450"},
			boards:         failWith(&transit.APIError{Kind: transit.KindNetwork, Detail: "connection refused"}),
			expectedStatus: http.StatusServiceUnavailable,
			expectedError:  "Connection problem: connection refused",
		},
		{
			name:           "invalid url",
			params:         map[string]string{"stationId": "8508450"},
			boards:         failWith(transit.ErrInvalidURL),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Invalid URL - Please contact support",
		},
		{
			name:           "unexpected error",
			params:         map[string]string{"stationId": "8508450"},
			boards:         failWith(assert.AnError),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Error loading departures",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewDeparturesHandler(knownStations(), tt.boards, time.UTC, nil)
			response, err := handler.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
				QueryStringParameters: tt.params,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, response.StatusCode)

			body := decodeBody(t, response)
			assert.Equal(t, "error", body["responseType"])
			assert.Equal(t, tt.expectedError, body["error"])
		})
	}
}
