package models

import (
	"context"
	"time"
)

type StationFinder interface {
	FindStation(ctx context.Context, stationID string) (*Station, error)
	FindNearestStations(ctx context.Context, lat, lon float64, limit int) ([]NearbyStation, error)
}

// DepartureSource resolves the boat departures of a station on a date.
type DepartureSource interface {
	GetDepartures(ctx context.Context, stationID string, date time.Time) ([]Departure, error)
}
