package models

import (
	"errors"
	"fmt"
)

// Station is a boat landing stage on a lake. Stations are built once by the
// catalog and never mutated afterwards.
type Station struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	City        string  `json:"city"`
	Type        string  `json:"type"`
	Lake        string  `json:"lake"`
	WaveRating  int     `json:"waveRating"`
	Description string  `json:"description"`
}

// HasCoordinates reports whether the station carries a real position.
// Stations listed only by name in the dataset sit at 0,0.
func (s Station) HasCoordinates() bool {
	return s.Latitude != 0 || s.Longitude != 0
}

func (s Station) Validate() error {
	if s.ID == "" {
		return errors.New("station id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("station %s: name is required", s.ID)
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("station %s: latitude %f out of range", s.ID, s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return fmt.Errorf("station %s: longitude %f out of range", s.ID, s.Longitude)
	}
	return nil
}

// NearbyStation pairs a station with its distance from a query location.
type NearbyStation struct {
	Station
	DistanceKm float64 `json:"distanceKm"`
}

// Location is a point given by the caller, e.g. the device position.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
