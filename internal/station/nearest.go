package station

import (
	"math"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
)

const earthRadiusKm = 6371.0

// FindNearest returns the station closest to location and its distance in
// km rounded to one decimal. With no location the first station is returned
// and the distance is unknown. The first of equally close stations wins.
func FindNearest(stations []models.Station, location *models.Location) (*models.Station, *float64) {
	if len(stations) == 0 {
		return nil, nil
	}
	if location == nil {
		first := stations[0]
		return &first, nil
	}

	best := 0
	bestDistance := Distance(location.Latitude, location.Longitude, stations[0].Latitude, stations[0].Longitude)
	for i := 1; i < len(stations); i++ {
		d := Distance(location.Latitude, location.Longitude, stations[i].Latitude, stations[i].Longitude)
		if d < bestDistance {
			best, bestDistance = i, d
		}
	}

	nearest := stations[best]
	rounded := RoundKm(bestDistance)
	return &nearest, &rounded
}

// Distance is the great-circle distance in km between two points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func RoundKm(km float64) float64 {
	return math.Round(km*10) / 10
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
