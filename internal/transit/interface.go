package transit

import (
	"context"
	"time"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
)

type DepartureService interface {
	GetDepartures(ctx context.Context, stationID string, date time.Time) ([]models.Departure, error)
}

var _ DepartureService = (*Client)(nil)
var _ models.DepartureSource = (*Client)(nil)
