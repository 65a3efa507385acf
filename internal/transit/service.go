package transit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/cache"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
	"github.com/lakeshorestudios/nextwave/backend-go/pkg/http/client"
)

const (
	// BoatCategory is the stationboard category code of boat services.
	BoatCategory = "BAT"

	defaultLimit    = 50
	departureLayout = "2006-01-02T15:04:05-0700"
)

type Options struct {
	Limit    int
	Location *time.Location
	Clock    cache.Clock
}

// Client resolves boat departures from the transport.opendata.ch stationboard.
type Client struct {
	httpClient client.Interface
	limit      int
	location   *time.Location
	clock      cache.Clock
}

func NewClient(httpClient client.Interface, opts Options) *Client {
	if opts.Limit <= 0 {
		opts.Limit = defaultLimit
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = cache.SystemClock{}
	}
	return &Client{
		httpClient: httpClient,
		limit:      opts.Limit,
		location:   opts.Location,
		clock:      opts.Clock,
	}
}

// GetDepartures returns the boat departures of a station starting at date,
// in the order the stationboard lists them. All failures are *APIError.
func (c *Client) GetDepartures(ctx context.Context, stationID string, date time.Time) ([]models.Departure, error) {
	local := date.In(c.location)
	query := url.Values{
		"id":                {stationID},
		"limit":             {strconv.Itoa(c.limit)},
		"date":              {local.Format("2006-01-02")},
		"time":              {local.Format("15:04")},
		"transportations[]": {"ship"},
	}

	resp, err := c.httpClient.Get(ctx, "stationboard", query)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, newAPIError(KindNoJourneyFound, "", nil)
	}
	if !resp.OK() {
		return nil, newAPIError(KindInvalidResponse, "", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var board models.StationboardResponse
	if err := json.Unmarshal(resp.Body, &board); err != nil {
		return nil, newAPIError(KindInvalidResponse, "", fmt.Errorf("decoding stationboard: %w", err))
	}

	log.Debug().
		Str("station_id", stationID).
		Int("journeys", len(board.Stationboard)).
		Msg("Fetched stationboard")

	now := c.clock.Now()
	today := sameDay(local, now.In(c.location))

	departures := make([]models.Departure, 0, len(board.Stationboard))
	for _, journey := range board.Stationboard {
		if journey.Category != BoatCategory {
			log.Debug().
				Str("station_id", stationID).
				Str("category", journey.Category).
				Msg("Skipping non-boat journey")
			continue
		}
		departures = append(departures, c.toDeparture(journey, now, today))
	}

	return departures, nil
}

func (c *Client) toDeparture(journey models.Journey, now time.Time, today bool) models.Departure {
	scheduled, known := departureTime(journey.Stop)
	if !known {
		log.Warn().
			Str("station", journey.Stop.Station.Name).
			Msg("Journey has no departure time, using now")
		scheduled = now
	}

	destination := "Unknown"
	if journey.To != nil && *journey.To != "" {
		destination = *journey.To
	}

	return models.Departure{
		Time:          scheduled.In(c.location).Format("15:04"),
		JourneyNumber: JourneyNumber(journey.Name),
		Destination:   destination,
		Status:        models.StatusAt(scheduled, now, today),
		NextStation:   NextStation(journey),
		ScheduledAt:   scheduled,
		TimeUnknown:   !known,
	}
}

func departureTime(stop models.Stop) (time.Time, bool) {
	if stop.Departure != nil && *stop.Departure != "" {
		if t, err := time.Parse(departureLayout, *stop.Departure); err == nil {
			return t, true
		}
		if t, err := time.Parse(time.RFC3339, *stop.Departure); err == nil {
			return t, true
		}
		log.Warn().Str("departure", *stop.Departure).Msg("Unparsable departure time")
	}
	if stop.DepartureTimestamp != nil && *stop.DepartureTimestamp > 0 {
		return time.Unix(*stop.DepartureTimestamp, 0), true
	}
	return time.Time{}, false
}

// JourneyNumber strips leading zeros from the journey name, keeping a
// single "0" when nothing else is left.
func JourneyNumber(name *string) string {
	if name == nil {
		return ""
	}
	trimmed := strings.TrimLeft(*name, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// NextStation takes the second entry of the pass list. The list starts at
// the current stop, so this is the following stop only when the vessel runs
// in list order.
func NextStation(journey models.Journey) string {
	if len(journey.PassList) >= 2 {
		return journey.PassList[1].Station.Name
	}
	if journey.To != nil && *journey.To != "" {
		return *journey.To
	}
	return "Unknown"
}

func classifyTransportError(err error) *APIError {
	if errors.Is(err, client.ErrInvalidURL) {
		return newAPIError(KindInvalidURL, "", err)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return newAPIError(KindTimeout, "", err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newAPIError(KindTimeout, "", err)
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return newAPIError(KindNetwork, noConnectionDetail, err)
	}

	return newAPIError(KindNetwork, "Unexpected error: "+err.Error(), err)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
