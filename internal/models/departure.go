package models

import "time"

type DepartureStatus string

const (
	StatusMissed  DepartureStatus = "MISSED"
	StatusNow     DepartureStatus = "NOW"
	StatusPlanned DepartureStatus = "PLANNED"
)

// NowWindow is how far ahead a departure still counts as leaving now.
const NowWindow = 5 * time.Minute

type Departure struct {
	Time          string          `json:"time"`
	WaveNumber    int             `json:"waveNumber"`
	JourneyNumber string          `json:"journeyNumber"`
	Destination   string          `json:"destination"`
	Status        DepartureStatus `json:"status"`
	NextStation   string          `json:"nextStation"`

	// ScheduledAt is the parsed departure instant. When the upstream record
	// had no usable timestamp it holds the fetch time and TimeUnknown is set.
	ScheduledAt time.Time `json:"scheduledAt"`
	TimeUnknown bool      `json:"timeUnknown,omitempty"`
}

// StatusAt classifies a departure time against now. Departures on any day
// other than today are always planned.
func StatusAt(scheduled, now time.Time, today bool) DepartureStatus {
	if !today {
		return StatusPlanned
	}
	switch {
	case scheduled.Before(now):
		return StatusMissed
	case scheduled.Sub(now) < NowWindow:
		return StatusNow
	default:
		return StatusPlanned
	}
}
