package weather

import (
	"sort"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
)

// trendThreshold is the pressure change in hPa across the window beyond
// which the trend counts as rising or falling.
const trendThreshold = 2

const defaultPressureLocations = 500

type PressureSample struct {
	At  time.Time
	HPa int
}

// PressureHistory keeps, per location key, the pressure readings taken
// within the window, ordered by time. At most maxLocations keys are kept;
// the least recently recorded one is dropped first.
type PressureHistory struct {
	mu      sync.Mutex
	window  time.Duration
	samples *lru.Cache[string, []PressureSample]
}

func NewPressureHistory(window time.Duration, maxLocations int) *PressureHistory {
	if maxLocations <= 0 {
		maxLocations = defaultPressureLocations
	}
	// lru.New only fails for a non-positive size.
	samples, _ := lru.New[string, []PressureSample](maxLocations)
	return &PressureHistory{
		window:  window,
		samples: samples,
	}
}

// Record adds a reading taken at now, drops readings that fell out of the
// window and returns the trend between the oldest and newest remaining one.
func (h *PressureHistory) Record(key string, hPa int, now time.Time) models.PressureTrend {
	h.mu.Lock()
	defer h.mu.Unlock()

	history, _ := h.samples.Get(key)
	i := sort.Search(len(history), func(i int) bool {
		return history[i].At.After(now)
	})
	history = append(history, PressureSample{})
	copy(history[i+1:], history[i:])
	history[i] = PressureSample{At: now, HPa: hPa}

	kept := history[:0]
	for _, s := range history {
		if now.Sub(s.At) < h.window {
			kept = append(kept, s)
		}
	}
	h.samples.Add(key, kept)

	return trend(kept)
}

// Samples returns a copy of the readings kept for key.
func (h *PressureHistory) Samples(key string) []PressureSample {
	h.mu.Lock()
	defer h.mu.Unlock()

	history, _ := h.samples.Peek(key)
	out := make([]PressureSample, len(history))
	copy(out, history)
	return out
}

// Len returns the number of locations with history.
func (h *PressureHistory) Len() int {
	return h.samples.Len()
}

func trend(samples []PressureSample) models.PressureTrend {
	if len(samples) < 2 {
		return models.PressureStable
	}
	delta := samples[len(samples)-1].HPa - samples[0].HPa
	switch {
	case delta > trendThreshold:
		return models.PressureRising
	case delta < -trendThreshold:
		return models.PressureFalling
	default:
		return models.PressureStable
	}
}
