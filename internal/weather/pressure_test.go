package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/models"
)

func TestPressureHistoryTrend(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		readings []int
		want     models.PressureTrend
	}{
		{"single reading", []int{1013}, models.PressureStable},
		{"rise of exactly two", []int{1013, 1014, 1015}, models.PressureStable},
		{"rise above two", []int{1013, 1016}, models.PressureRising},
		{"fall of exactly two", []int{1013, 1011}, models.PressureStable},
		{"fall below two", []int{1013, 1012, 1010}, models.PressureFalling},
		{"oldest against newest", []int{1010, 1020, 1011}, models.PressureStable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewPressureHistory(6*time.Hour, 10)
			var got models.PressureTrend
			for i, r := range tt.readings {
				got = h.Record("k", r, base.Add(time.Duration(i)*time.Hour))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPressureHistoryWindow(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	h := NewPressureHistory(6*time.Hour, 10)

	h.Record("k", 1000, base)
	h.Record("k", 1001, base.Add(3*time.Hour))
	trend := h.Record("k", 1010, base.Add(6*time.Hour))

	samples := h.Samples("k")
	assert.Len(t, samples, 2, "a sample exactly six hours old is dropped")
	assert.Equal(t, models.PressureRising, trend)
	assert.True(t, samples[0].At.Before(samples[1].At))

	h.Record("k", 1005, base.Add(4*time.Hour))
	samples = h.Samples("k")
	for i := 1; i < len(samples); i++ {
		assert.False(t, samples[i].At.Before(samples[i-1].At))
	}
	assert.Empty(t, h.Samples("other"))
}

func TestPressureHistoryBoundedLocations(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	h := NewPressureHistory(6*time.Hour, 2)

	h.Record("a", 1000, base)
	h.Record("b", 1001, base)
	h.Record("a", 1002, base.Add(time.Minute))
	h.Record("c", 1003, base.Add(2*time.Minute))

	assert.Equal(t, 2, h.Len())
	assert.Empty(t, h.Samples("b"), "least recently recorded location is dropped")
	assert.Len(t, h.Samples("a"), 2)
	assert.Len(t, h.Samples("c"), 1)
}
