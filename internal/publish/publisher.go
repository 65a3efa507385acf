package publish

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

const topicPrefix = "nextwave/stations"

// Publisher delivers JSON snapshots to subscribers.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
	Close()
}

func DepartureTopic(stationID string) string {
	return fmt.Sprintf("%s/%s/departure", topicPrefix, stationID)
}

func WeatherTopic(stationID string) string {
	return fmt.Sprintf("%s/%s/weather", topicPrefix, stationID)
}

// Nop drops every message. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(ctx context.Context, topic string, payload interface{}) error {
	log.Debug().Str("topic", topic).Msg("No broker configured, dropping snapshot")
	return nil
}

func (Nop) Close() {}
