package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/app"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/config"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/publish"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/refresh"
)

// newPublisher connects to the configured MQTT broker. Without one, snapshots
// are only logged.
func newPublisher(ctx context.Context, cfg *config.Config) (publish.Publisher, error) {
	if cfg.MQTTBroker == "" {
		log.Info().Msg("MQTT_BROKER is not set, snapshots will not be published")
		return publish.Nop{}, nil
	}

	p := publish.NewMQTTPublisher(publish.MQTTOptions{
		Broker:   cfg.MQTTBroker,
		ClientID: cfg.MQTTClientID,
		Retained: true,
	})
	if err := p.Connect(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

func newRefresher(a *app.App, publisher publish.Publisher) *refresh.Refresher {
	cacheCfg := config.GetCacheConfig()
	watch := &refresh.Watch{
		Favorites: a.Favorites,
		Catalog:   a.Catalog,
		Home:      a.Home(),
	}
	return refresh.New(a.Boards, a.Weather, publisher, watch, refresh.Options{
		DepartureInterval: cacheCfg.GetDepartureRefreshInterval(),
		WeatherInterval:   cacheCfg.GetWeatherRefreshInterval(),
	})
}

func main() {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer func() {
		if err := services.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close key-value store")
		}
	}()

	publisher, err := newPublisher(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("broker", cfg.MQTTBroker).Msg("Failed to connect to MQTT broker")
		return
	}
	defer publisher.Close()

	log.Info().Msg("Refresher starting")
	if err := newRefresher(services, publisher).Run(ctx); err != nil {
		log.Error().Err(err).Msg("Refresher stopped")
	}
}
