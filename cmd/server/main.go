package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/api"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/app"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/config"
)

func newRouter(a *app.App) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		stations := len(a.Catalog.LoadStations(ctx))
		status, code := "ok", http.StatusOK
		if stations == 0 {
			status, code = "error", http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    status,
			"stations":  stations,
			"timestamp": time.Now().UTC(),
		})
	})

	r.Get("/api/stations", api.HTTPHandler(a.StationsHandler().HandleRequest))
	r.Get("/api/departures", api.HTTPHandler(a.DeparturesHandler().HandleRequest))
	r.Get("/api/weather", api.HTTPHandler(a.WeatherHandler().HandleRequest))

	favorites := api.HTTPHandler(a.FavoritesHandler().HandleRequest)
	r.Get("/api/favorites", favorites)
	r.Post("/api/favorites", favorites)
	r.Put("/api/favorites", favorites)

	return r
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

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Server failed")
	}
}
