package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/lakeshorestudios/nextwave/backend-go/internal/app"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/config"
	"github.com/lakeshorestudios/nextwave/backend-go/internal/handler"
)

var (
	lambdaStart       = lambda.Start // Allow mocking of lambda.Start in tests
	departuresHandler *handler.DeparturesHandler
	setupOnce         sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		services, err := app.New(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize services")
		}

		departuresHandler = services.DeparturesHandler()
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return departuresHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
