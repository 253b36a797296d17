// Lambda entrypoint for the stylist backend. Serves the same routes as
// stylist-server behind API Gateway via the HTTP adapter.
package main

import (
	"context"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog/log"

	"github.com/stylegenie/stylist-backend/internal/api"
	"github.com/stylegenie/stylist-backend/internal/auth"
	"github.com/stylegenie/stylist-backend/internal/bootstrap"
	"github.com/stylegenie/stylist-backend/internal/logging"
	"github.com/stylegenie/stylist-backend/internal/stylist"
)

// Initialized once per cold start.
var handler *api.Handler

func init() {
	start := time.Now()
	logging.Init()

	ctx := context.Background()

	if err := bootstrap.LoadGeminiKey(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load Gemini API key")
	}
	apiKey, err := auth.GetAPIKey()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get API key")
	}

	client, err := stylist.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}

	env, err := bootstrap.ReadEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid environment configuration")
	}
	clients, err := bootstrap.InitAWS(ctx, env)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize AWS clients")
	}

	model := stylist.GetModelName()
	engine := stylist.NewGeminiEngine(client, model)
	service := stylist.NewService(clients.Store, clients.Store, engine, stylist.DefaultEngineTimeout)

	handler = &api.Handler{
		Recommender: service,
		Store:       clients.Store,
		History:     clients.History,
		Emitter:     clients.Emitter,
	}
	if clients.Presigner != nil {
		handler.Signer = clients.Presigner
	}

	logging.NewStartupLogger("stylist-lambda").
		Config("model", model).
		Config("database", env.Database).
		DynamoTable("history", env.HistoryTable).
		S3Bucket("images", env.ImageBucket).
		SSMParam("geminiKey", logging.EnvOrDefault("SSM_API_KEY_PARAM", "/stylegenie/prod/gemini-api-key")).
		Feature("eventbridge", env.EventsOn).
		InitDuration(time.Since(start)).
		Log()
}

func main() {
	adapter := httpadapter.NewV2(handler.Routes())
	lambda.Start(adapter.ProxyWithContext)
}
