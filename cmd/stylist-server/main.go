package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/stylegenie/stylist-backend/internal/api"
	"github.com/stylegenie/stylist-backend/internal/auth"
	"github.com/stylegenie/stylist-backend/internal/bootstrap"
	"github.com/stylegenie/stylist-backend/internal/logging"
	"github.com/stylegenie/stylist-backend/internal/stylist"
)

// CLI flags
var (
	portFlag  int
	modelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "stylist-server",
	Short: "HTTP server for the StyleGenie stylist backend",
	Long: `Stylist Server exposes the profile, wardrobe, and AI stylist APIs
over HTTP. It talks to Aurora through the RDS Data API, DynamoDB for
recommendation history, and the Gemini API for outfit generation.

Examples:
  stylist-server
  stylist-server --port 9090
  stylist-server --model gemini-2.5-pro`,
	Run: runMain,
}

func init() {
	rootCmd.Flags().IntVar(&portFlag, "port", 8080, "Port to listen on")
	rootCmd.Flags().StringVarP(&modelFlag, "model", "m", stylist.DefaultModelName, "Gemini model to use")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	// Local development reads settings from a .env file; deployed
	// environments inject real env vars and skip this.
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err == nil {
			log.Debug().Msg("Loaded .env file")
		}
	}

	logging.Init()

	ctx := context.Background()

	if err := bootstrap.LoadGeminiKey(ctx); err != nil {
		log.Warn().Err(err).Msg("Could not load Gemini key from SSM; relying on environment")
	}
	apiKey, err := auth.GetAPIKey()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get API key")
	}

	client, err := stylist.NewGeminiClient(ctx, apiKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Gemini client")
	}
	if err := auth.ValidateAPIKey(ctx, client); err != nil {
		log.Fatal().Err(err).Msg("Invalid API key")
	}

	env, err := bootstrap.ReadEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid environment configuration")
	}
	clients, err := bootstrap.InitAWS(ctx, env)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize AWS clients")
	}

	model := modelFlag
	if model == stylist.DefaultModelName {
		model = stylist.GetModelName()
	}
	engine := stylist.NewGeminiEngine(client, model)
	service := stylist.NewService(clients.Store, clients.Store, engine, stylist.DefaultEngineTimeout)

	handler := &api.Handler{
		Recommender: service,
		Store:       clients.Store,
		History:     clients.History,
		Emitter:     clients.Emitter,
	}
	if clients.Presigner != nil {
		handler.Signer = clients.Presigner
	}

	logging.NewStartupLogger("stylist-server").
		Config("model", model).
		Config("database", env.Database).
		DynamoTable("history", env.HistoryTable).
		S3Bucket("images", env.ImageBucket).
		Feature("eventbridge", env.EventsOn).
		Log()

	addr := fmt.Sprintf(":%d", portFlag)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Int("port", portFlag).Str("model", model).Msg("Starting stylist server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
