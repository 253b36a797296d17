// Package bootstrap wires AWS clients and configuration shared by the
// server and Lambda entrypoints.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/rdsdata"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/rs/zerolog/log"

	"github.com/stylegenie/stylist-backend/internal/events"
	"github.com/stylegenie/stylist-backend/internal/s3util"
	"github.com/stylegenie/stylist-backend/internal/store"
)

// defaultSSMKeyParam is where deployments store the Gemini API key.
const defaultSSMKeyParam = "/stylegenie/prod/gemini-api-key"

// Env holds the environment-driven settings both entrypoints read.
type Env struct {
	ClusterARN   string // AURORA_CLUSTER_ARN
	SecretARN    string // AURORA_SECRET_ARN
	Database     string // AURORA_DATABASE
	HistoryTable string // HISTORY_TABLE_NAME (optional)
	ImageBucket  string // IMAGE_BUCKET_NAME (optional)
	EventsOn     bool   // EVENTBRIDGE_ENABLED
}

// ReadEnv collects settings from the environment. Required relational
// settings missing here fail fast at startup, not on first request.
func ReadEnv() (*Env, error) {
	env := &Env{
		ClusterARN:   os.Getenv("AURORA_CLUSTER_ARN"),
		SecretARN:    os.Getenv("AURORA_SECRET_ARN"),
		Database:     os.Getenv("AURORA_DATABASE"),
		HistoryTable: os.Getenv("HISTORY_TABLE_NAME"),
		ImageBucket:  os.Getenv("IMAGE_BUCKET_NAME"),
		EventsOn:     os.Getenv("EVENTBRIDGE_ENABLED") == "true",
	}
	if env.Database == "" {
		env.Database = "stylegenie"
	}
	if env.ClusterARN == "" || env.SecretARN == "" {
		return nil, fmt.Errorf("AURORA_CLUSTER_ARN and AURORA_SECRET_ARN are required")
	}
	return env, nil
}

// Clients bundles everything the API layer depends on.
type Clients struct {
	Store     *store.DataAPIClient
	History   store.HistoryStore
	Presigner *s3util.Presigner
	Emitter   events.Emitter
}

// InitAWS loads the default AWS config and builds the service clients
// declared by the environment. Optional pieces (history table, image
// bucket, EventBridge) degrade to nil or no-op when unconfigured.
func InitAWS(ctx context.Context, env *Env) (*Clients, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	clients := &Clients{
		Store: store.NewDataAPIClient(rdsdata.NewFromConfig(cfg), env.ClusterARN, env.SecretARN, env.Database),
	}

	if env.HistoryTable != "" {
		clients.History = store.NewDynamoHistoryStore(dynamodb.NewFromConfig(cfg), env.HistoryTable)
	} else {
		log.Warn().Msg("HISTORY_TABLE_NAME not set; recommendation history disabled")
	}

	if env.ImageBucket != "" {
		clients.Presigner = s3util.NewPresigner(s3.NewFromConfig(cfg), env.ImageBucket)
	} else {
		log.Warn().Msg("IMAGE_BUCKET_NAME not set; wardrobe photo uploads disabled")
	}

	if env.EventsOn {
		clients.Emitter = events.NewEventBridgeEmitter(eventbridge.NewFromConfig(cfg))
	} else {
		clients.Emitter = events.NopEmitter{}
	}

	return clients, nil
}

// LoadGeminiKey populates GEMINI_API_KEY from SSM Parameter Store when
// the environment does not already carry it. The parameter name
// defaults to the production path and can be overridden with
// SSM_API_KEY_PARAM.
func LoadGeminiKey(ctx context.Context) error {
	if os.Getenv("GEMINI_API_KEY") != "" {
		return nil
	}

	paramName := os.Getenv("SSM_API_KEY_PARAM")
	if paramName == "" {
		paramName = defaultSSMKeyParam
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}

	ssmClient := ssm.NewFromConfig(cfg)
	result, err := ssmClient.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &paramName,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("read API key from SSM parameter %s: %w", paramName, err)
	}

	os.Setenv("GEMINI_API_KEY", *result.Parameter.Value)
	log.Debug().Str("param", paramName).Msg("Gemini API key loaded from SSM")
	return nil
}
