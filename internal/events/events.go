// Package events publishes domain events to Amazon EventBridge so
// downstream consumers (analytics, notifications) can react to
// stylist activity without coupling to this service.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	eventbridgetypes "github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/rs/zerolog/log"
)

const (
	eventSource = "stylegenie.stylist"

	// DetailTypeRecommendationGenerated is emitted after a successful
	// stylist run.
	DetailTypeRecommendationGenerated = "RecommendationGenerated"
)

// RecommendationGenerated is the event detail for a completed run.
type RecommendationGenerated struct {
	UserID        int64  `json:"userId"`
	SessionID     string `json:"sessionId,omitempty"`
	RecordID      string `json:"recordId,omitempty"`
	Destination   string `json:"destination,omitempty"`
	Occasion      string `json:"occasion,omitempty"`
	EventDatetime string `json:"eventDatetime,omitempty"`
	OutfitCount   int    `json:"outfitCount"`
	ModelName     string `json:"modelName,omitempty"`
}

// Emitter publishes events. Implementations must be safe for
// concurrent use.
type Emitter interface {
	EmitRecommendationGenerated(ctx context.Context, event RecommendationGenerated) error
}

// EventBridgeEmitter publishes to the account's default event bus.
type EventBridgeEmitter struct {
	client *eventbridge.Client
}

var _ Emitter = (*EventBridgeEmitter)(nil)

func NewEventBridgeEmitter(client *eventbridge.Client) *EventBridgeEmitter {
	return &EventBridgeEmitter{client: client}
}

func (e *EventBridgeEmitter) EmitRecommendationGenerated(ctx context.Context, event RecommendationGenerated) error {
	detail, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal RecommendationGenerated: %w", err)
	}

	input := &eventbridge.PutEventsInput{
		Entries: []eventbridgetypes.PutEventsRequestEntry{
			{
				Source:     aws.String(eventSource),
				DetailType: aws.String(DetailTypeRecommendationGenerated),
				Detail:     aws.String(string(detail)),
			},
		},
	}

	result, err := e.client.PutEvents(ctx, input)
	if err != nil {
		log.Error().Err(err).Int64("userId", event.UserID).Str("sessionId", event.SessionID).Msg("EventBridge PutEvents failed")
		return fmt.Errorf("PutEvents: %w", err)
	}

	if result.FailedEntryCount > 0 {
		for i, entry := range result.Entries {
			if entry.ErrorCode != nil || entry.ErrorMessage != nil {
				log.Error().
					Int("index", i).
					Str("errorCode", aws.ToString(entry.ErrorCode)).
					Str("errorMessage", aws.ToString(entry.ErrorMessage)).
					Int64("userId", event.UserID).
					Msg("EventBridge PutEvents entry failed")
				return fmt.Errorf("PutEvents entry %d failed: %s - %s", i, aws.ToString(entry.ErrorCode), aws.ToString(entry.ErrorMessage))
			}
		}
	}

	log.Debug().Int64("userId", event.UserID).Int("outfits", event.OutfitCount).Msg("RecommendationGenerated emitted to EventBridge")
	return nil
}

// NopEmitter discards events. Used when EventBridge is not configured,
// such as local development.
type NopEmitter struct{}

var _ Emitter = (*NopEmitter)(nil)

func (NopEmitter) EmitRecommendationGenerated(context.Context, RecommendationGenerated) error {
	return nil
}
