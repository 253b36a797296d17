package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DynamoDB key constants for the single-table design.
const (
	pkPrefix = "USER#"
	skRec    = "REC#"

	// HistoryTTL bounds how long saved recommendation runs are kept.
	HistoryTTL = 90 * 24 * time.Hour

	// defaultHistoryLimit caps a history listing when the caller does
	// not ask for a specific page size.
	defaultHistoryLimit = 50
)

// HistoryStore persists recommendation runs so users can revisit
// past outfits.
type HistoryStore interface {
	PutRecommendation(ctx context.Context, rec *RecommendationRecord) error
	ListRecommendations(ctx context.Context, userID int64, limit int) ([]*RecommendationRecord, error)
}

// DynamoHistoryStore implements HistoryStore on a single DynamoDB table.
type DynamoHistoryStore struct {
	client    *dynamodb.Client
	tableName string
}

// Compile-time interface check.
var _ HistoryStore = (*DynamoHistoryStore)(nil)

// NewDynamoHistoryStore creates a store for the given table.
// The client should be initialized from the shared AWS config.
func NewDynamoHistoryStore(client *dynamodb.Client, tableName string) *DynamoHistoryStore {
	return &DynamoHistoryStore{
		client:    client,
		tableName: tableName,
	}
}

func userPK(userID int64) string {
	return pkPrefix + strconv.FormatInt(userID, 10)
}

// recSK builds a sort key that orders runs chronologically, so a
// descending query returns the most recent runs first.
func recSK(createdAt int64, id string) string {
	return fmt.Sprintf("%s%010d#%s", skRec, createdAt, id)
}

func expiresAt() int64 {
	return time.Now().Add(HistoryTTL).Unix()
}

// PutRecommendation writes one run under PK USER#<id>,
// SK REC#<createdAt>#<uuid>. An empty record ID gets a generated
// UUID; CreatedAt defaults to now.
func (s *DynamoHistoryStore) PutRecommendation(ctx context.Context, rec *RecommendationRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt == 0 {
		rec.CreatedAt = time.Now().Unix()
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal recommendation %s: %w", rec.ID, err)
	}
	item["PK"] = &types.AttributeValueMemberS{Value: userPK(rec.UserID)}
	item["SK"] = &types.AttributeValueMemberS{Value: recSK(rec.CreatedAt, rec.ID)}
	item["expiresAt"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(expiresAt(), 10)}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.tableName,
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put recommendation %s for user %d: %w", rec.ID, rec.UserID, err)
	}

	log.Debug().
		Int64("userId", rec.UserID).
		Str("recordId", rec.ID).
		Int("outfits", len(rec.Recommendations)).
		Msg("Recommendation run persisted to DynamoDB")
	return nil
}

// ListRecommendations returns the user's saved runs, newest first.
func (s *DynamoHistoryStore) ListRecommendations(ctx context.Context, userID int64, limit int) ([]*RecommendationRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              &s.tableName,
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :skPrefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":       &types.AttributeValueMemberS{Value: userPK(userID)},
			":skPrefix": &types.AttributeValueMemberS{Value: skRec},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(limit)),
	})
	if err != nil {
		return nil, fmt.Errorf("query recommendations for user %d: %w", userID, err)
	}

	records := make([]*RecommendationRecord, 0, len(result.Items))
	for _, item := range result.Items {
		var rec RecommendationRecord
		if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
			log.Warn().Err(err).Int64("userId", userID).Msg("Failed to unmarshal recommendation record, skipping")
			continue
		}

		// Derive ID from SK: "REC#<createdAt>#<uuid>" -> "<uuid>".
		if skAttr, ok := item["SK"].(*types.AttributeValueMemberS); ok {
			suffix := strings.TrimPrefix(skAttr.Value, skRec)
			if idx := strings.Index(suffix, "#"); idx >= 0 {
				rec.ID = suffix[idx+1:]
			} else {
				rec.ID = suffix
			}
		}
		rec.UserID = userID
		records = append(records, &rec)
	}

	return records, nil
}
