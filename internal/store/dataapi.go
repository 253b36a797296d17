package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rdsdata"
	rdsdatatypes "github.com/aws/aws-sdk-go-v2/service/rdsdata/types"
	"github.com/rs/zerolog/log"

	"github.com/stylegenie/stylist-backend/internal/stylist"
)

// DataAPIClient talks to Aurora PostgreSQL through the RDS Data API.
// There is no connection pool to manage; every statement is an HTTPS
// call authorized by the cluster and secret ARNs.
type DataAPIClient struct {
	client     *rdsdata.Client
	clusterARN string
	secretARN  string
	database   string
}

// Compile-time interface checks.
var (
	_ stylist.ProfileStore  = (*DataAPIClient)(nil)
	_ stylist.WardrobeStore = (*DataAPIClient)(nil)
)

func NewDataAPIClient(client *rdsdata.Client, clusterARN, secretARN, database string) *DataAPIClient {
	return &DataAPIClient{
		client:     client,
		clusterARN: clusterARN,
		secretARN:  secretARN,
		database:   database,
	}
}

func strParam(name, value string) rdsdatatypes.SqlParameter {
	return rdsdatatypes.SqlParameter{
		Name:  aws.String(name),
		Value: &rdsdatatypes.FieldMemberStringValue{Value: value},
	}
}

func longParam(name string, value int64) rdsdatatypes.SqlParameter {
	return rdsdatatypes.SqlParameter{
		Name:  aws.String(name),
		Value: &rdsdatatypes.FieldMemberLongValue{Value: value},
	}
}

func jsonParam(name, value string) rdsdatatypes.SqlParameter {
	return rdsdatatypes.SqlParameter{
		Name:     aws.String(name),
		Value:    &rdsdatatypes.FieldMemberStringValue{Value: value},
		TypeHint: rdsdatatypes.TypeHintJson,
	}
}

func (c *DataAPIClient) query(ctx context.Context, sql string, params []rdsdatatypes.SqlParameter) (*rdsdata.ExecuteStatementOutput, error) {
	return c.client.ExecuteStatement(ctx, &rdsdata.ExecuteStatementInput{
		ResourceArn: aws.String(c.clusterARN),
		SecretArn:   aws.String(c.secretARN),
		Database:    aws.String(c.database),
		Sql:         aws.String(sql),
		Parameters:  params,
	})
}

func (c *DataAPIClient) exec(ctx context.Context, sql string, params []rdsdatatypes.SqlParameter) error {
	_, err := c.query(ctx, sql, params)
	return err
}

// rowsFrom flattens a Data API result into name-keyed rows using the
// column metadata returned alongside the records.
func rowsFrom(result *rdsdata.ExecuteStatementOutput) []map[string]interface{} {
	rows := make([]map[string]interface{}, 0, len(result.Records))
	for _, rec := range result.Records {
		row := make(map[string]interface{})
		for i, col := range result.ColumnMetadata {
			if i >= len(rec) {
				break
			}
			name := aws.ToString(col.Name)
			switch v := rec[i].(type) {
			case *rdsdatatypes.FieldMemberStringValue:
				row[name] = v.Value
			case *rdsdatatypes.FieldMemberLongValue:
				row[name] = v.Value
			case *rdsdatatypes.FieldMemberBooleanValue:
				row[name] = v.Value
			case *rdsdatatypes.FieldMemberDoubleValue:
				row[name] = v.Value
			case *rdsdatatypes.FieldMemberIsNull:
				row[name] = nil
			default:
				row[name] = v
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func rowString(row map[string]interface{}, name string) string {
	if v, ok := row[name].(string); ok {
		return v
	}
	return ""
}

func rowInt64(row map[string]interface{}, name string) int64 {
	if v, ok := row[name].(int64); ok {
		return v
	}
	return 0
}

func rowStringSlice(row map[string]interface{}, name string) []string {
	// Stored as a jsonb array; the Data API returns it as a string.
	raw := rowString(row, name)
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

func rowJSONMap(row map[string]interface{}, name string) map[string]any {
	raw := rowString(row, name)
	if raw == "" || raw == "{}" {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}

// --- Users ---

func (c *DataAPIClient) GetUserRecord(ctx context.Context, userID int64) (*UserRecord, error) {
	result, err := c.query(ctx,
		`SELECT id, email, name, created_at::text FROM users WHERE id = :id`,
		[]rdsdatatypes.SqlParameter{longParam("id", userID)})
	if err != nil {
		log.Error().Err(err).Int64("userId", userID).Msg("GetUserRecord failed")
		return nil, fmt.Errorf("GetUserRecord: %w", err)
	}
	rows := rowsFrom(result)
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	return &UserRecord{
		ID:        rowInt64(row, "id"),
		Email:     rowString(row, "email"),
		Name:      rowString(row, "name"),
		CreatedAt: rowString(row, "created_at"),
	}, nil
}

// GetUser implements stylist.ProfileStore.
func (c *DataAPIClient) GetUser(ctx context.Context, userID int64) (*stylist.User, error) {
	rec, err := c.GetUserRecord(ctx, userID)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.ToUser(), nil
}

// --- Profiles ---

func (c *DataAPIClient) GetProfileRecord(ctx context.Context, userID int64) (*ProfileRecord, error) {
	result, err := c.query(ctx,
		`SELECT user_id, gender, skin_tone, face_shape, body_shape, color_preferences::text, updated_at::text
		 FROM profiles WHERE user_id = :user_id`,
		[]rdsdatatypes.SqlParameter{longParam("user_id", userID)})
	if err != nil {
		log.Error().Err(err).Int64("userId", userID).Msg("GetProfileRecord failed")
		return nil, fmt.Errorf("GetProfileRecord: %w", err)
	}
	rows := rowsFrom(result)
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	return &ProfileRecord{
		UserID:           rowInt64(row, "user_id"),
		Gender:           rowString(row, "gender"),
		SkinTone:         rowString(row, "skin_tone"),
		FaceShape:        rowString(row, "face_shape"),
		BodyShape:        rowString(row, "body_shape"),
		ColorPreferences: rowStringSlice(row, "color_preferences"),
		UpdatedAt:        rowString(row, "updated_at"),
	}, nil
}

// GetProfile implements stylist.ProfileStore.
func (c *DataAPIClient) GetProfile(ctx context.Context, userID int64) (*stylist.Profile, error) {
	rec, err := c.GetProfileRecord(ctx, userID)
	if err != nil || rec == nil {
		return nil, err
	}
	return rec.ToProfile(), nil
}

// UpsertProfile creates or updates the single profile row for a user.
func (c *DataAPIClient) UpsertProfile(ctx context.Context, p ProfileRecord) error {
	colors := "[]"
	if len(p.ColorPreferences) > 0 {
		b, _ := json.Marshal(p.ColorPreferences)
		colors = string(b)
	}
	sql := `INSERT INTO profiles (user_id, gender, skin_tone, face_shape, body_shape, color_preferences, updated_at)
		VALUES (:user_id, :gender, :skin_tone, :face_shape, :body_shape, :color_preferences::jsonb, :updated_at::timestamptz)
		ON CONFLICT (user_id) DO UPDATE SET
			gender = EXCLUDED.gender, skin_tone = EXCLUDED.skin_tone, face_shape = EXCLUDED.face_shape,
			body_shape = EXCLUDED.body_shape, color_preferences = EXCLUDED.color_preferences, updated_at = EXCLUDED.updated_at`
	params := []rdsdatatypes.SqlParameter{
		longParam("user_id", p.UserID),
		strParam("gender", p.Gender),
		strParam("skin_tone", p.SkinTone),
		strParam("face_shape", p.FaceShape),
		strParam("body_shape", p.BodyShape),
		jsonParam("color_preferences", colors),
		strParam("updated_at", nowISO()),
	}
	if err := c.exec(ctx, sql, params); err != nil {
		log.Error().Err(err).Int64("userId", p.UserID).Msg("UpsertProfile failed")
		return fmt.Errorf("UpsertProfile: %w", err)
	}
	return nil
}

// --- Wardrobe items ---

const wardrobeColumns = `id, user_id, name, title, color, category, description, image_url, attributes::text, created_at::text, updated_at::text`

func wardrobeItemFromRow(row map[string]interface{}) WardrobeItem {
	return WardrobeItem{
		ID:          rowInt64(row, "id"),
		UserID:      rowInt64(row, "user_id"),
		Name:        rowString(row, "name"),
		Title:       rowString(row, "title"),
		Color:       rowString(row, "color"),
		Category:    rowString(row, "category"),
		Description: rowString(row, "description"),
		ImageURL:    rowString(row, "image_url"),
		Attributes:  rowJSONMap(row, "attributes"),
		CreatedAt:   rowString(row, "created_at"),
		UpdatedAt:   rowString(row, "updated_at"),
	}
}

// ListWardrobeItems returns the user's most recent items, newest first.
func (c *DataAPIClient) ListWardrobeItems(ctx context.Context, userID int64, limit int) ([]WardrobeItem, error) {
	result, err := c.query(ctx,
		fmt.Sprintf(`SELECT %s FROM wardrobe_items WHERE user_id = :user_id ORDER BY id DESC LIMIT :lim`, wardrobeColumns),
		[]rdsdatatypes.SqlParameter{
			longParam("user_id", userID),
			longParam("lim", int64(limit)),
		})
	if err != nil {
		log.Error().Err(err).Int64("userId", userID).Msg("ListWardrobeItems failed")
		return nil, fmt.Errorf("ListWardrobeItems: %w", err)
	}
	rows := rowsFrom(result)
	items := make([]WardrobeItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, wardrobeItemFromRow(row))
	}
	return items, nil
}

// ListDrawerProducts implements stylist.WardrobeStore.
func (c *DataAPIClient) ListDrawerProducts(ctx context.Context, userID int64, limit int) ([]stylist.DrawerProduct, error) {
	items, err := c.ListWardrobeItems(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	return DrawerProducts(items), nil
}

func (c *DataAPIClient) GetWardrobeItem(ctx context.Context, userID, itemID int64) (*WardrobeItem, error) {
	result, err := c.query(ctx,
		fmt.Sprintf(`SELECT %s FROM wardrobe_items WHERE user_id = :user_id AND id = :id`, wardrobeColumns),
		[]rdsdatatypes.SqlParameter{
			longParam("user_id", userID),
			longParam("id", itemID),
		})
	if err != nil {
		log.Error().Err(err).Int64("userId", userID).Int64("itemId", itemID).Msg("GetWardrobeItem failed")
		return nil, fmt.Errorf("GetWardrobeItem: %w", err)
	}
	rows := rowsFrom(result)
	if len(rows) == 0 {
		return nil, nil
	}
	item := wardrobeItemFromRow(rows[0])
	return &item, nil
}

// CreateWardrobeItem inserts a new item and returns it with the
// generated id and timestamps.
func (c *DataAPIClient) CreateWardrobeItem(ctx context.Context, userID int64, in WardrobeItemInput) (*WardrobeItem, error) {
	now := nowISO()
	sql := fmt.Sprintf(`INSERT INTO wardrobe_items (user_id, name, title, color, category, description, image_url, attributes, created_at, updated_at)
		VALUES (:user_id, :name, :title, :color, :category, :description, :image_url, :attributes::jsonb, :now::timestamptz, :now::timestamptz)
		RETURNING %s`, wardrobeColumns)
	params := []rdsdatatypes.SqlParameter{
		longParam("user_id", userID),
		strParam("name", in.Name),
		strParam("title", in.Title),
		strParam("color", in.Color),
		strParam("category", in.Category),
		strParam("description", in.Description),
		strParam("image_url", in.ImageURL),
		jsonParam("attributes", attributesJSON(in.Attributes)),
		strParam("now", now),
	}
	result, err := c.query(ctx, sql, params)
	if err != nil {
		log.Error().Err(err).Int64("userId", userID).Msg("CreateWardrobeItem failed")
		return nil, fmt.Errorf("CreateWardrobeItem: %w", err)
	}
	rows := rowsFrom(result)
	if len(rows) == 0 {
		return nil, fmt.Errorf("CreateWardrobeItem: no row returned")
	}
	item := wardrobeItemFromRow(rows[0])
	log.Debug().Int64("userId", userID).Int64("itemId", item.ID).Str("category", item.Category).Msg("Wardrobe item created")
	return &item, nil
}

// UpdateWardrobeItem replaces the caller-settable fields of an item.
// Returns nil when the item does not exist for that user.
func (c *DataAPIClient) UpdateWardrobeItem(ctx context.Context, userID, itemID int64, in WardrobeItemInput) (*WardrobeItem, error) {
	sql := fmt.Sprintf(`UPDATE wardrobe_items SET
			name = :name, title = :title, color = :color, category = :category,
			description = :description, image_url = :image_url, attributes = :attributes::jsonb,
			updated_at = :now::timestamptz
		WHERE user_id = :user_id AND id = :id
		RETURNING %s`, wardrobeColumns)
	params := []rdsdatatypes.SqlParameter{
		strParam("name", in.Name),
		strParam("title", in.Title),
		strParam("color", in.Color),
		strParam("category", in.Category),
		strParam("description", in.Description),
		strParam("image_url", in.ImageURL),
		jsonParam("attributes", attributesJSON(in.Attributes)),
		strParam("now", nowISO()),
		longParam("user_id", userID),
		longParam("id", itemID),
	}
	result, err := c.query(ctx, sql, params)
	if err != nil {
		log.Error().Err(err).Int64("userId", userID).Int64("itemId", itemID).Msg("UpdateWardrobeItem failed")
		return nil, fmt.Errorf("UpdateWardrobeItem: %w", err)
	}
	rows := rowsFrom(result)
	if len(rows) == 0 {
		return nil, nil
	}
	item := wardrobeItemFromRow(rows[0])
	return &item, nil
}

// DeleteWardrobeItem removes an item. Returns false when nothing
// matched the user and item ids.
func (c *DataAPIClient) DeleteWardrobeItem(ctx context.Context, userID, itemID int64) (bool, error) {
	result, err := c.query(ctx,
		`DELETE FROM wardrobe_items WHERE user_id = :user_id AND id = :id RETURNING id`,
		[]rdsdatatypes.SqlParameter{
			longParam("user_id", userID),
			longParam("id", itemID),
		})
	if err != nil {
		log.Error().Err(err).Int64("userId", userID).Int64("itemId", itemID).Msg("DeleteWardrobeItem failed")
		return false, fmt.Errorf("DeleteWardrobeItem: %w", err)
	}
	return len(result.Records) > 0, nil
}
