// Package store persists users, profiles, wardrobe items, and
// recommendation history. Relational data lives in Aurora PostgreSQL
// behind the RDS Data API; recommendation history lives in DynamoDB.
package store

import (
	"encoding/json"
	"time"

	"github.com/stylegenie/stylist-backend/internal/stylist"
)

// UserRecord is a row in the users table.
type UserRecord struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ProfileRecord is a row in the profiles table. Exactly one per user.
type ProfileRecord struct {
	UserID           int64    `json:"user_id"`
	Gender           string   `json:"gender"`
	SkinTone         string   `json:"skin_tone"`
	FaceShape        string   `json:"face_shape"`
	BodyShape        string   `json:"body_shape"`
	ColorPreferences []string `json:"color_preferences"`
	UpdatedAt        string   `json:"updated_at,omitempty"`
}

// WardrobeItem is a row in the wardrobe_items table. Attributes holds
// free-form item metadata (brand, fabric, season) as a JSON object.
type WardrobeItem struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	Name        string         `json:"name,omitempty"`
	Title       string         `json:"title,omitempty"`
	Color       string         `json:"color,omitempty"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	ImageURL    string         `json:"image_url,omitempty"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	CreatedAt   string         `json:"created_at,omitempty"`
	UpdatedAt   string         `json:"updated_at,omitempty"`
}

// WardrobeItemInput carries the caller-settable fields for create and
// update operations.
type WardrobeItemInput struct {
	Name        string         `json:"name"`
	Title       string         `json:"title"`
	Color       string         `json:"color"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	ImageURL    string         `json:"image_url"`
	Attributes  map[string]any `json:"attributes"`
}

// RecommendationRecord is one saved stylist run, stored in DynamoDB.
type RecommendationRecord struct {
	ID              string                   `json:"id" dynamodbav:"-"`
	UserID          int64                    `json:"user_id" dynamodbav:"-"`
	SessionID       string                   `json:"session_id" dynamodbav:"sessionId"`
	Destination     string                   `json:"destination,omitempty" dynamodbav:"destination,omitempty"`
	Occasion        string                   `json:"occasion,omitempty" dynamodbav:"occasion,omitempty"`
	EventDatetime   string                   `json:"event_datetime,omitempty" dynamodbav:"eventDatetime,omitempty"`
	Recommendations []stylist.Recommendation `json:"recommendations" dynamodbav:"recommendations"`
	CreatedAt       int64                    `json:"created_at" dynamodbav:"createdAt"`
}

// ToUser converts a row to the stylist domain type.
func (u *UserRecord) ToUser() *stylist.User {
	return &stylist.User{ID: u.ID, Email: u.Email, Name: u.Name}
}

// ToProfile converts a row to the stylist domain type.
func (p *ProfileRecord) ToProfile() *stylist.Profile {
	prof := &stylist.Profile{
		Gender:    p.Gender,
		SkinTone:  p.SkinTone,
		FaceShape: p.FaceShape,
		BodyShape: p.BodyShape,
	}
	if len(p.ColorPreferences) > 0 {
		prof.StylePreferences = &stylist.StylePreferences{Colors: p.ColorPreferences}
	}
	return prof
}

// ToDrawerProduct converts a wardrobe row to the payload shape the
// stylist engine consumes. The image URL is intentionally dropped; the
// model only needs textual attributes.
func (w *WardrobeItem) ToDrawerProduct() stylist.DrawerProduct {
	p := stylist.DrawerProduct{
		ID:          w.ID,
		Name:        w.Name,
		Title:       w.Title,
		Color:       w.Color,
		Category:    w.Category,
		Description: w.Description,
	}
	if len(w.Attributes) > 0 {
		p.Extra = make(map[string]any, len(w.Attributes))
		for k, v := range w.Attributes {
			p.Extra[k] = v
		}
	}
	return p
}

// DrawerProducts converts a slice of wardrobe rows.
func DrawerProducts(items []WardrobeItem) []stylist.DrawerProduct {
	out := make([]stylist.DrawerProduct, 0, len(items))
	for i := range items {
		out = append(out, items[i].ToDrawerProduct())
	}
	return out
}

// attributesJSON serializes the free-form attributes map for storage.
// Returns "{}" for an empty map so the jsonb column never sees NULL.
func attributesJSON(attrs map[string]any) string {
	if len(attrs) == 0 {
		return "{}"
	}
	b, err := json.Marshal(attrs)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// nowISO returns the current time formatted for timestamptz columns.
func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
