// Package stylist implements the outfit recommendation pipeline: it gathers
// a user's profile and wardrobe, normalizes stored vocabulary into the
// vocabulary the recommendation engine expects, builds a typed request
// payload, invokes Gemini under a forced output schema, and validates the
// structured response before returning it to callers.
package stylist

import (
	"encoding/json"
	"fmt"
	"time"
)

// User is the read-only user record the pipeline consumes.
type User struct {
	ID    int64
	Email string
	Name  string
}

// StylePreferences is the optional nested preferences structure stored on a
// profile. Only colors participate in the recommendation payload.
type StylePreferences struct {
	Colors []string `json:"colors"`
}

// Profile holds the stored physical/style attributes used to personalize
// recommendations. Field values use the app's stored vocabulary; skin tone
// is translated to engine vocabulary when the request payload is built.
type Profile struct {
	Gender           string
	SkinTone         string
	FaceShape        string
	BodyShape        string
	StylePreferences *StylePreferences
}

// UserInfo is the user attribute block of the engine request payload.
type UserInfo struct {
	Gender           string   `json:"gender"`
	SkinTone         string   `json:"skin_tone"`
	ColorPreferences []string `json:"color_preferences"`
	FaceShape        string   `json:"face_shape,omitempty"`
	BodyShape        string   `json:"body_shape,omitempty"`
}

// DrawerProduct is one wardrobe item in the request payload. A fixed set of
// named fields covers the attributes the engine is instructed about; Extra
// carries any additional descriptive keys supplied by the caller so the
// payload does not need to stay in perfect sync with the storage schema.
//
// Category and Description always serialize (empty string, never null, when
// absent); the remaining optional fields are omitted when empty.
type DrawerProduct struct {
	ID          int64
	Name        string
	Title       string
	Color       string
	Category    string
	Description string
	Extra       map[string]any
}

// MarshalJSON inlines Extra alongside the named fields.
func (p DrawerProduct) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extra)+6)
	for k, v := range p.Extra {
		m[k] = v
	}
	m["id"] = p.ID
	if p.Name != "" {
		m["name"] = p.Name
	}
	if p.Title != "" {
		m["title"] = p.Title
	}
	if p.Color != "" {
		m["color"] = p.Color
	}
	m["category"] = p.Category
	m["description"] = p.Description
	return json.Marshal(m)
}

// UnmarshalJSON splits known keys from the open remainder.
func (p *DrawerProduct) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	take := func(key string, dst any) error {
		raw, ok := m[key]
		if !ok {
			return nil
		}
		delete(m, key)
		return json.Unmarshal(raw, dst)
	}

	if err := take("id", &p.ID); err != nil {
		return fmt.Errorf("drawer product id: %w", err)
	}
	for key, dst := range map[string]*string{
		"name":        &p.Name,
		"title":       &p.Title,
		"color":       &p.Color,
		"category":    &p.Category,
		"description": &p.Description,
	} {
		if err := take(key, dst); err != nil {
			return fmt.Errorf("drawer product %s: %w", key, err)
		}
	}

	if len(m) > 0 {
		p.Extra = make(map[string]any, len(m))
		for k, raw := range m {
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("drawer product %s: %w", k, err)
			}
			p.Extra[k] = v
		}
	}
	return nil
}

// Request is the full payload sent to the recommendation engine. Constructed
// per call by BuildRequest and discarded after the response is returned.
type Request struct {
	UserInfo       UserInfo        `json:"user_info"`
	DrawerProducts []DrawerProduct `json:"drawer_products"`
	Location       string          `json:"location,omitempty"`
	Occasion       string          `json:"occasion,omitempty"`
	EventDatetime  *time.Time      `json:"datetime,omitempty"`
}

// Recommendation is one proposed outfit from the engine.
type Recommendation struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ProductIDs  []int64 `json:"product_ids"`
}

// AIRecommendations is the engine's complete structured response. The engine
// is instructed to return exactly five recommendations; the type does not
// mechanically enforce the count.
type AIRecommendations struct {
	Recommendations []Recommendation `json:"recommendations"`
}
