package stylist

import (
	"time"

	"github.com/rs/zerolog/log"
)

// eventTimeLayouts are the ISO-8601 shapes accepted for the event datetime,
// tried in order. RFC3339 covers UTC-offset suffixes like +06:00.
var eventTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseEventTime parses an ISO-8601 timestamp tolerantly. A malformed value
// returns nil: the request proceeds without a temporal context rather than
// failing the whole operation.
func parseEventTime(iso string) *time.Time {
	if iso == "" {
		return nil
	}
	for _, layout := range eventTimeLayouts {
		if t, err := time.Parse(layout, iso); err == nil {
			return &t
		}
	}
	log.Debug().Str("datetime", iso).Msg("Unparseable event datetime ignored")
	return nil
}

// BuildRequest assembles the engine request payload from a stored profile,
// the available wardrobe items, and the trip context. It fails with a
// *ValidationError when the profile is missing required fields or when no
// wardrobe items are available; both conditions are surfaced before any
// engine call is spent on a request that cannot succeed.
func BuildRequest(profile Profile, products []DrawerProduct, destination, occasion, datetimeISO string) (*Request, error) {
	if missing := MissingProfileFields(profile); len(missing) > 0 {
		return nil, &ValidationError{MissingFields: missing}
	}
	if len(products) == 0 {
		return nil, &ValidationError{Message: "no wardrobe items available; add at least one item"}
	}

	colors := []string{}
	if profile.StylePreferences != nil && profile.StylePreferences.Colors != nil {
		colors = profile.StylePreferences.Colors
	}

	return &Request{
		UserInfo: UserInfo{
			Gender:           profile.Gender,
			SkinTone:         NormalizeSkinTone(profile.SkinTone),
			ColorPreferences: colors,
			FaceShape:        profile.FaceShape,
			BodyShape:        profile.BodyShape,
		},
		DrawerProducts: products,
		Location:       destination,
		Occasion:       occasion,
		EventDatetime:  parseEventTime(datetimeISO),
	}, nil
}
