package stylist

import "strings"

// RequiredProfileFields are the profile fields that must be present before a
// recommendation can be requested. Order is stable and matches the order of
// field names reported by MissingProfileFields.
var RequiredProfileFields = []string{"gender", "skin_tone", "face_shape", "body_shape"}

// skinToneMap translates the app's stored skin tone vocabulary into the
// vocabulary the engine contract recognizes. Lookup is case-insensitive.
var skinToneMap = map[string]string{
	"fair":   "white",
	"light":  "white",
	"medium": "wheat",
	"tan":    "tan",
	"olive":  "olive",
	"brown":  "brown",
	"dark":   "dark",
}

// NormalizeSkinTone maps a stored skin tone value to the engine's
// vocabulary. Unmapped values pass through verbatim and an empty input stays
// empty — normalization is silent best-effort, never an error. Already
// normalized values map to themselves, so the function is idempotent.
func NormalizeSkinTone(v string) string {
	if v == "" {
		return v
	}
	if mapped, ok := skinToneMap[strings.ToLower(v)]; ok {
		return mapped
	}
	return v
}

// MissingProfileFields returns the names of every required profile field
// that is empty, in RequiredProfileFields order. An empty result means the
// profile is complete enough to request a recommendation.
func MissingProfileFields(p Profile) []string {
	values := map[string]string{
		"gender":     p.Gender,
		"skin_tone":  p.SkinTone,
		"face_shape": p.FaceShape,
		"body_shape": p.BodyShape,
	}

	var missing []string
	for _, f := range RequiredProfileFields {
		if values[f] == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
