package stylist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/stylegenie/stylist-backend/internal/jsonutil"
	"github.com/stylegenie/stylist-backend/internal/metrics"
)

// systemInstruction is the fixed behavior contract given to the engine for
// every call. The payload shape it names must stay in sync with Request.
const systemInstruction = `You are an AI personal stylist for an app called StyleGenie.

You receive a single JSON payload with:
- user_info {gender, skin_tone, color_preferences, face_shape, body_shape}
- drawer_products: array of wardrobe items the user actually owns (each has an id)
- location: trip destination / city (e.g. "Dhaka", "NYC")
- occasion: what they are dressing for (e.g. "business meeting", "wedding", "date night")
- datetime: ISO8601 timestamp for when the user will wear the outfit
  (You or the calling system can use this with the location to infer weather/season/time-of-day.)

Your job:
- Propose 5 complete outfits using ONLY items from drawer_products.
- For each outfit, select relevant product_ids from drawer_products.
- Give each outfit a short, catchy name.
- Write a detailed, friendly description that explains WHY this outfit works.
  - When helpful, mention: body shape, face shape, skin tone, location, weather/season,
    time of day, and occasion (but don't force all of them every time if unnatural).
- DO NOT invent new products. Use only ids that actually exist in drawer_products.

You MUST answer strictly in this schema:

{
  "recommendations": [
    {
      "name": string,
      "description": string,
      "product_ids": int[]
    }
  ]
}

No extra keys, no comments, no markdown, no natural language outside this JSON.`

// engineTemperature is fixed at moderate variability: outfit suggestions
// should vary between calls without drifting off the supplied wardrobe.
const engineTemperature float32 = 0.7

// Engine produces outfit recommendations for a request payload. sessionID
// is a caller-supplied thread identifier passed through for downstream
// conversation continuity; implementations do not rely on it for
// correctness.
type Engine interface {
	Recommend(ctx context.Context, req *Request, sessionID string) (*AIRecommendations, error)
}

// GeminiEngine invokes the Gemini API with the fixed stylist instruction and
// a response schema that forces AIRecommendations-shaped output. One request
// is one opaque GenerateContent call — no retries beyond the transport's own.
type GeminiEngine struct {
	client *genai.Client
	model  string
}

// Compile-time interface check.
var _ Engine = (*GeminiEngine)(nil)

// NewGeminiEngine creates an engine on an explicitly constructed client.
// An empty model resolves through GetModelName.
func NewGeminiEngine(client *genai.Client, model string) *GeminiEngine {
	if model == "" {
		model = GetModelName()
	}
	return &GeminiEngine{client: client, model: model}
}

// responseSchema constrains the engine output to exactly the
// AIRecommendations shape — no free text, no additional keys.
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"recommendations"},
		Properties: map[string]*genai.Schema{
			"recommendations": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type:     genai.TypeObject,
					Required: []string{"name", "description", "product_ids"},
					Properties: map[string]*genai.Schema{
						"name":        {Type: genai.TypeString},
						"description": {Type: genai.TypeString},
						"product_ids": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeInteger},
						},
					},
				},
			},
		},
	}
}

// Recommend serializes the request as the sole user turn and unwraps the
// structured result. Any transport failure, empty response, schema-invalid
// JSON, or product id outside the originating request surfaces as an
// *EngineError.
func (e *GeminiEngine) Recommend(ctx context.Context, req *Request, sessionID string) (*AIRecommendations, error) {
	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, &EngineError{Message: "serialize request payload", Err: err}
	}

	userMessage := fmt.Sprintf(
		"Here is the styling payload. Use it to generate outfit recommendations.\n\n```json\n%s\n```",
		payload,
	)

	temp := engineTemperature
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}
	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: userMessage}}}}

	log.Debug().
		Str("model", e.model).
		Str("sessionId", sessionID).
		Int("drawerProducts", len(req.DrawerProducts)).
		Msg("Sending styling payload to Gemini")

	start := time.Now()
	resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, config)
	elapsed := time.Since(start)

	m := metrics.New(metrics.Namespace).
		Dimension("Operation", "recommend").
		Metric("GeminiApiLatencyMs", float64(elapsed.Milliseconds()), metrics.UnitMilliseconds).
		Count("GeminiApiCalls").
		Property("sessionId", sessionID)
	if err != nil {
		m.Count("GeminiApiErrors")
	}
	if resp != nil && resp.UsageMetadata != nil {
		m.Metric("GeminiInputTokens", float64(resp.UsageMetadata.PromptTokenCount), metrics.UnitCount)
		m.Metric("GeminiOutputTokens", float64(resp.UsageMetadata.CandidatesTokenCount), metrics.UnitCount)
	}
	m.Flush()

	if err != nil {
		log.Error().Err(err).Dur("duration", elapsed).Msg("Gemini recommendation call failed")
		return nil, &EngineError{Message: "generate recommendations", Err: err}
	}
	if resp == nil || resp.Text() == "" {
		log.Warn().Dur("duration", elapsed).Msg("Received empty response from Gemini")
		return nil, &EngineError{Message: "empty response from Gemini API"}
	}

	recs, err := jsonutil.ParseJSON[AIRecommendations](resp.Text())
	if err != nil {
		return nil, &EngineError{Message: "parse recommendations response", Err: err}
	}

	if err := checkProductIDs(req, &recs); err != nil {
		return nil, err
	}

	log.Info().
		Int("recommendations", len(recs.Recommendations)).
		Dur("duration", elapsed).
		Msg("Outfit recommendations generated")

	return &recs, nil
}

// checkProductIDs enforces the round-trip contract: every product id in the
// response must appear among the drawer product ids supplied in the
// originating request. An id outside that set means the engine ignored its
// instruction, and the response is rejected rather than silently filtered.
func checkProductIDs(req *Request, recs *AIRecommendations) error {
	known := make(map[int64]bool, len(req.DrawerProducts))
	for _, p := range req.DrawerProducts {
		known[p.ID] = true
	}

	for _, rec := range recs.Recommendations {
		for _, id := range rec.ProductIDs {
			if !known[id] {
				log.Warn().
					Int64("productId", id).
					Str("outfit", rec.Name).
					Msg("Engine referenced a product id not present in the request")
				return &EngineError{
					Message: fmt.Sprintf("engine returned unknown product id %d in outfit %q", id, rec.Name),
				}
			}
		}
	}
	return nil
}
