package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/aseka33/nyumba-ai-marketplace/models"
)

// Analyzer turns a room frame plus user preferences into a structured design
// analysis. One parse step yields two shapes: the coarse payload for the
// Resolver and the fine placement recommendations for the Compositor.
type Analyzer interface {
	Analyze(ctx context.Context, frame []byte, prefs models.UserPreferences) (*AnalysisPayload, []FineRecommendation, error)
}

// GeminiAnalyzer calls a vision-capable Gemini model with a strict JSON
// response schema so no free-text parsing is needed downstream.
type GeminiAnalyzer struct {
	APIKey string
	Model  string
}

// analysisResponse is the wire shape the model is constrained to return.
type analysisResponse struct {
	AnalysisPayload
	ProductPlacements []FineRecommendation `json:"product_placements"`
}

// Analyze sends the frame and preferences to Gemini. A single attempt is
// made per analysis run; any failure is an AnalysisError and is terminal for
// the asset.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, frame []byte, prefs models.UserPreferences) (*AnalysisPayload, []FineRecommendation, error) {
	if a.APIKey == "" {
		return nil, nil, &AnalysisError{Err: fmt.Errorf("GEMINI_API_KEY is not set")}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(a.APIKey))
	if err != nil {
		return nil, nil, &AnalysisError{Err: fmt.Errorf("failed to create Gemini client: %w", err)}
	}
	defer client.Close()

	model := client.GenerativeModel(a.Model)
	model.GenerationConfig.ResponseMIMEType = "application/json"
	model.GenerationConfig.ResponseSchema = analysisSchema()

	parts := []genai.Part{
		genai.Text(buildAnalysisPrompt(prefs)),
		genai.ImageData("jpeg", frame),
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, nil, &AnalysisError{Err: fmt.Errorf("vision model call failed: %w", err)}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, nil, &AnalysisError{Err: fmt.Errorf("vision model returned no content")}
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, nil, &AnalysisError{Err: fmt.Errorf("vision model returned a non-text part %T", resp.Candidates[0].Content.Parts[0])}
	}

	return ParseAnalysisResponse([]byte(text))
}

// ParseAnalysisResponse validates and splits the model's JSON output into the
// coarse payload and the fine placement recommendations.
func ParseAnalysisResponse(raw []byte) (*AnalysisPayload, []FineRecommendation, error) {
	var parsed analysisResponse
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&parsed); err != nil {
		return nil, nil, &AnalysisError{Err: fmt.Errorf("response is not schema-conforming JSON: %w", err)}
	}

	if strings.TrimSpace(parsed.RoomType) == "" {
		return nil, nil, &AnalysisError{Err: fmt.Errorf("response missing room_type")}
	}
	if len(parsed.Recommendations) == 0 {
		return nil, nil, &AnalysisError{Err: fmt.Errorf("response contains no recommendations")}
	}
	for i, fine := range parsed.ProductPlacements {
		if fine.Position.X < 0 || fine.Position.X > 100 || fine.Position.Y < 0 || fine.Position.Y > 100 {
			return nil, nil, &AnalysisError{Err: fmt.Errorf("placement %d position out of range", i)}
		}
		if fine.Size.Width < 0 || fine.Size.Width > 100 || fine.Size.Height < 0 || fine.Size.Height > 100 {
			return nil, nil, &AnalysisError{Err: fmt.Errorf("placement %d size out of range", i)}
		}
	}

	payload := parsed.AnalysisPayload
	return &payload, parsed.ProductPlacements, nil
}

// buildAnalysisPrompt embeds the user's budget, room and style preferences.
// The model is directed towards items available in Kenyan retail so the
// Resolver has realistic names and categories to match against.
func buildAnalysisPrompt(prefs models.UserPreferences) string {
	tier := prefs.BudgetTier
	tierRange, ok := models.BudgetTierRangesKES[tier]
	if !ok {
		tier = models.BudgetTierMidRange
		tierRange = models.BudgetTierRangesKES[tier]
	}

	colors := strings.Join(prefs.FavoriteColors, ", ")
	if colors == "" {
		colors = "no preference"
	}
	priorities := strings.Join(prefs.Priorities, ", ")
	if priorities == "" {
		priorities = "overall improvement"
	}

	return fmt.Sprintf(`You are an interior designer working in the Kenyan market.
Analyze the attached room photo and propose improvements tailored to the user below.

User preferences:
- Budget tier: %s (%s)
- Room type: %s
- Space size: %s
- Favorite colors: %s
- Style preference: %s
- Priorities: %s

Recommend furniture and decor that is culturally relevant and commonly available
from Kenyan retailers and workshops (e.g. locally made hardwood furniture, kiondo
baskets, kitenge textiles). All prices must be in Kenyan Shillings and within the
budget tier range.

For product_placements, give each named product a position (center point) and size
as percentages of the room image width and height, between 0 and 100.`,
		tier, tierRange,
		valueOr(prefs.RoomType, "unknown"),
		valueOr(prefs.SpaceSize, "unknown"),
		colors,
		valueOr(prefs.StylePreference, "no preference"),
		priorities,
	)
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// analysisSchema constrains the model output: every field required, no
// additional properties.
func analysisSchema() *genai.Schema {
	stringType := &genai.Schema{Type: genai.TypeString}
	stringList := &genai.Schema{Type: genai.TypeArray, Items: stringType}
	percent := &genai.Schema{Type: genai.TypeNumber}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"room_type":          stringType,
			"room_size":          stringType,
			"current_style":      stringType,
			"lighting_condition": stringType,
			"color_scheme":       stringType,
			"suggested_styles":   stringList,
			"recommendations": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"category":      stringType,
						"items":         stringList,
						"reasoning":     stringType,
						"price_range":   stringType,
						"where_to_find": stringType,
					},
					Required: []string{"category", "items", "reasoning", "price_range", "where_to_find"},
				},
			},
			"product_placements": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"category":         stringType,
						"product_name":     stringType,
						"reason":           stringType,
						"priority":         {Type: genai.TypeInteger},
						"estimated_budget": stringType,
						"position": {
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"x": percent,
								"y": percent,
							},
							Required: []string{"x", "y"},
						},
						"size": {
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"width":  percent,
								"height": percent,
							},
							Required: []string{"width", "height"},
						},
					},
					Required: []string{"category", "product_name", "reason", "priority", "estimated_budget", "position", "size"},
				},
			},
			"analysis_text": stringType,
		},
		Required: []string{
			"room_type", "room_size", "current_style", "lighting_condition",
			"color_scheme", "suggested_styles", "recommendations",
			"product_placements", "analysis_text",
		},
	}
}
