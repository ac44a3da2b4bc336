package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aseka33/nyumba-ai-marketplace/models"
)

const validAnalysisJSON = `{
	"room_type": "living room",
	"room_size": "medium",
	"current_style": "minimal",
	"lighting_condition": "bright natural light",
	"color_scheme": "neutral whites",
	"suggested_styles": ["modern african", "scandinavian"],
	"recommendations": [
		{
			"category": "Seating",
			"items": ["Fabric Sofa", "Accent Chair"],
			"reasoning": "The room lacks a focal seating arrangement",
			"price_range": "KES 25,000 - 60,000",
			"where_to_find": "Furniture workshops along Ngong Road"
		}
	],
	"product_placements": [
		{
			"category": "Seating",
			"product_name": "Fabric Sofa",
			"reason": "Anchors the room against the main wall",
			"priority": 1,
			"estimated_budget": "KES 45,000",
			"position": {"x": 50, "y": 65},
			"size": {"width": 35, "height": 30}
		}
	],
	"analysis_text": "A bright but sparsely furnished living room."
}`

func TestParseAnalysisResponseValid(t *testing.T) {
	payload, fine, err := ParseAnalysisResponse([]byte(validAnalysisJSON))
	require.NoError(t, err)

	assert.Equal(t, "living room", payload.RoomType)
	assert.Equal(t, []string{"modern african", "scandinavian"}, payload.SuggestedStyles)
	require.Len(t, payload.Recommendations, 1)
	assert.Equal(t, "Seating", payload.Recommendations[0].Category)
	assert.Equal(t, "KES 25,000 - 60,000", payload.Recommendations[0].PriceRangeHint)

	require.Len(t, fine, 1)
	assert.Equal(t, "Fabric Sofa", fine[0].ProductName)
	assert.InDelta(t, 50.0, fine[0].Position.X, 0.001)
	assert.InDelta(t, 30.0, fine[0].Size.Height, 0.001)
}

func TestParseAnalysisResponseRejectsInvalidJSON(t *testing.T) {
	_, _, err := ParseAnalysisResponse([]byte("I think this room needs a sofa"))
	var aerr *AnalysisError
	assert.ErrorAs(t, err, &aerr)
}

func TestParseAnalysisResponseRejectsUnknownFields(t *testing.T) {
	_, _, err := ParseAnalysisResponse([]byte(`{"room_type": "bedroom", "surprise": true, "recommendations": [{"category": "x"}]}`))
	var aerr *AnalysisError
	assert.ErrorAs(t, err, &aerr)
}

func TestParseAnalysisResponseRequiresRoomType(t *testing.T) {
	_, _, err := ParseAnalysisResponse([]byte(`{"room_type": "  ", "recommendations": [{"category": "Seating"}]}`))
	var aerr *AnalysisError
	assert.ErrorAs(t, err, &aerr)
}

func TestParseAnalysisResponseRequiresRecommendations(t *testing.T) {
	_, _, err := ParseAnalysisResponse([]byte(`{"room_type": "bedroom", "recommendations": []}`))
	var aerr *AnalysisError
	assert.ErrorAs(t, err, &aerr)
}

func TestParseAnalysisResponseRejectsOutOfRangePlacement(t *testing.T) {
	raw := `{
		"room_type": "bedroom",
		"recommendations": [{"category": "Seating"}],
		"product_placements": [{"product_name": "Sofa", "position": {"x": 150, "y": 50}, "size": {"width": 10, "height": 10}}]
	}`
	_, _, err := ParseAnalysisResponse([]byte(raw))
	var aerr *AnalysisError
	assert.ErrorAs(t, err, &aerr)
}

func TestBuildAnalysisPromptEmbedsPreferences(t *testing.T) {
	prompt := buildAnalysisPrompt(models.UserPreferences{
		BudgetTier:      models.BudgetTierEconomy,
		RoomType:        "bedroom",
		FavoriteColors:  []string{"teal", "white"},
		StylePreference: "bohemian",
	})

	assert.Contains(t, prompt, models.BudgetTierRangesKES[models.BudgetTierEconomy])
	assert.Contains(t, prompt, "bedroom")
	assert.Contains(t, prompt, "teal, white")
	assert.Contains(t, prompt, "bohemian")
}

func TestBuildAnalysisPromptDefaultsUnknownTier(t *testing.T) {
	prompt := buildAnalysisPrompt(models.UserPreferences{BudgetTier: "imaginary"})
	assert.Contains(t, prompt, models.BudgetTierRangesKES[models.BudgetTierMidRange])
}
