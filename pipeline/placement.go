package pipeline

import (
	"strings"

	"github.com/aseka33/nyumba-ai-marketplace/models"
)

const maxPlacementsPerGroup = 2

// zoneTemplates maps a normalized room-type key to an ordered list of hotspot
// anchors, as percentages of the frame. Static configuration data: lookup
// misses fall through to the default template.
var zoneTemplates = map[string][]models.Placement{
	"living room": {
		{X: 30, Y: 65}, // main seating
		{X: 50, Y: 55}, // center / coffee table
		{X: 70, Y: 60}, // secondary seating
		{X: 20, Y: 35}, // wall left
		{X: 80, Y: 35}, // wall right
		{X: 50, Y: 15}, // ceiling
	},
	"bedroom": {
		{X: 50, Y: 60}, // bed
		{X: 25, Y: 55}, // nightstand left
		{X: 75, Y: 55}, // nightstand right
		{X: 50, Y: 25}, // wall art
		{X: 50, Y: 12}, // ceiling
	},
	"kitchen": {
		{X: 35, Y: 50},
		{X: 65, Y: 50},
		{X: 50, Y: 30},
		{X: 50, Y: 15},
	},
	"dining room": {
		{X: 50, Y: 55},
		{X: 30, Y: 45},
		{X: 70, Y: 45},
		{X: 50, Y: 20},
	},
	"office": {
		{X: 45, Y: 55},
		{X: 60, Y: 50},
		{X: 25, Y: 40},
		{X: 75, Y: 30},
	},
	"bathroom": {
		{X: 40, Y: 50},
		{X: 65, Y: 45},
		{X: 50, Y: 25},
	},
}

var defaultZoneTemplate = []models.Placement{
	{X: 35, Y: 55},
	{X: 65, Y: 55},
	{X: 30, Y: 30},
	{X: 70, Y: 30},
}

// zonesForRoomType returns the anchor list for the room type,
// case-insensitively, with the default template for unrecognized types.
func zonesForRoomType(roomType string) []models.Placement {
	key := strings.ToLower(strings.TrimSpace(roomType))
	if zones, ok := zoneTemplates[key]; ok {
		return zones
	}
	return defaultZoneTemplate
}

// Place assigns hotspot coordinates to resolved products. Assignment is
// strictly sequential: groups in order, at most the first two products per
// group, each taking the next unused zone anchor until zones run out; the
// remainder is dropped, never wrapped. Pure and deterministic so hotspot
// layouts are reproducible.
func Place(groups []models.RecommendationGroup, roomType string) []models.Placement {
	zones := zonesForRoomType(roomType)

	var placements []models.Placement
	next := 0
	for _, group := range groups {
		taken := 0
		for _, product := range group.Products {
			if taken >= maxPlacementsPerGroup || next >= len(zones) {
				break
			}

			reasoning := product.Reasoning
			if reasoning == "" {
				reasoning = group.Reasoning
			}

			placements = append(placements, models.Placement{
				ProductID:   product.ProductID,
				ProductName: product.Name,
				Category:    product.Category,
				PriceKES:    product.PriceKES,
				ImageURL:    product.ImageURL,
				X:           zones[next].X,
				Y:           zones[next].Y,
				Reasoning:   reasoning,
			})
			next++
			taken++
		}
		if next >= len(zones) {
			break
		}
	}
	return placements
}
