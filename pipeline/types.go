package pipeline

// AnalysisPayload is the coarse analyzer output: room attributes plus
// category-level recommendation groups. The Resolver consumes this shape.
type AnalysisPayload struct {
	RoomType          string           `json:"room_type"`
	RoomSize          string           `json:"room_size"`
	CurrentStyle      string           `json:"current_style"`
	LightingCondition string           `json:"lighting_condition"`
	ColorScheme       string           `json:"color_scheme"`
	SuggestedStyles   []string         `json:"suggested_styles"`
	Recommendations   []Recommendation `json:"recommendations"`
	AnalysisText      string           `json:"analysis_text"`
}

// Recommendation is one coarse recommendation group as returned by the model.
type Recommendation struct {
	Category        string   `json:"category"`
	Items           []string `json:"items"`
	Reasoning       string   `json:"reasoning"`
	PriceRangeHint  string   `json:"price_range"`
	WhereToFindHint string   `json:"where_to_find"`
}

// FineRecommendation is the richer, named-product shape carrying a normalized
// bounding box. The Compositor consumes this shape; position and size are
// percentages of the room frame's width and height.
type FineRecommendation struct {
	Category        string  `json:"category"`
	ProductName     string  `json:"product_name"`
	Reason          string  `json:"reason"`
	Priority        int     `json:"priority"`
	EstimatedBudget string  `json:"estimated_budget"`
	Position        Point   `json:"position"`
	Size            BoxSize `json:"size"`
}

// Point is a normalized coordinate, percentages in [0, 100].
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BoxSize is a normalized extent, percentages in [0, 100].
type BoxSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
