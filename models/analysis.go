package models

import "time"

// RoomAnalysis is the persisted result of one pipeline run. Exactly one
// analysis exists per MediaAsset; it is written atomically after the full
// pipeline resolves and never partially updated.
type RoomAnalysis struct {
	MediaAssetID      string                `bson:"media_asset_id" json:"media_asset_id"`
	OwnerID           string                `bson:"owner_id" json:"owner_id"`
	RoomType          string                `bson:"room_type" json:"room_type"`
	RoomSize          string                `bson:"room_size" json:"room_size"`
	CurrentStyle      string                `bson:"current_style" json:"current_style"`
	LightingCondition string                `bson:"lighting_condition" json:"lighting_condition"`
	ColorScheme       string                `bson:"color_scheme" json:"color_scheme"`
	BudgetTier        string                `bson:"budget_tier,omitempty" json:"budget_tier,omitempty"`
	SuggestedStyles   []string              `bson:"suggested_styles" json:"suggested_styles"`
	Groups            []RecommendationGroup `bson:"recommendation_groups" json:"recommendation_groups"`
	ProductPlacements []Placement           `bson:"product_placements" json:"product_placements"`
	AnalysisText      string                `bson:"analysis_text" json:"analysis_text"`
	AfterImageURL     string                `bson:"after_image_url,omitempty" json:"after_image_url,omitempty"`
	ProductPositions  []PixelPosition       `bson:"product_positions,omitempty" json:"product_positions,omitempty"`
	CreatedAt         time.Time             `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time             `bson:"updated_at" json:"updated_at"`
}

// RecommendationGroup is one category of recommended items together with the
// products resolved against vendor inventory (or synthesized virtually).
type RecommendationGroup struct {
	Category        string            `bson:"category" json:"category"`
	RequestedItems  []string          `bson:"requested_items" json:"requested_items"`
	Reasoning       string            `bson:"reasoning" json:"reasoning"`
	PriceRangeHint  string            `bson:"price_range_hint,omitempty" json:"price_range_hint,omitempty"`
	WhereToFindHint string            `bson:"where_to_find_hint,omitempty" json:"where_to_find_hint,omitempty"`
	Products        []ResolvedProduct `bson:"products" json:"products"`
}

// ResolvedProduct is either a real catalog product (ProductID set) or a
// virtual product synthesized when inventory has no match (ProductID nil,
// IsVirtual true, PriceKES a heuristic estimate). The invariant
// IsVirtual == (ProductID == nil) is enforced by the pipeline constructors.
type ResolvedProduct struct {
	ProductID *int64 `bson:"product_id,omitempty" json:"product_id"`
	Name      string `bson:"name" json:"name"`
	Category  string `bson:"category" json:"category"`
	PriceKES  int64  `bson:"price_kes" json:"price_kes"`
	ImageURL  string `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Reasoning string `bson:"reasoning" json:"reasoning"`
	IsVirtual bool   `bson:"is_virtual" json:"is_virtual"`
}

// Placement is a percentage-based hotspot associating a resolved product with
// a location on the room frame for interactive overlays. X and Y are in
// [0, 100].
type Placement struct {
	ProductID   *int64  `bson:"product_id,omitempty" json:"product_id,omitempty"`
	ProductName string  `bson:"product_name" json:"product_name"`
	Category    string  `bson:"category" json:"category"`
	PriceKES    int64   `bson:"price_kes" json:"price_kes"`
	ImageURL    string  `bson:"image_url,omitempty" json:"image_url,omitempty"`
	X           float64 `bson:"x" json:"x"`
	Y           float64 `bson:"y" json:"y"`
	Reasoning   string  `bson:"reasoning" json:"reasoning"`
}

// PixelPosition records where a product image was layered onto the composite
// "after" image, in absolute pixels of the output frame.
type PixelPosition struct {
	ProductName  string `bson:"product_name" json:"product_name"`
	XPixels      int    `bson:"x_pixels" json:"x_pixels"`
	YPixels      int    `bson:"y_pixels" json:"y_pixels"`
	WidthPixels  int    `bson:"width_pixels" json:"width_pixels"`
	HeightPixels int    `bson:"height_pixels" json:"height_pixels"`
}
