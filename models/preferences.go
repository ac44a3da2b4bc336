package models

// Budget tiers, ordered from cheapest to most expensive. Used both to filter
// catalog matches and to scale heuristic virtual prices.
const (
	BudgetTierEconomy  = "economy"
	BudgetTierMidRange = "mid-range"
	BudgetTierPremium  = "premium"
	BudgetTierLuxury   = "luxury"
)

// Space sizes
const (
	SpaceSizeSmall  = "small"
	SpaceSizeMedium = "medium"
	SpaceSizeLarge  = "large"
)

// BudgetTierRangesKES describes each tier's approximate spend band in Kenyan
// Shillings. The strings are embedded in the vision prompt so recommendations
// stay within reach of the selected tier.
var BudgetTierRangesKES = map[string]string{
	BudgetTierEconomy:  "KES 1,000 - 20,000",
	BudgetTierMidRange: "KES 20,000 - 80,000",
	BudgetTierPremium:  "KES 80,000 - 250,000",
	BudgetTierLuxury:   "KES 250,000 and above",
}

// ValidBudgetTier reports whether tier is one of the four known tiers.
func ValidBudgetTier(tier string) bool {
	_, ok := BudgetTierRangesKES[tier]
	return ok
}

// UserPreferences captures the style and budget inputs submitted with an
// upload. Immutable once submitted for a given analysis run; not persisted
// on its own.
type UserPreferences struct {
	BudgetTier      string   `json:"budget_tier"`
	RoomType        string   `json:"room_type"`
	FavoriteColors  []string `json:"favorite_colors"`
	StylePreference string   `json:"style_preference"`
	Priorities      []string `json:"priorities"`
	SpaceSize       string   `json:"space_size"`
}
