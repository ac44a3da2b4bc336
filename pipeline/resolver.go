package pipeline

import (
	"context"
	"math"
	"strings"

	"github.com/aseka33/nyumba-ai-marketplace/models"
)

const (
	maxProductsPerGroup    = 3
	maxFallbackGroupSize   = 4
	fallbackGroupCategory  = "Recommended"
	defaultVirtualPriceKES = 10000
	fallbackTierMultiplier = 1.0
)

// virtualBasePrices maps item-name keywords to base prices in KES. Checked in
// order; the first keyword contained in the item name wins.
var virtualBasePrices = []struct {
	keyword string
	price   int64
}{
	{"sofa", 35000},
	{"couch", 35000},
	{"chair", 8000},
	{"table", 15000},
	{"bed", 40000},
	{"lamp", 3000},
	{"light", 3000},
	{"rug", 12000},
	{"carpet", 12000},
	{"art", 5000},
	{"painting", 5000},
	{"curtain", 6000},
	{"drape", 6000},
	{"shelf", 10000},
	{"bookcase", 10000},
}

var tierMultipliers = map[string]float64{
	models.BudgetTierEconomy:  0.6,
	models.BudgetTierMidRange: 1.0,
	models.BudgetTierPremium:  1.8,
	models.BudgetTierLuxury:   3.0,
}

// EstimatePrice computes the heuristic price for a virtual product from the
// item name keyword table and the budget tier multiplier.
func EstimatePrice(itemName, budgetTier string) int64 {
	base := int64(defaultVirtualPriceKES)
	lower := strings.ToLower(itemName)
	for _, entry := range virtualBasePrices {
		if strings.Contains(lower, entry.keyword) {
			base = entry.price
			break
		}
	}

	multiplier := fallbackTierMultiplier
	if m, ok := tierMultipliers[budgetTier]; ok {
		multiplier = m
	}
	return int64(math.Round(float64(base) * multiplier))
}

// newRealProduct builds a ResolvedProduct backed by vendor inventory. The
// IsVirtual == (ProductID == nil) invariant is centralized here and in
// newVirtualProduct.
func newRealProduct(p models.Product, reasoning string) models.ResolvedProduct {
	id := p.ID
	return models.ResolvedProduct{
		ProductID: &id,
		Name:      p.Name,
		Category:  p.Category,
		PriceKES:  p.PriceKES,
		ImageURL:  p.FirstImage(),
		Reasoning: reasoning,
		IsVirtual: false,
	}
}

// newVirtualProduct builds a synthesized ResolvedProduct with a heuristic
// price, used when no inventory matches.
func newVirtualProduct(itemName, category, budgetTier, reasoning string) models.ResolvedProduct {
	return models.ResolvedProduct{
		ProductID: nil,
		Name:      itemName,
		Category:  category,
		PriceKES:  EstimatePrice(itemName, budgetTier),
		Reasoning: reasoning,
		IsVirtual: true,
	}
}

// Resolve converts the analyzer's coarse recommendations into groups of real
// catalog products where inventory matches, generic substitutes where it
// doesn't, and virtual products when the catalog is empty. Group order
// follows the analyzer; product order follows catalog order within a group.
func Resolve(ctx context.Context, recs []Recommendation, budgetTier string, catalog ProductCatalogReader) ([]models.RecommendationGroup, error) {
	products, err := catalog.GetAllActive(ctx, CatalogFilter{})
	if err != nil {
		return nil, err
	}

	// Tier restriction happens before matching: products with no tier set
	// remain eligible for every tier.
	if budgetTier != "" {
		filtered := make([]models.Product, 0, len(products))
		for _, p := range products {
			if p.BudgetTier == "" || p.BudgetTier == budgetTier {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	var groups []models.RecommendationGroup
	for _, rec := range recs {
		group := models.RecommendationGroup{
			Category:        rec.Category,
			RequestedItems:  rec.Items,
			Reasoning:       rec.Reasoning,
			PriceRangeHint:  rec.PriceRangeHint,
			WhereToFindHint: rec.WhereToFindHint,
			Products:        resolveGroupProducts(rec, budgetTier, products),
		}
		groups = append(groups, group)
	}

	// Last resort: inventory exists but the analyzer gave us nothing to
	// group, so surface a generic selection instead of an empty result.
	if len(groups) == 0 && len(products) > 0 {
		fallback := models.RecommendationGroup{
			Category:  fallbackGroupCategory,
			Reasoning: "Popular picks from our vendors",
		}
		for _, p := range products {
			if len(fallback.Products) >= maxFallbackGroupSize {
				break
			}
			fallback.Products = append(fallback.Products, newRealProduct(p, fallback.Reasoning))
		}
		groups = append(groups, fallback)
	}

	return groups, nil
}

func resolveGroupProducts(rec Recommendation, budgetTier string, products []models.Product) []models.ResolvedProduct {
	// Cold-start marketplace: no inventory at all, synthesize virtual
	// products from the recommended item names.
	if len(products) == 0 {
		var virtual []models.ResolvedProduct
		for _, item := range rec.Items {
			if len(virtual) >= maxProductsPerGroup {
				break
			}
			virtual = append(virtual, newVirtualProduct(item, rec.Category, budgetTier, rec.Reasoning))
		}
		return virtual
	}

	terms := append([]string{rec.Category}, rec.Items...)

	var matched []models.ResolvedProduct
	for _, p := range products {
		if len(matched) >= maxProductsPerGroup {
			break
		}
		if productMatchesAny(p, terms) {
			matched = append(matched, newRealProduct(p, rec.Reasoning))
		}
	}
	if len(matched) > 0 {
		return matched
	}

	// No match for this group: substitute the first few products overall so
	// the category never renders empty while inventory exists.
	var substitutes []models.ResolvedProduct
	for _, p := range products {
		if len(substitutes) >= maxProductsPerGroup {
			break
		}
		substitutes = append(substitutes, newRealProduct(p, rec.Reasoning))
	}
	return substitutes
}

// productMatchesAny reports whether any of the group's category/item terms
// matches the product's category, name or description, case-insensitively.
func productMatchesAny(p models.Product, terms []string) bool {
	name := strings.ToLower(p.Name)
	category := strings.ToLower(p.Category)
	description := strings.ToLower(p.Description)

	for _, term := range terms {
		t := strings.ToLower(strings.TrimSpace(term))
		if t == "" {
			continue
		}
		if strings.Contains(name, t) || (name != "" && strings.Contains(t, name)) {
			return true
		}
		if strings.Contains(category, t) || (category != "" && strings.Contains(t, category)) {
			return true
		}
		if strings.Contains(description, t) {
			return true
		}
	}
	return false
}
