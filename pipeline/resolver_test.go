package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aseka33/nyumba-ai-marketplace/models"
)

type stubCatalog struct {
	products []models.Product
	err      error
}

func (s stubCatalog) GetAllActive(context.Context, CatalogFilter) ([]models.Product, error) {
	return s.products, s.err
}

func TestEstimatePrice(t *testing.T) {
	tests := []struct {
		name     string
		itemName string
		tier     string
		want     int64
	}{
		{"luxury sofa", "Hardwood Sofa Set", models.BudgetTierLuxury, 105000},
		{"economy lamp", "Floor Lamp", models.BudgetTierEconomy, 1800},
		{"mid-range bed", "King Size Bed", models.BudgetTierMidRange, 40000},
		{"premium rug", "Sisal Rug", models.BudgetTierPremium, 21600},
		{"unknown item defaults", "Wall Mirror", models.BudgetTierMidRange, 10000},
		{"unknown tier uses base", "Coffee Table", "", 15000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimatePrice(tt.itemName, tt.tier))
		})
	}
}

func TestResolveEmptyCatalogSynthesizesVirtualProducts(t *testing.T) {
	recs := []Recommendation{
		{Category: "Seating", Items: []string{"Fabric Sofa", "Accent Chair", "Ottoman"}, Reasoning: "anchor the room"},
		{Category: "Lighting", Items: []string{"Floor Lamp", "Pendant Light", "Table Lamp"}, Reasoning: "brighten dark corners"},
	}

	groups, err := Resolve(context.Background(), recs, models.BudgetTierEconomy, stubCatalog{})
	require.NoError(t, err)
	require.Len(t, groups, 2)

	total := 0
	for _, group := range groups {
		for _, product := range group.Products {
			total++
			assert.True(t, product.IsVirtual)
			assert.Nil(t, product.ProductID)
			assert.Positive(t, product.PriceKES)
		}
	}
	assert.Equal(t, 6, total)
}

func TestResolveMatchesCatalogProducts(t *testing.T) {
	catalog := stubCatalog{products: []models.Product{
		{ID: 1, Name: "Mahogany Coffee Table", Category: "Tables", PriceKES: 18000, IsActive: true},
		{ID: 2, Name: "Kitenge Throw Pillow", Category: "Decor", PriceKES: 1500, IsActive: true},
		{ID: 3, Name: "Three Seater Sofa", Category: "Seating", PriceKES: 45000, IsActive: true, ImageURLs: []string{"products/3.jpg"}},
	}}

	groups, err := Resolve(context.Background(), []Recommendation{
		{Category: "Seating", Items: []string{"sofa"}, Reasoning: "comfort"},
	}, "", catalog)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Products, 1)

	p := groups[0].Products[0]
	assert.False(t, p.IsVirtual)
	require.NotNil(t, p.ProductID)
	assert.Equal(t, int64(3), *p.ProductID)
	assert.Equal(t, "products/3.jpg", p.ImageURL)
	assert.Equal(t, int64(45000), p.PriceKES)
}

func TestResolveCapsProductsPerGroup(t *testing.T) {
	var products []models.Product
	for i := int64(1); i <= 6; i++ {
		products = append(products, models.Product{ID: i, Name: "Rattan Chair", Category: "Seating", IsActive: true})
	}

	groups, err := Resolve(context.Background(), []Recommendation{
		{Category: "Seating", Items: []string{"chair"}},
	}, "", stubCatalog{products: products})
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].Products, maxProductsPerGroup)
}

func TestResolveSubstitutesWhenNothingMatches(t *testing.T) {
	catalog := stubCatalog{products: []models.Product{
		{ID: 7, Name: "Wall Clock", Category: "Decor", IsActive: true},
	}}

	groups, err := Resolve(context.Background(), []Recommendation{
		{Category: "Aquariums", Items: []string{"fish tank"}},
	}, "", catalog)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Products, 1)
	assert.False(t, groups[0].Products[0].IsVirtual)
	assert.Equal(t, "Wall Clock", groups[0].Products[0].Name)
}

func TestResolveBudgetTierFilter(t *testing.T) {
	catalog := stubCatalog{products: []models.Product{
		{ID: 1, Name: "Budget Sofa", Category: "Seating", BudgetTier: models.BudgetTierEconomy, IsActive: true},
		{ID: 2, Name: "Designer Sofa", Category: "Seating", BudgetTier: models.BudgetTierLuxury, IsActive: true},
		{ID: 3, Name: "Untiered Sofa", Category: "Seating", IsActive: true},
	}}

	groups, err := Resolve(context.Background(), []Recommendation{
		{Category: "Seating", Items: []string{"sofa"}},
	}, models.BudgetTierEconomy, catalog)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	var names []string
	for _, p := range groups[0].Products {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"Budget Sofa", "Untiered Sofa"}, names)
}

func TestResolveFallbackGroupWhenNoRecommendations(t *testing.T) {
	catalog := stubCatalog{products: []models.Product{
		{ID: 1, Name: "Sisal Basket", Category: "Decor", IsActive: true},
		{ID: 2, Name: "Maasai Blanket", Category: "Textiles", IsActive: true},
	}}

	groups, err := Resolve(context.Background(), nil, "", catalog)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, fallbackGroupCategory, groups[0].Category)
	assert.Len(t, groups[0].Products, 2)
}

func TestResolvePropagatesCatalogError(t *testing.T) {
	catalogErr := errors.New("connection reset")
	_, err := Resolve(context.Background(), []Recommendation{{Category: "Seating"}}, "", stubCatalog{err: catalogErr})
	assert.ErrorIs(t, err, catalogErr)
}
