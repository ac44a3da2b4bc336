package models

import "time"

// Product represents an item of vendor inventory. Product IDs are numeric,
// assigned by the vendor onboarding system; the pipeline only reads products.
type Product struct {
	ID          int64     `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Category    string    `bson:"category" json:"category"`
	Description string    `bson:"description" json:"description"`
	PriceKES    int64     `bson:"price_kes" json:"price_kes"`
	ImageURLs   []string  `bson:"image_urls" json:"image_urls"` // S3 keys or external URLs
	BudgetTier  string    `bson:"budget_tier,omitempty" json:"budget_tier,omitempty"`
	IsActive    bool      `bson:"is_active" json:"is_active"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// FirstImage returns the product's primary image reference, or "" if none.
func (p *Product) FirstImage() string {
	if len(p.ImageURLs) == 0 {
		return ""
	}
	return p.ImageURLs[0]
}
