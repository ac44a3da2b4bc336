package pipeline

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aseka33/nyumba-ai-marketplace/models"
)

// CatalogFilter narrows catalog reads. Zero value means all active products.
type CatalogFilter struct {
	Category   string
	BudgetTier string
}

// ProductCatalogReader is the narrow view of vendor inventory the pipeline
// consumes. Vendor CRUD lives elsewhere.
type ProductCatalogReader interface {
	GetAllActive(ctx context.Context, filter CatalogFilter) ([]models.Product, error)
}

// MongoCatalog reads vendor products from MongoDB.
type MongoCatalog struct {
	products *mongo.Collection
}

func NewMongoCatalog(db *mongo.Database) *MongoCatalog {
	return &MongoCatalog{products: db.Collection("products")}
}

func (c *MongoCatalog) mongoFilter(filter CatalogFilter) bson.M {
	query := bson.M{"is_active": true}
	if filter.Category != "" {
		query["category"] = primitive.Regex{Pattern: filter.Category, Options: "i"}
	}
	if filter.BudgetTier != "" {
		query["$or"] = bson.A{
			bson.M{"budget_tier": bson.M{"$exists": false}},
			bson.M{"budget_tier": ""},
			bson.M{"budget_tier": filter.BudgetTier},
		}
	}
	return query
}

// GetAllActive returns active products in stable insertion order.
func (c *MongoCatalog) GetAllActive(ctx context.Context, filter CatalogFilter) ([]models.Product, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := c.products.Find(ctx, c.mongoFilter(filter), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetPage returns one page of active products plus the total count, for the
// catalog browse endpoint.
func (c *MongoCatalog) GetPage(ctx context.Context, filter CatalogFilter, page, limit int) ([]models.Product, int64, error) {
	query := c.mongoFilter(filter)

	total, err := c.products.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := c.products.Find(ctx, query, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
