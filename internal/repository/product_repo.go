package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopmart/shop-backend/internal/domain"
)

type mongoProductRepository struct {
	collection *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{
		collection: db.Collection("products"),
	}
}

// GetProduct reads only the display fields used for response enrichment.
func (m *mongoProductRepository) GetProduct(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var product domain.Product

	projection := bson.M{
		"title":          1,
		"price":          1,
		"productImage":   1,
		"isFreeShipping": 1,
	}
	opts := options.FindOne().SetProjection(projection)

	err := m.collection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}
