package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopmart/shop-backend/internal/domain"
)

type mongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{
		collection: db.Collection("carts"),
	}
}

func (m *mongoCartRepository) GetCartByUser(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	var cart domain.Cart

	filter := bson.M{"userId": userID}
	err := m.collection.FindOne(ctx, filter).Decode(&cart)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return &cart, nil
}

func (m *mongoCartRepository) UpsertCart(ctx context.Context, cart *domain.Cart) error {
	now := time.Now()
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = now
	}
	cart.UpdatedAt = now

	filter := bson.M{"userId": cart.UserID}
	update := bson.M{"$set": bson.M{
		"userId":     cart.UserID,
		"items":      cart.Items,
		"totalPrice": cart.TotalPrice,
		"totalItems": cart.TotalItems,
		"updatedAt":  cart.UpdatedAt,
	}, "$setOnInsert": bson.M{
		"createdAt": cart.CreatedAt,
	}}
	opts := options.Update().SetUpsert(true)

	_, err := m.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to upsert cart: %w", err)
	}

	return nil
}

// ResetCart empties the cart after a successful order: items cleared,
// totals zeroed, document kept.
func (m *mongoCartRepository) ResetCart(ctx context.Context, userID primitive.ObjectID) error {
	filter := bson.M{"userId": userID}
	update := bson.M{"$set": bson.M{
		"items":      []domain.CartItem{},
		"totalPrice": 0.0,
		"totalItems": 0,
		"updatedAt":  time.Now(),
	}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to reset cart: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrCartNotFound
	}

	return nil
}

func (m *mongoCartRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}

	return nil
}
