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

type mongoOrderRepository struct {
	collection *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{
		collection: db.Collection("orders"),
	}
}

func (m *mongoOrderRepository) InsertOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	result, err := m.collection.InsertOne(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	order.ID = result.InsertedID.(primitive.ObjectID)
	return order, nil
}

// GetOrder ignores soft-deleted orders; to callers they do not exist.
func (m *mongoOrderRepository) GetOrder(ctx context.Context, id primitive.ObjectID) (*domain.Order, error) {
	var order domain.Order

	filter := bson.M{"_id": id, "isDeleted": false}
	err := m.collection.FindOne(ctx, filter).Decode(&order)

	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

func (m *mongoOrderRepository) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Order, error) {
	filter := bson.M{"userId": userID, "isDeleted": false}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]*domain.Order, 0)
	for cursor.Next(ctx) {
		var order domain.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, fmt.Errorf("failed to decode order: %w", err)
		}
		orders = append(orders, &order)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("order cursor failed: %w", err)
	}

	return orders, nil
}

// TransitionStatus is a single conditional update: the filter requires the
// order to still be pending, so two racing transitions cannot both succeed.
// Moving to cancelled additionally requires the cancellable flag in the same
// filter, keeping that guard atomic too.
func (m *mongoOrderRepository) TransitionStatus(ctx context.Context, id primitive.ObjectID, to domain.OrderStatus) (*domain.Order, error) {
	filter := bson.M{
		"_id":       id,
		"isDeleted": false,
		"status":    domain.OrderStatusPending,
	}
	if to == domain.OrderStatusCancelled {
		filter["cancellable"] = true
	}

	update := bson.M{"$set": bson.M{
		"status":    to,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order domain.Order
	err := m.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTransitionConflict
		}
		return nil, fmt.Errorf("failed to transition order status: %w", err)
	}

	return &order, nil
}

func (m *mongoOrderRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}

	return nil
}
