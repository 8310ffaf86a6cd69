package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	EventTypeOrderCreated       = "order.created"
	EventTypeOrderStatusChanged = "order.status_changed"
)

// OutboxEvent is appended alongside order writes and published to Kafka by
// the poller, at least once.
type OutboxEvent struct {
	ID          string    `bson:"_id"`
	AggregateID string    `bson:"aggregateId"`
	EventType   string    `bson:"eventType"`
	Payload     []byte    `bson:"payload"`
	Processed   bool      `bson:"processed"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func NewOutboxEvent(aggregateID, eventType string, payload []byte) *OutboxEvent {
	return &OutboxEvent{
		ID:          uuid.NewString(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Payload:     payload,
		Processed:   false,
		CreatedAt:   time.Now(),
	}
}

type mongoOutboxRepository struct {
	collection *mongo.Collection
}

func NewMongoOutboxRepository(db *mongo.Database) OutboxRepository {
	return &mongoOutboxRepository{
		collection: db.Collection("outbox"),
	}
}

func (m *mongoOutboxRepository) Append(ctx context.Context, event *OutboxEvent) error {
	_, err := m.collection.InsertOne(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to append outbox event: %w", err)
	}
	return nil
}

func (m *mongoOutboxRepository) GetUnprocessed(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	filter := bson.M{"processed": false}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := m.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outbox events: %w", err)
	}
	defer cursor.Close(ctx)

	events := make([]*OutboxEvent, 0)
	for cursor.Next(ctx) {
		var event OutboxEvent
		if err := cursor.Decode(&event); err != nil {
			return nil, fmt.Errorf("failed to decode outbox event: %w", err)
		}
		events = append(events, &event)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("outbox cursor failed: %w", err)
	}

	return events, nil
}

func (m *mongoOutboxRepository) MarkProcessed(ctx context.Context, id string) error {
	filter := bson.M{"_id": id}
	update := bson.M{"$set": bson.M{"processed": true}}

	result, err := m.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event as processed: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("outbox event %s not found", id)
	}

	return nil
}
