package publisher

import (
	"context"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/shopmart/shop-backend/internal/repository"
)

const orderEventsTopic = "order-events"

// MessageWriter is the slice of kafka.Writer the poller needs; tests provide
// their own.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OutboxPoller drains unprocessed outbox events to Kafka on a ticker.
// Delivery is at least once: an event is marked processed only after a
// successful publish.
type OutboxPoller struct {
	timeout   time.Duration
	eventTick time.Duration
	batchSize int
	repo      repository.OutboxRepository
	writer    MessageWriter
}

func NewOutboxPoller(repo repository.OutboxRepository, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderEventsTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{
		timeout:   5 * time.Second,
		eventTick: time.Second,
		batchSize: 100,
		repo:      repo,
		writer:    w,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	eventTicker := time.NewTicker(p.eventTick)
	defer eventTicker.Stop()
	for {
		select {
		case <-eventTicker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessed(ctx, p.batchSize)
	if err != nil {
		log.Printf("failed to fetch outbox events: %v", err)
		return
	}

	for _, event := range events {
		if errPublish := p.publishToKafka(ctx, event); errPublish != nil {
			log.Printf("failed to publish event id = %v with error %v", event.ID, errPublish)
			continue
		}

		if errMark := p.repo.MarkProcessed(ctx, event.ID); errMark != nil {
			log.Printf("failed to mark event as processed id = %v with error %v", event.ID, errMark)
			continue
		}
	}
}

func (p *OutboxPoller) publishToKafka(ctx context.Context, event *repository.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // order id for per-order ordering
		Value: event.Payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.writer.WriteMessages(writeCtx, msg)
}
