package publisher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmart/shop-backend/internal/repository"
)

type mockOutboxRepo struct {
	m      sync.Mutex
	events []*repository.OutboxEvent
}

func (r *mockOutboxRepo) Append(_ context.Context, event *repository.OutboxEvent) error {
	r.m.Lock()
	defer r.m.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *mockOutboxRepo) GetUnprocessed(_ context.Context, limit int) ([]*repository.OutboxEvent, error) {
	r.m.Lock()
	defer r.m.Unlock()
	result := make([]*repository.OutboxEvent, 0)
	for _, event := range r.events {
		if !event.Processed && len(result) < limit {
			result = append(result, event)
		}
	}
	return result, nil
}

func (r *mockOutboxRepo) MarkProcessed(_ context.Context, id string) error {
	r.m.Lock()
	defer r.m.Unlock()
	for _, event := range r.events {
		if event.ID == id {
			event.Processed = true
			return nil
		}
	}
	return assert.AnError
}

func (r *mockOutboxRepo) processedCount() int {
	r.m.Lock()
	defer r.m.Unlock()
	n := 0
	for _, event := range r.events {
		if event.Processed {
			n++
		}
	}
	return n
}

type mockWriter struct {
	m        sync.Mutex
	messages []kafka.Message
	err      error
}

func (w *mockWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.m.Lock()
	defer w.m.Unlock()
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *mockWriter) written() []kafka.Message {
	w.m.Lock()
	defer w.m.Unlock()
	return append([]kafka.Message(nil), w.messages...)
}

func newTestPoller(repo repository.OutboxRepository, writer MessageWriter) *OutboxPoller {
	return &OutboxPoller{
		timeout:   time.Second,
		eventTick: 10 * time.Millisecond,
		batchSize: 100,
		repo:      repo,
		writer:    writer,
	}
}

func TestProcessUnpublishedEvents_PublishesAndMarks(t *testing.T) {
	repo := &mockOutboxRepo{}
	writer := &mockWriter{}
	poller := newTestPoller(repo, writer)

	event := repository.NewOutboxEvent("order-1", repository.EventTypeOrderCreated, []byte(`{"status":"pending"}`))
	require.NoError(t, repo.Append(context.Background(), event))

	poller.processUnpublishedEvents(context.Background())

	msgs := writer.written()
	require.Len(t, msgs, 1)
	assert.Equal(t, []byte("order-1"), msgs[0].Key)
	assert.Equal(t, []byte(`{"status":"pending"}`), msgs[0].Value)
	require.Len(t, msgs[0].Headers, 1)
	assert.Equal(t, "event_type", msgs[0].Headers[0].Key)
	assert.Equal(t, []byte(repository.EventTypeOrderCreated), msgs[0].Headers[0].Value)

	assert.Equal(t, 1, repo.processedCount())
}

func TestProcessUnpublishedEvents_SkipsAlreadyProcessed(t *testing.T) {
	repo := &mockOutboxRepo{}
	writer := &mockWriter{}
	poller := newTestPoller(repo, writer)

	event := repository.NewOutboxEvent("order-1", repository.EventTypeOrderCreated, nil)
	event.Processed = true
	require.NoError(t, repo.Append(context.Background(), event))

	poller.processUnpublishedEvents(context.Background())

	assert.Empty(t, writer.written())
}

// A failed publish leaves the event unprocessed so the next tick retries it.
func TestProcessUnpublishedEvents_RetriesOnPublishFailure(t *testing.T) {
	repo := &mockOutboxRepo{}
	writer := &mockWriter{err: assert.AnError}
	poller := newTestPoller(repo, writer)

	require.NoError(t, repo.Append(context.Background(),
		repository.NewOutboxEvent("order-1", repository.EventTypeOrderStatusChanged, nil)))

	poller.processUnpublishedEvents(context.Background())
	assert.Equal(t, 0, repo.processedCount())

	writer.m.Lock()
	writer.err = nil
	writer.m.Unlock()

	poller.processUnpublishedEvents(context.Background())
	assert.Equal(t, 1, repo.processedCount())
	assert.Len(t, writer.written(), 1)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := &mockOutboxRepo{}
	writer := &mockWriter{}
	poller := newTestPoller(repo, writer)

	require.NoError(t, repo.Append(context.Background(),
		repository.NewOutboxEvent("order-1", repository.EventTypeOrderCreated, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return repo.processedCount() == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}
}
