package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantry/internal/config"
	"pantry/models"
)

type recordingWriter struct {
	mu       sync.Mutex
	messages []kafka.Message
	writeErr error
	closed   bool

	started chan struct{}
	release chan struct{}
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.started != nil {
		select {
		case w.started <- struct{}{}:
		default:
		}
	}
	if w.release != nil {
		<-w.release
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.messages = append(w.messages, msgs...)
	return w.writeErr
}

func (w *recordingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *recordingWriter) snapshot() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]kafka.Message(nil), w.messages...)
}

func sampleEvent(code int) AmountChanged {
	return AmountChanged{
		FoodItemID: "item-1",
		FoodCode:   code,
		Method:     models.EditMethodIncrement,
		Amount:     3,
		Date:       time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisherWritesEnvelope(t *testing.T) {
	t.Parallel()

	writer := &recordingWriter{}
	publisher := newKafkaPublisher(writer, "pantry-api", 4)
	fixed := time.Date(2026, 3, 1, 9, 0, 1, 0, time.UTC)
	publisher.now = func() time.Time { return fixed }

	require.NoError(t, publisher.Publish(context.Background(), sampleEvent(101)))
	require.NoError(t, publisher.Close())

	messages := writer.snapshot()
	require.Len(t, messages, 1)
	msg := messages[0]
	assert.Equal(t, "101", string(msg.Key))
	assert.Equal(t, fixed, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, EventFoodAmountChanged, string(msg.Headers[0].Value))

	var envelope Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.NotEmpty(t, envelope.EventID)
	assert.Equal(t, EventFoodAmountChanged, envelope.EventType)
	assert.Equal(t, 1, envelope.EventVersion)
	assert.Equal(t, "pantry-api", envelope.Producer)
	assert.True(t, fixed.Equal(envelope.OccurredAt))

	var payload AmountChanged
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, "item-1", payload.FoodItemID)
	assert.Equal(t, 101, payload.FoodCode)
	assert.Equal(t, models.EditMethodIncrement, payload.Method)
	assert.Equal(t, 3.0, payload.Amount)

	assert.True(t, writer.closed)
}

func TestKafkaPublisherFlushesOnClose(t *testing.T) {
	t.Parallel()

	writer := &recordingWriter{}
	publisher := newKafkaPublisher(writer, "pantry-api", 16)
	for code := 1; code <= 10; code++ {
		require.NoError(t, publisher.Publish(context.Background(), sampleEvent(code)))
	}
	require.NoError(t, publisher.Close())

	messages := writer.snapshot()
	require.Len(t, messages, 10)
	assert.Equal(t, "1", string(messages[0].Key))
	assert.Equal(t, "10", string(messages[9].Key))
}

func TestKafkaPublisherRejectsAfterClose(t *testing.T) {
	t.Parallel()

	publisher := newKafkaPublisher(&recordingWriter{}, "pantry-api", 1)
	require.NoError(t, publisher.Close())
	require.NoError(t, publisher.Close())

	err := publisher.Publish(context.Background(), sampleEvent(1))
	assert.ErrorIs(t, err, ErrPublisherClosed)
}

func TestKafkaPublisherReportsFullQueue(t *testing.T) {
	t.Parallel()

	writer := &recordingWriter{
		started: make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	publisher := newKafkaPublisher(writer, "pantry-api", 1)

	require.NoError(t, publisher.Publish(context.Background(), sampleEvent(1)))
	<-writer.started
	require.NoError(t, publisher.Publish(context.Background(), sampleEvent(2)))

	err := publisher.Publish(context.Background(), sampleEvent(3))
	assert.ErrorIs(t, err, ErrQueueFull)

	close(writer.release)
	require.NoError(t, publisher.Close())
	assert.Len(t, writer.snapshot(), 2)
}

func TestKafkaPublisherKeepsDrainingAfterWriteError(t *testing.T) {
	t.Parallel()

	writer := &recordingWriter{writeErr: errors.New("broker unavailable")}
	publisher := newKafkaPublisher(writer, "pantry-api", 4)

	require.NoError(t, publisher.Publish(context.Background(), sampleEvent(1)))
	require.NoError(t, publisher.Publish(context.Background(), sampleEvent(2)))
	require.NoError(t, publisher.Close())

	assert.Len(t, writer.snapshot(), 2)
}

func TestNewPublisher(t *testing.T) {
	t.Parallel()

	nop := NewPublisher(config.EventsConfig{Topic: "pantry"}, "pantry-api")
	assert.IsType(t, Nop{}, nop)
	assert.NoError(t, nop.Publish(context.Background(), sampleEvent(1)))
	assert.NoError(t, nop.Close())

	kafkaPublisher := NewPublisher(config.EventsConfig{Brokers: []string{"localhost:9092"}, Topic: "pantry"}, "pantry-api")
	assert.IsType(t, &KafkaPublisher{}, kafkaPublisher)
	// Nothing was queued, so closing does not dial the broker.
	assert.NoError(t, kafkaPublisher.Close())
}

func TestNewAmountChanged(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	got := NewAmountChanged(101, models.EditEvent{
		FoodItemID: "abc",
		Date:       date,
		Amount:     2,
		Method:     models.EditMethodDecrement,
	})
	assert.Equal(t, AmountChanged{
		FoodItemID: "abc",
		FoodCode:   101,
		Method:     models.EditMethodDecrement,
		Amount:     2,
		Date:       date,
	}, got)
}
