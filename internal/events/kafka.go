package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	applog "pantry/internal/log"
)

const defaultBuffer = 256

var (
	ErrPublisherClosed = errors.New("events: publisher closed")
	ErrQueueFull       = errors.New("events: publish queue full")
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher queues events on a bounded inbox drained by a single
// goroutine. Close flushes what is queued before closing the writer.
type KafkaPublisher struct {
	w        messageWriter
	producer string
	now      func() time.Time

	mu     sync.RWMutex
	closed bool
	inbox  chan kafka.Message

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

func NewKafkaPublisher(brokers []string, topic, producer string, buf int) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}, producer, buf)
}

func newKafkaPublisher(w messageWriter, producer string, buf int) *KafkaPublisher {
	if buf <= 0 {
		buf = defaultBuffer
	}
	p := &KafkaPublisher{
		w:        w,
		producer: producer,
		now:      func() time.Time { return time.Now().UTC() },
		inbox:    make(chan kafka.Message, buf),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *KafkaPublisher) run() {
	defer close(p.done)
	for m := range p.inbox {
		if err := p.w.WriteMessages(context.Background(), m); err != nil {
			applog.Error(context.Background(), "publish event failed", "key", string(m.Key), "error", err)
		}
	}
	p.closeErr = p.w.Close()
}

// Publish enqueues event without waiting for the broker.
func (p *KafkaPublisher) Publish(ctx context.Context, event AmountChanged) error {
	msg, err := p.message(event)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}

	select {
	case p.inbox <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (p *KafkaPublisher) message(event AmountChanged) (kafka.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode payload: %w", err)
	}

	occurred := p.now()
	value, err := json.Marshal(Envelope{
		EventID:      uuid.NewString(),
		EventType:    EventFoodAmountChanged,
		EventVersion: eventVersion,
		OccurredAt:   occurred,
		Producer:     p.producer,
		Payload:      payload,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode envelope: %w", err)
	}

	return kafka.Message{
		Key:   []byte(strconv.Itoa(event.FoodCode)),
		Value: value,
		Time:  occurred,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventFoodAmountChanged)},
		},
	}, nil
}

// Close stops accepting events, flushes the inbox and closes the writer.
func (p *KafkaPublisher) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.inbox)
		p.mu.Unlock()
	})
	<-p.done
	return p.closeErr
}
