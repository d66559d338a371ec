package events

import (
	"context"
	"encoding/json"
	"time"

	"pantry/internal/config"
	"pantry/models"
)

// EventFoodAmountChanged is the envelope type of AmountChanged.
const EventFoodAmountChanged = "FoodAmountChanged"

const eventVersion = 1

// Envelope wraps every payload written to the topic.
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	Payload      json.RawMessage `json:"payload"`
}

// AmountChanged describes one successful increment or decrement.
type AmountChanged struct {
	FoodItemID string            `json:"foodItemId"`
	FoodCode   int               `json:"foodCode"`
	Method     models.EditMethod `json:"method"`
	Amount     float64           `json:"amount"`
	Date       time.Time         `json:"date"`
}

// NewAmountChanged builds the event for an applied edit.
func NewAmountChanged(foodCode int, event models.EditEvent) AmountChanged {
	return AmountChanged{
		FoodItemID: event.FoodItemID,
		FoodCode:   foodCode,
		Method:     event.Method,
		Amount:     event.Amount,
		Date:       event.Date,
	}
}

// Publisher delivers amount changes to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event AmountChanged) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, AmountChanged) error { return nil }
func (Nop) Close() error                                 { return nil }

// NewPublisher returns a Kafka publisher, or Nop when no brokers are configured.
func NewPublisher(cfg config.EventsConfig, producer string) Publisher {
	if len(cfg.Brokers) == 0 {
		return Nop{}
	}
	return NewKafkaPublisher(cfg.Brokers, cfg.Topic, producer, defaultBuffer)
}
