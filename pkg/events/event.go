package events

import (
	"context"
	"time"
)

const (
	TypeTrendGenerated  = "trend.generated"
	TypeOutfitGenerated = "outfit.generated"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "trend.generated").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the only Event implementation the service emits.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Publisher delivers events to the bus. Delivery is best-effort.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NopPublisher drops every event. Used when no bus is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func NewTrendGenerated(runID, intent, city string, imageCount int, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeTrendGenerated,
		Data: map[string]interface{}{
			"run_id":      runID,
			"intent":      intent,
			"city":        city,
			"image_count": imageCount,
			"occurred_at": at.UTC().Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}

func NewOutfitGenerated(runID string, itemCount int, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeOutfitGenerated,
		Data: map[string]interface{}{
			"run_id":      runID,
			"item_count":  itemCount,
			"occurred_at": at.UTC().Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}
