package events

import (
	"context"
	"time"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "QUERY_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the wire shape every published event is marshalled to.
type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurred_at"`
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

// QueryCompleted summarises one query cycle. It carries no
// question or answer text.
type QueryCompleted struct {
	SessionID   string
	Location    string
	Need        string
	State       string
	SourceCount int
	QueryLength int
	LatencyMs   int64
	OccurredAt  time.Time
}

func (e QueryCompleted) EventType() string {
	return "QUERY_COMPLETED"
}

func (e QueryCompleted) Payload() map[string]interface{} {
	return map[string]interface{}{
		"session_id":   e.SessionID,
		"location":     e.Location,
		"need":         e.Need,
		"state":        e.State,
		"source_count": e.SourceCount,
		"query_length": e.QueryLength,
		"latency_ms":   e.LatencyMs,
	}
}

func (e QueryCompleted) Timestamp() time.Time {
	return e.OccurredAt
}

// ToBase flattens any Event into its wire shape.
func ToBase(e Event) BaseEvent {
	return BaseEvent{
		Type:       e.EventType(),
		Data:       e.Payload(),
		OccurredAt: e.Timestamp(),
	}
}

// Publisher fans events out to whatever is listening. Publishing never fails
// the caller; implementations log their own errors.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, evt Event) {}
