package events

import "time"

// Topics used on the in-process bus. The search lifecycle topics are the
// contract between the query surface and the results surface: a completed
// event is only ever published after the started event for the same token.
const (
	TopicSearchStarted   = "search.started"
	TopicSearchCompleted = "search.completed"
	TopicSearchRerun     = "search.rerun"
	TopicExportCompleted = "export.completed"
	TopicEmailDelivered  = "email.delivered"
	TopicEmailFailed     = "email.failed"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the topic this event belongs to (e.g. "search.started").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic; the typed constructors below are the
// preferred way to create valid instances.
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
