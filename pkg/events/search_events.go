package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SearchStarted announces that a search run began. Token orders runs for a
// single user so consumers can discard stale completions.
type SearchStarted struct {
	UserID    uuid.UUID `json:"user_id"`
	Query     string    `json:"query"`
	Source    string    `json:"source"`
	Token     uint64    `json:"token"`
	StartedAt time.Time `json:"started_at"`
}

func (e SearchStarted) EventType() string    { return TopicSearchStarted }
func (e SearchStarted) Timestamp() time.Time { return e.StartedAt }
func (e SearchStarted) Payload() map[string]interface{} {
	return toPayload(e)
}

// SearchCompleted carries the full normalized result set. It is published
// exactly once per run, success or failure; a failed run carries zero
// records and the consumer learns the reason from the API response, not
// from this event.
type SearchCompleted struct {
	UserID      uuid.UUID `json:"user_id"`
	Query       string    `json:"query"`
	Source      string    `json:"source"`
	Token       uint64    `json:"token"`
	ResultCount int       `json:"result_count"`
	CompletedAt time.Time `json:"completed_at"`
}

func (e SearchCompleted) EventType() string    { return TopicSearchCompleted }
func (e SearchCompleted) Timestamp() time.Time { return e.CompletedAt }
func (e SearchCompleted) Payload() map[string]interface{} {
	return toPayload(e)
}

// SearchRerun asks the orchestrator to re-execute a historical query.
type SearchRerun struct {
	UserID      uuid.UUID `json:"user_id"`
	Query       string    `json:"query"`
	RequestedAt time.Time `json:"requested_at"`
}

func (e SearchRerun) EventType() string    { return TopicSearchRerun }
func (e SearchRerun) Timestamp() time.Time { return e.RequestedAt }
func (e SearchRerun) Payload() map[string]interface{} {
	return toPayload(e)
}

// ExportCompleted is emitted after a CSV artifact was produced.
type ExportCompleted struct {
	UserID      uuid.UUID `json:"user_id"`
	Query       string    `json:"query"`
	Filename    string    `json:"filename"`
	RecordCount int       `json:"record_count"`
	ExportedAt  time.Time `json:"exported_at"`
}

func (e ExportCompleted) EventType() string    { return TopicExportCompleted }
func (e ExportCompleted) Timestamp() time.Time { return e.ExportedAt }
func (e ExportCompleted) Payload() map[string]interface{} {
	return toPayload(e)
}

// EmailResult reports the outcome of one report delivery attempt.
type EmailResult struct {
	UserID    uuid.UUID `json:"user_id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Query     string    `json:"query"`
	Detail    string    `json:"detail,omitempty"`
	Delivered bool      `json:"delivered"`
	SentAt    time.Time `json:"sent_at"`
}

func (e EmailResult) EventType() string {
	if e.Delivered {
		return TopicEmailDelivered
	}
	return TopicEmailFailed
}
func (e EmailResult) Timestamp() time.Time { return e.SentAt }
func (e EmailResult) Payload() map[string]interface{} {
	return toPayload(e)
}

// toPayload round-trips the struct through JSON so payload keys match the
// wire tags. These events are small; the cost is irrelevant.
func toPayload(v interface{}) map[string]interface{} {
	data, err := json.Marshal(v)
	if err != nil {
		return map[string]interface{}{}
	}
	out := map[string]interface{}{}
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]interface{}{}
	}
	return out
}
