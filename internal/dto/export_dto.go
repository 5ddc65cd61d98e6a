package dto

import (
	"time"

	"github.com/google/uuid"
)

// ExportRequest carries the filters of the view being exported so the
// CSV matches what the user currently sees, not the raw result set.
type ExportRequest struct {
	Filters *FilterRequest `json:"filters,omitempty"`
}

type ExportResponse struct {
	Filename    string `json:"filename"`
	RecordCount int    `json:"record_count"`
	Content     string `json:"content"`
}

type ExportHistoryResponse struct {
	Id          uuid.UUID `json:"id"`
	Query       string    `json:"query"`
	Filename    string    `json:"filename"`
	RecordCount int       `json:"record_count"`
	Timestamp   time.Time `json:"timestamp"`
}
