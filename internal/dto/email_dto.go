package dto

import (
	"time"

	"github.com/google/uuid"
)

type EmailReportRequest struct {
	RecipientEmail string         `json:"recipient_email" validate:"required,email"`
	Subject        string         `json:"subject,omitempty"`
	Message        string         `json:"message,omitempty"`
	Filters        *FilterRequest `json:"filters,omitempty"`
}

type EmailReportResponse struct {
	Recipient   string `json:"recipient"`
	Subject     string `json:"subject"`
	RecordCount int    `json:"record_count"`
	Status      string `json:"status"`
}

type EmailHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Recipient string    `json:"recipient"`
	Subject   string    `json:"subject"`
	Query     string    `json:"query"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
