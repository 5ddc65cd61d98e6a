package dto

import (
	"time"

	"github.com/google/uuid"
)

type HistoryListRequest struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

type SearchHistoryResponse struct {
	Id          uuid.UUID `json:"id"`
	Query       string    `json:"query"`
	Location    string    `json:"location,omitempty"`
	Source      string    `json:"source"`
	ResultCount int       `json:"result_count"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

type PaginatedResponse struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
