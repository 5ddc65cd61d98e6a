package dto

import (
	"time"

	"leadgen-suite-be/internal/entity"

	"github.com/google/uuid"
)

type SearchRequest struct {
	Query     string `json:"query" validate:"required,min=2"`
	Location  string `json:"location,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
	Source    string `json:"source,omitempty"`
}

type SearchResponse struct {
	SearchId    uuid.UUID             `json:"search_id"`
	Query       string                `json:"query"`
	Source      string                `json:"source"`
	Kind        entity.RecordKind     `json:"kind"`
	ResultCount int                   `json:"result_count"`
	Records     []entity.ResultRecord `json:"records"`
	CompletedAt time.Time             `json:"completed_at"`
}

type SourceListResponse struct {
	Sources []SourceInfo `json:"sources"`
}

type SourceInfo struct {
	Id   string            `json:"id"`
	Name string            `json:"name"`
	Kind entity.RecordKind `json:"kind"`
}

type FilterRequest struct {
	Company      string `json:"company,omitempty"`
	Source       string `json:"source,omitempty"`
	Location     string `json:"location,omitempty"`
	Address      string `json:"address,omitempty"`
	Category     string `json:"category,omitempty"`
	SortByRating bool   `json:"sort_by_rating,omitempty"`
}

type FilterResponse struct {
	Query       string                `json:"query"`
	ResultCount int                   `json:"result_count"`
	Records     []entity.ResultRecord `json:"records"`
}
