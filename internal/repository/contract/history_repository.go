package contract

import (
	"context"

	"leadgen-suite-be/internal/model"

	"github.com/google/uuid"
)

// SearchHistoryRepository persists the append-only search log.
type SearchHistoryRepository interface {
	Create(ctx context.Context, row *model.SearchHistory) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.SearchHistory, int64, error)
}

// LeadRepository persists the per-record rows of a completed search.
type LeadRepository interface {
	CreateBulk(ctx context.Context, leads []*model.Lead) error
	ListBySearch(ctx context.Context, searchID uuid.UUID) ([]model.Lead, error)
}

// ExportRepository persists CSV artifact metadata.
type ExportRepository interface {
	Create(ctx context.Context, row *model.Export) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Export, int64, error)
}

// EmailHistoryRepository persists report-delivery attempts.
type EmailHistoryRepository interface {
	Create(ctx context.Context, row *model.EmailHistory) error
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.EmailHistory, error)
}
