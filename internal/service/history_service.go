package service

import (
	"context"
	"time"

	"leadgen-suite-be/internal/dto"
	"leadgen-suite-be/internal/pkg/logger"
	"leadgen-suite-be/internal/repository/contract"
	"leadgen-suite-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IHistoryService interface {
	ListSearches(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.PaginatedResponse, error)
	ListExports(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.PaginatedResponse, error)
	RerunSearch(ctx context.Context, userID uuid.UUID, query string)
}

type historyService struct {
	historyRepo contract.SearchHistoryRepository
	exportRepo  contract.ExportRepository
	pubSub      *gochannel.GoChannel
	logger      logger.ILogger
}

func NewHistoryService(
	historyRepo contract.SearchHistoryRepository,
	exportRepo contract.ExportRepository,
	pubSub *gochannel.GoChannel,
	log logger.ILogger,
) IHistoryService {
	return &historyService{
		historyRepo: historyRepo,
		exportRepo:  exportRepo,
		pubSub:      pubSub,
		logger:      log,
	}
}

func (s *historyService) ListSearches(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.PaginatedResponse, error) {
	page, limit = normalizePage(page, limit)

	rows, total, err := s.historyRepo.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.SearchHistoryResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.SearchHistoryResponse{
			Id:          row.ID,
			Query:       row.Query,
			Location:    row.Location,
			Source:      row.Source,
			ResultCount: row.ResultCount,
			Status:      row.Status,
			Timestamp:   row.Timestamp,
		})
	}

	return &dto.PaginatedResponse{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *historyService) ListExports(ctx context.Context, userID uuid.UUID, page, limit int) (*dto.PaginatedResponse, error) {
	page, limit = normalizePage(page, limit)

	rows, total, err := s.exportRepo.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ExportHistoryResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.ExportHistoryResponse{
			Id:          row.ID,
			Query:       row.Query,
			Filename:    row.Filename,
			RecordCount: row.RecordCount,
			Timestamp:   row.Timestamp,
		})
	}

	return &dto.PaginatedResponse{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// RerunSearch asks the orchestrator to execute a historical query again.
// It only publishes the request; the rerun worker owns the execution.
func (s *historyService) RerunSearch(ctx context.Context, userID uuid.UUID, query string) {
	publishEvent(s.pubSub, s.logger, "HistoryService", events.SearchRerun{
		UserID:      userID,
		Query:       query,
		RequestedAt: time.Now(),
	})
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
