package service

import (
	"context"
	"errors"
	"time"

	"leadgen-suite-be/internal/dto"
	"leadgen-suite-be/internal/model"
	"leadgen-suite-be/internal/pkg/logger"
	"leadgen-suite-be/internal/pkg/serverutils"
	"leadgen-suite-be/internal/repository/contract"
	"leadgen-suite-be/internal/repository/memory"
	"leadgen-suite-be/pkg/events"
	"leadgen-suite-be/pkg/export"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IExportService interface {
	Export(ctx context.Context, userID uuid.UUID, req dto.ExportRequest) (*dto.ExportResponse, error)
}

type exportService struct {
	sessions   *memory.ResultSessionRepository
	exportRepo contract.ExportRepository
	pubSub     *gochannel.GoChannel
	logger     logger.ILogger
}

func NewExportService(
	sessions *memory.ResultSessionRepository,
	exportRepo contract.ExportRepository,
	pubSub *gochannel.GoChannel,
	log logger.ILogger,
) IExportService {
	return &exportService{
		sessions:   sessions,
		exportRepo: exportRepo,
		pubSub:     pubSub,
		logger:     log,
	}
}

// Export builds a CSV of the records the user currently sees. The request
// carries the active filters so the artifact matches the filtered view,
// not the raw result set. An empty view is an explicit error, never an
// empty file.
func (s *exportService) Export(ctx context.Context, userID uuid.UUID, req dto.ExportRequest) (*dto.ExportResponse, error) {
	set, err := currentResultSet(s.sessions, userID)
	if err != nil {
		return nil, err
	}

	records := set.Records
	if req.Filters != nil {
		records = applyFilters(records, *req.Filters)
	}

	artifact, err := export.Build(records, set.Kind, set.Query, time.Now())
	if err != nil {
		if errors.Is(err, export.ErrNoRecordsToExport) {
			return nil, serverutils.NewAppError(
				serverutils.CodeNoRecordsToExport,
				fiber.StatusUnprocessableEntity,
				"there are no records to export",
				err,
			)
		}
		return nil, serverutils.NewAppError(serverutils.CodeInternal, fiber.StatusInternalServerError, "failed to build export", err)
	}

	s.persistExport(userID, set.Query, artifact)

	publishEvent(s.pubSub, s.logger, "ExportService", events.ExportCompleted{
		UserID:      userID,
		Query:       set.Query,
		Filename:    artifact.Filename,
		RecordCount: artifact.RecordCount,
		ExportedAt:  time.Now(),
	})

	return &dto.ExportResponse{
		Filename:    artifact.Filename,
		RecordCount: artifact.RecordCount,
		Content:     artifact.Content,
	}, nil
}

// persistExport records the artifact metadata. A write failure is logged
// and swallowed: the user still gets their download.
func (s *exportService) persistExport(userID uuid.UUID, query string, artifact *export.Artifact) {
	row := &model.Export{
		ID:          uuid.New(),
		UserID:      userID,
		Query:       query,
		Filename:    artifact.Filename,
		RecordCount: artifact.RecordCount,
		Timestamp:   time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.exportRepo.Create(ctx, row); err != nil {
			s.logger.Error("ExportService", "Failed to persist export", map[string]interface{}{
				"user_id":  userID.String(),
				"filename": artifact.Filename,
				"error":    err.Error(),
			})
		}
	}()
}
