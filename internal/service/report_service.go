package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"leadgen-suite-be/internal/dto"
	"leadgen-suite-be/internal/model"
	"leadgen-suite-be/internal/pkg/logger"
	"leadgen-suite-be/internal/pkg/mailer"
	"leadgen-suite-be/internal/pkg/serverutils"
	"leadgen-suite-be/internal/repository/contract"
	"leadgen-suite-be/internal/repository/memory"
	"leadgen-suite-be/pkg/events"
	"leadgen-suite-be/pkg/export"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReportService interface {
	SendReport(ctx context.Context, userID uuid.UUID, req dto.EmailReportRequest) (*dto.EmailReportResponse, error)
}

// reportService emails the current result view as a CSV report. Delivery
// goes through the mailer, which picks relay or SMTP on its own.
type reportService struct {
	sessions  *memory.ResultSessionRepository
	mailer    mailer.IEmailService
	emailRepo contract.EmailHistoryRepository
	pubSub    *gochannel.GoChannel
	logger    logger.ILogger
}

func NewReportService(
	sessions *memory.ResultSessionRepository,
	mail mailer.IEmailService,
	emailRepo contract.EmailHistoryRepository,
	pubSub *gochannel.GoChannel,
	log logger.ILogger,
) IReportService {
	return &reportService{
		sessions:  sessions,
		mailer:    mail,
		emailRepo: emailRepo,
		pubSub:    pubSub,
		logger:    log,
	}
}

func (s *reportService) SendReport(ctx context.Context, userID uuid.UUID, req dto.EmailReportRequest) (*dto.EmailReportResponse, error) {
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
				"there are no records to send",
				err,
			)
		}
		return nil, serverutils.NewAppError(serverutils.CodeInternal, fiber.StatusInternalServerError, "failed to build report", err)
	}

	subject := req.Subject
	if subject == "" {
		subject = "Lead Report: " + set.Query
	}
	message := req.Message
	if message == "" {
		message = fmt.Sprintf("Attached is your lead report for %q (%d records).", set.Query, artifact.RecordCount)
	}

	sendErr := s.mailer.SendReport(ctx, mailer.Report{
		Recipient:  req.RecipientEmail,
		Subject:    subject,
		Message:    message,
		Query:      set.Query,
		CSVContent: artifact.Content,
		CSVName:    artifact.Filename,
	})

	s.recordOutcome(userID, req.RecipientEmail, subject, set.Query, sendErr)

	if sendErr != nil {
		// The detail string already carries the backend's explanation.
		return nil, serverutils.NewAppError(
			serverutils.CodeEmailSendFailed,
			fiber.StatusBadGateway,
			sendErr.Error(),
			sendErr,
		)
	}

	return &dto.EmailReportResponse{
		Recipient:   req.RecipientEmail,
		Subject:     subject,
		RecordCount: artifact.RecordCount,
		Status:      model.EmailStatusDelivered,
	}, nil
}

// recordOutcome writes the email_history row and publishes the matching
// event. Both are side effects: neither failure changes what the caller
// sees about the delivery itself.
func (s *reportService) recordOutcome(userID uuid.UUID, recipient, subject, query string, sendErr error) {
	status := model.EmailStatusDelivered
	detail := ""
	if sendErr != nil {
		status = model.EmailStatusFailed
		detail = sendErr.Error()
	}

	row := &model.EmailHistory{
		ID:        uuid.New(),
		UserID:    userID,
		Recipient: recipient,
		Subject:   subject,
		Query:     query,
		Status:    status,
		Detail:    detail,
		Timestamp: time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.emailRepo.Create(ctx, row); err != nil {
			s.logger.Error("ReportService", "Failed to persist email history", map[string]interface{}{
				"user_id":   userID.String(),
				"recipient": recipient,
				"error":     err.Error(),
			})
		}
	}()

	publishEvent(s.pubSub, s.logger, "ReportService", events.EmailResult{
		UserID:    userID,
		Recipient: recipient,
		Subject:   subject,
		Query:     query,
		Detail:    detail,
		Delivered: sendErr == nil,
		SentAt:    time.Now(),
	})
}
