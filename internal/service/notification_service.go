package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"leadgen-suite-be/internal/dto"
	"leadgen-suite-be/internal/model"
	"leadgen-suite-be/internal/pkg/logger"
	"leadgen-suite-be/internal/repository/contract"
	"leadgen-suite-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification model.Notification)
}

type INotificationService interface {
	Start(ctx context.Context) error
	OpenFeed(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error)
	RecentEmails(ctx context.Context, userID uuid.UUID) ([]dto.EmailHistoryResponse, error)
}

// notificationService turns export and email outcomes into feed entries.
// Opening the feed marks everything read, but only after a quiet period:
// rapid open/close cycles collapse into one MarkAllAsRead write.
type notificationService struct {
	repo      contract.NotificationRepository
	emailRepo contract.EmailHistoryRepository
	pubSub    *gochannel.GoChannel
	delivery  NotificationDelivery
	logger    logger.ILogger

	debounce time.Duration
	mu       sync.Mutex
	timers   map[uuid.UUID]*time.Timer
}

func NewNotificationService(
	repo contract.NotificationRepository,
	emailRepo contract.EmailHistoryRepository,
	pubSub *gochannel.GoChannel,
	delivery NotificationDelivery,
	debounce time.Duration,
	log logger.ILogger,
) INotificationService {
	if debounce <= 0 {
		debounce = 3 * time.Second
	}
	return &notificationService{
		repo:      repo,
		emailRepo: emailRepo,
		pubSub:    pubSub,
		delivery:  delivery,
		logger:    log,
		debounce:  debounce,
		timers:    make(map[uuid.UUID]*time.Timer),
	}
}

// Start subscribes to the outcome topics. One goroutine per topic; the
// gochannel bus closes the channels when its context ends.
func (s *notificationService) Start(ctx context.Context) error {
	topics := []string{
		events.TopicExportCompleted,
		events.TopicEmailDelivered,
		events.TopicEmailFailed,
	}

	for _, topic := range topics {
		messages, err := s.pubSub.Subscribe(ctx, topic)
		if err != nil {
			return err
		}
		go func(topic string, messages <-chan *message.Message) {
			for msg := range messages {
				s.handleMessage(ctx, topic, msg)
			}
		}(topic, messages)
	}

	s.logger.Info("NotificationService", "Notification service started", map[string]interface{}{"topics": topics})
	return nil
}

func (s *notificationService) handleMessage(ctx context.Context, topic string, msg *message.Message) {
	notif, ok := s.buildNotification(topic, msg.Payload)
	if !ok {
		msg.Ack()
		return
	}

	if err := s.repo.Create(ctx, &notif); err != nil {
		s.logger.Error("NotificationService", "Failed to save notification", map[string]interface{}{
			"user_id": notif.UserID.String(),
			"error":   err.Error(),
		})
		// Feed entry is lost but the push still goes out.
	}

	if s.delivery != nil {
		s.delivery.Send(notif.UserID, notif)
	}
	msg.Ack()
}

func (s *notificationService) buildNotification(topic string, payload []byte) (model.Notification, bool) {
	switch topic {
	case events.TopicExportCompleted:
		var e events.ExportCompleted
		if err := json.Unmarshal(payload, &e); err != nil {
			s.logger.Error("NotificationService", "Bad export event payload", map[string]interface{}{"error": err.Error()})
			return model.Notification{}, false
		}
		return s.newNotification(
			e.UserID,
			model.NotificationExportResult,
			"Export ready",
			fmt.Sprintf("Exported %d records for %q to %s", e.RecordCount, e.Query, e.Filename),
			e.Payload(),
		), true

	case events.TopicEmailDelivered:
		var e events.EmailResult
		if err := json.Unmarshal(payload, &e); err != nil {
			s.logger.Error("NotificationService", "Bad email event payload", map[string]interface{}{"error": err.Error()})
			return model.Notification{}, false
		}
		return s.newNotification(
			e.UserID,
			model.NotificationEmailResult,
			"Report sent",
			fmt.Sprintf("Report for %q delivered to %s", e.Query, e.Recipient),
			e.Payload(),
		), true

	case events.TopicEmailFailed:
		var e events.EmailResult
		if err := json.Unmarshal(payload, &e); err != nil {
			s.logger.Error("NotificationService", "Bad email event payload", map[string]interface{}{"error": err.Error()})
			return model.Notification{}, false
		}
		msg := fmt.Sprintf("Report for %q to %s failed", e.Query, e.Recipient)
		if e.Detail != "" {
			msg = fmt.Sprintf("%s: %s", msg, e.Detail)
		}
		return s.newNotification(e.UserID, model.NotificationEmailResult, "Report failed", msg, e.Payload()), true
	}

	return model.Notification{}, false
}

func (s *notificationService) newNotification(userID uuid.UUID, category, title, msg string, meta map[string]interface{}) model.Notification {
	metaJSON, _ := json.Marshal(meta)
	return model.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Category:  category,
		Title:     title,
		Message:   msg,
		Metadata:  datatypes.JSON(metaJSON),
		IsRead:    false,
		CreatedAt: time.Now(),
	}
}

// OpenFeed returns the feed and schedules the mark-all-read that opening
// it implies. The unread count in the response reflects the state before
// the pending mark-all-read fires.
func (s *notificationService) OpenFeed(ctx context.Context, userID uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]dto.NotificationResponse, 0, len(rows))
	for _, row := range rows {
		var meta map[string]interface{}
		if len(row.Metadata) > 0 {
			_ = json.Unmarshal(row.Metadata, &meta)
		}
		items = append(items, dto.NotificationResponse{
			Id:        row.ID,
			Category:  row.Category,
			Title:     row.Title,
			Body:      row.Message,
			Metadata:  meta,
			IsRead:    row.IsRead,
			CreatedAt: row.CreatedAt,
		})
	}

	s.scheduleMarkAllRead(userID)

	return &dto.NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
		Total:         total,
	}, nil
}

// RecentEmails returns the ten newest delivery attempts, the raw feed the
// dashboard bell is built from.
func (s *notificationService) RecentEmails(ctx context.Context, userID uuid.UUID) ([]dto.EmailHistoryResponse, error) {
	rows, err := s.emailRepo.ListRecentByUser(ctx, userID, 10)
	if err != nil {
		return nil, err
	}

	items := make([]dto.EmailHistoryResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.EmailHistoryResponse{
			Id:        row.ID,
			Recipient: row.Recipient,
			Subject:   row.Subject,
			Query:     row.Query,
			Status:    row.Status,
			Detail:    row.Detail,
			Timestamp: row.Timestamp,
		})
	}
	return items, nil
}

// scheduleMarkAllRead resets the user's debounce timer. Only after the
// feed has been quiet for the full window does the write happen, so a
// burst of opens costs one UPDATE.
func (s *notificationService) scheduleMarkAllRead(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[userID]; ok {
		t.Stop()
	}

	s.timers[userID] = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		delete(s.timers, userID)
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
			s.logger.Error("NotificationService", "Failed to mark notifications read", map[string]interface{}{
				"user_id": userID.String(),
				"error":   err.Error(),
			})
		}
	})
}
