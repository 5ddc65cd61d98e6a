package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadgen-suite-be/internal/dto"
	"leadgen-suite-be/internal/entity"
	"leadgen-suite-be/internal/model"
	"leadgen-suite-be/internal/pkg/logger"
	"leadgen-suite-be/internal/pkg/serverutils"
	"leadgen-suite-be/internal/repository/contract"
	"leadgen-suite-be/internal/repository/memory"
	"leadgen-suite-be/internal/source"
	"leadgen-suite-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISearchService interface {
	Search(ctx context.Context, userID uuid.UUID, req dto.SearchRequest) (*dto.SearchResponse, error)
	Sources() dto.SourceListResponse
	StartRerunWorker(ctx context.Context) error
}

type searchService struct {
	registry    *source.Registry
	sessions    *memory.ResultSessionRepository
	pubSub      *gochannel.GoChannel
	historyRepo contract.SearchHistoryRepository
	leadRepo    contract.LeadRepository
	quota       *SearchQuota
	logger      logger.ILogger
}

func NewSearchService(
	registry *source.Registry,
	sessions *memory.ResultSessionRepository,
	pubSub *gochannel.GoChannel,
	historyRepo contract.SearchHistoryRepository,
	leadRepo contract.LeadRepository,
	quota *SearchQuota,
	log logger.ILogger,
) ISearchService {
	return &searchService{
		registry:    registry,
		sessions:    sessions,
		pubSub:      pubSub,
		historyRepo: historyRepo,
		leadRepo:    leadRepo,
		quota:       quota,
		logger:      log,
	}
}

// Search runs one query against the chosen backend and installs the
// normalized records as the user's current result set.
//
// Two invariants live here. First, exactly one search.completed event is
// published per run, success or failure; a failed run completes with zero
// records. Second, when runs for the same user overlap, only the newest
// token may install its records: the session repository rejects the stale
// one and its results are dropped.
func (s *searchService) Search(ctx context.Context, userID uuid.UUID, req dto.SearchRequest) (*dto.SearchResponse, error) {
	adapter, err := s.registry.Get(req.Source)
	if err != nil {
		return nil, serverutils.NewAppError(serverutils.CodeValidationFailed, fiber.StatusBadRequest, err.Error(), err)
	}

	if s.quota != nil {
		if quotaErr := s.quota.Consume(ctx, userID); quotaErr != nil {
			return nil, quotaErr
		}
	}

	q := entity.SearchQuery{
		Query:     req.Query,
		Location:  req.Location,
		Timeframe: req.Timeframe,
	}

	token := s.sessions.Begin(userID.String(), q, adapter.Name())

	publishEvent(s.pubSub, s.logger, "SearchService", events.SearchStarted{
		UserID:    userID,
		Query:     req.Query,
		Source:    adapter.Name(),
		Token:     token,
		StartedAt: time.Now(),
	})

	records, err := adapter.Search(ctx, q)
	if err != nil {
		s.sessions.Fail(userID.String(), token)
		publishEvent(s.pubSub, s.logger, "SearchService", events.SearchCompleted{
			UserID:      userID,
			Query:       req.Query,
			Source:      adapter.Name(),
			Token:       token,
			ResultCount: 0,
			CompletedAt: time.Now(),
		})
		s.persistHistory(userID, req, adapter.Name(), 0, model.SearchStatusFailed, nil)
		return nil, s.mapSourceError(adapter.Name(), err)
	}

	now := time.Now()
	set := &entity.ResultSet{
		Query:       req.Query,
		Source:      adapter.Name(),
		Kind:        adapter.Kind(),
		Records:     records,
		CompletedAt: now,
	}

	installed := s.sessions.Complete(userID.String(), token, set)
	if !installed {
		s.logger.Info("SearchService", "Discarding superseded search result", map[string]interface{}{
			"user_id": userID.String(),
			"query":   req.Query,
			"token":   token,
		})
	}

	publishEvent(s.pubSub, s.logger, "SearchService", events.SearchCompleted{
		UserID:      userID,
		Query:       req.Query,
		Source:      adapter.Name(),
		Token:       token,
		ResultCount: len(records),
		CompletedAt: now,
	})

	searchID := s.persistHistory(userID, req, adapter.Name(), len(records), model.SearchStatusCompleted, records)

	return &dto.SearchResponse{
		SearchId:    searchID,
		Query:       req.Query,
		Source:      adapter.Name(),
		Kind:        adapter.Kind(),
		ResultCount: len(records),
		Records:     records,
		CompletedAt: now,
	}, nil
}

func (s *searchService) Sources() dto.SourceListResponse {
	resp := dto.SourceListResponse{Sources: []dto.SourceInfo{}}
	for _, id := range s.registry.Sources() {
		a, err := s.registry.Get(id)
		if err != nil {
			continue
		}
		resp.Sources = append(resp.Sources, dto.SourceInfo{
			Id:   id,
			Name: a.Name(),
			Kind: a.Kind(),
		})
	}
	return resp
}

// StartRerunWorker consumes search.rerun requests published by the history
// surface and re-executes them against the default backend.
func (s *searchService) StartRerunWorker(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, events.TopicSearchRerun)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processRerun(ctx, msg)
		}
	}()

	return nil
}

func (s *searchService) processRerun(ctx context.Context, msg *message.Message) {
	var payload events.SearchRerun
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("SearchService", "Failed to unmarshal rerun request", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}

	_, err := s.Search(ctx, payload.UserID, dto.SearchRequest{Query: payload.Query})
	if err != nil {
		// The rerun already recorded its own failure; nothing to retry here.
		s.logger.Warn("SearchService", "Rerun search failed", map[string]interface{}{
			"user_id": payload.UserID.String(),
			"query":   payload.Query,
			"error":   err.Error(),
		})
	}
	msg.Ack()
}

// persistHistory appends the history row and, for completed runs, the
// lead rows. Failures here never fail the search itself.
func (s *searchService) persistHistory(userID uuid.UUID, req dto.SearchRequest, sourceName string, count int, status string, records []entity.ResultRecord) uuid.UUID {
	row := &model.SearchHistory{
		ID:          uuid.New(),
		UserID:      userID,
		Query:       req.Query,
		Location:    req.Location,
		Source:      sourceName,
		ResultCount: count,
		Status:      status,
		Timestamp:   time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.historyRepo.Create(ctx, row); err != nil {
			s.logger.Error("SearchService", "Failed to persist search history", map[string]interface{}{
				"user_id": userID.String(),
				"query":   req.Query,
				"error":   err.Error(),
			})
			return
		}

		if len(records) == 0 {
			return
		}

		leads := make([]*model.Lead, 0, len(records))
		for _, rec := range records {
			leads = append(leads, &model.Lead{
				ID:          uuid.New(),
				UserID:      userID,
				SearchID:    row.ID,
				Kind:        string(rec.Kind),
				Name:        rec.Name,
				Title:       rec.Title,
				Company:     rec.Company,
				Email:       rec.Email,
				Phone:       rec.Phone,
				Source:      rec.Source,
				Location:    rec.Location,
				Address:     rec.Address,
				Website:     rec.Website,
				Rating:      rec.Rating,
				RatingCount: rec.RatingCount,
				Category:    rec.Category,
				CreatedAt:   time.Now(),
			})
		}
		if err := s.leadRepo.CreateBulk(ctx, leads); err != nil {
			s.logger.Error("SearchService", "Failed to persist leads", map[string]interface{}{
				"user_id":   userID.String(),
				"search_id": row.ID.String(),
				"error":     err.Error(),
			})
		}
	}()

	return row.ID
}

func (s *searchService) mapSourceError(sourceName string, err error) error {
	if errors.Is(err, source.ErrMalformedResponse) {
		return serverutils.NewAppError(
			serverutils.CodeMalformedResponse,
			fiber.StatusBadGateway,
			fmt.Sprintf("%s returned a response we could not understand", sourceName),
			err,
		)
	}
	return serverutils.NewAppError(
		serverutils.CodeSourceUnavailable,
		fiber.StatusBadGateway,
		fmt.Sprintf("%s is unavailable right now, please try again", sourceName),
		err,
	)
}
