package service

import (
	"context"

	"leadgen-suite-be/internal/dto"
	"leadgen-suite-be/internal/entity"
	"leadgen-suite-be/internal/pkg/serverutils"
	"leadgen-suite-be/internal/repository/memory"
	"leadgen-suite-be/pkg/filter"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IResultService interface {
	Filter(ctx context.Context, userID uuid.UUID, req dto.FilterRequest) (*dto.FilterResponse, error)
	Current(ctx context.Context, userID uuid.UUID) (*dto.FilterResponse, error)
}

// resultService serves the read side of the current result set. Filtering
// never mutates the session: every call re-applies the predicates to the
// full set, so relaxing a filter brings records back.
type resultService struct {
	sessions *memory.ResultSessionRepository
}

func NewResultService(sessions *memory.ResultSessionRepository) IResultService {
	return &resultService{sessions: sessions}
}

func (s *resultService) Filter(ctx context.Context, userID uuid.UUID, req dto.FilterRequest) (*dto.FilterResponse, error) {
	set, err := currentResultSet(s.sessions, userID)
	if err != nil {
		return nil, err
	}

	records := applyFilters(set.Records, req)
	return &dto.FilterResponse{
		Query:       set.Query,
		ResultCount: len(records),
		Records:     records,
	}, nil
}

func (s *resultService) Current(ctx context.Context, userID uuid.UUID) (*dto.FilterResponse, error) {
	set, err := currentResultSet(s.sessions, userID)
	if err != nil {
		return nil, err
	}
	return &dto.FilterResponse{
		Query:       set.Query,
		ResultCount: set.Len(),
		Records:     set.Records,
	}, nil
}

// currentResultSet fetches the user's installed result set or explains why
// there is none. Shared by filter, export and email: they all operate on
// what the user currently sees.
func currentResultSet(sessions *memory.ResultSessionRepository, userID uuid.UUID) (*entity.ResultSet, error) {
	session, ok := sessions.Get(userID.String())
	if !ok || session.Results == nil {
		return nil, serverutils.NewAppError(
			serverutils.CodeValidationFailed,
			fiber.StatusNotFound,
			"no search results available, run a search first",
			nil,
		)
	}
	return session.Results, nil
}

// applyFilters maps the request onto the filter package and optionally
// applies the display sort.
func applyFilters(records []entity.ResultRecord, req dto.FilterRequest) []entity.ResultRecord {
	out := filter.Apply(records, filter.Predicates{
		Company:  req.Company,
		Source:   req.Source,
		Location: req.Location,
		Address:  req.Address,
		Category: req.Category,
	})
	if req.SortByRating {
		out = filter.SortByRatingDesc(out)
	}
	return out
}
