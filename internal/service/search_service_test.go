package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"leadgen-suite-be/internal/dto"
	"leadgen-suite-be/internal/entity"
	"leadgen-suite-be/internal/model"
	"leadgen-suite-be/internal/pkg/logger"
	"leadgen-suite-be/internal/pkg/serverutils"
	"leadgen-suite-be/internal/repository/memory"
	"leadgen-suite-be/internal/source"
	"leadgen-suite-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// --- fakes ---

type stubAdapter struct {
	name string
	kind entity.RecordKind
	fn   func(ctx context.Context, q entity.SearchQuery) ([]entity.ResultRecord, error)
}

func (s *stubAdapter) Name() string            { return s.name }
func (s *stubAdapter) Kind() entity.RecordKind { return s.kind }
func (s *stubAdapter) Search(ctx context.Context, q entity.SearchQuery) ([]entity.ResultRecord, error) {
	return s.fn(ctx, q)
}

type fakeHistoryRepo struct {
	created chan *model.SearchHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{created: make(chan *model.SearchHistory, 16)}
}

func (f *fakeHistoryRepo) Create(ctx context.Context, row *model.SearchHistory) error {
	f.created <- row
	return nil
}

func (f *fakeHistoryRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.SearchHistory, int64, error) {
	return nil, 0, nil
}

type fakeLeadRepo struct {
	created chan []*model.Lead
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{created: make(chan []*model.Lead, 16)}
}

func (f *fakeLeadRepo) CreateBulk(ctx context.Context, leads []*model.Lead) error {
	f.created <- leads
	return nil
}

func (f *fakeLeadRepo) ListBySearch(ctx context.Context, searchID uuid.UUID) ([]model.Lead, error) {
	return nil, nil
}

type searchHarness struct {
	svc      ISearchService
	sessions *memory.ResultSessionRepository
	history  *fakeHistoryRepo
	leads    *fakeLeadRepo
	events   <-chan *message.Message
}

func newSearchHarness(t *testing.T, adapter source.Adapter) *searchHarness {
	t.Helper()

	registry := source.NewRegistry("stub")
	registry.Register("stub", adapter)

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	completed, err := pubSub.Subscribe(context.Background(), events.TopicSearchCompleted)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sessions := memory.NewResultSessionRepository(time.Minute)
	history := newFakeHistoryRepo()
	leads := newFakeLeadRepo()

	svc := NewSearchService(registry, sessions, pubSub, history, leads, nil, logger.NewNop())
	return &searchHarness{svc: svc, sessions: sessions, history: history, leads: leads, events: completed}
}

func (h *searchHarness) waitCompleted(t *testing.T) events.SearchCompleted {
	t.Helper()
	select {
	case msg := <-h.events:
		msg.Ack()
		var e events.SearchCompleted
		if err := json.Unmarshal(msg.Payload, &e); err != nil {
			t.Fatalf("bad completed payload: %v", err)
		}
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("no search.completed event published")
		return events.SearchCompleted{}
	}
}

func (h *searchHarness) assertNoMoreCompleted(t *testing.T) {
	t.Helper()
	select {
	case msg := <-h.events:
		msg.Ack()
		t.Fatalf("unexpected extra search.completed event: %s", msg.Payload)
	case <-time.After(150 * time.Millisecond):
	}
}

// --- tests ---

func TestSearchSuccessInstallsResults(t *testing.T) {
	adapter := &stubAdapter{name: "Stub", kind: entity.KindContact, fn: func(ctx context.Context, q entity.SearchQuery) ([]entity.ResultRecord, error) {
		return []entity.ResultRecord{
			{ID: 1, Kind: entity.KindContact, Name: "Jane", Company: "Initech"},
			{ID: 2, Kind: entity.KindContact, Name: "John"},
		}, nil
	}}
	h := newSearchHarness(t, adapter)
	userID := uuid.New()

	res, err := h.svc.Search(context.Background(), userID, dto.SearchRequest{Query: "sales leads"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ResultCount != 2 || len(res.Records) != 2 {
		t.Errorf("response = %+v", res)
	}

	e := h.waitCompleted(t)
	if e.ResultCount != 2 || e.Query != "sales leads" {
		t.Errorf("completed event = %+v", e)
	}
	h.assertNoMoreCompleted(t)

	session, ok := h.sessions.Get(userID.String())
	if !ok || session.State != memory.StateCompleted || session.Results.Len() != 2 {
		t.Errorf("session = %+v, ok=%v", session, ok)
	}

	// History and leads land asynchronously.
	select {
	case row := <-h.history.created:
		if row.Status != model.SearchStatusCompleted || row.ResultCount != 2 {
			t.Errorf("history row = %+v", row)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("history row never persisted")
	}
	select {
	case leads := <-h.leads.created:
		if len(leads) != 2 || leads[0].Company != "Initech" {
			t.Errorf("lead rows = %+v", leads)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("lead rows never persisted")
	}
}

func TestSearchEmptySuccessIsNotFailure(t *testing.T) {
	adapter := &stubAdapter{name: "Stub", kind: entity.KindContact, fn: func(ctx context.Context, q entity.SearchQuery) ([]entity.ResultRecord, error) {
		return []entity.ResultRecord{}, nil
	}}
	h := newSearchHarness(t, adapter)
	userID := uuid.New()

	res, err := h.svc.Search(context.Background(), userID, dto.SearchRequest{Query: "nothing here"})
	if err != nil {
		t.Fatalf("an empty result set is a success, got error %v", err)
	}
	if res.ResultCount != 0 {
		t.Errorf("response = %+v", res)
	}

	e := h.waitCompleted(t)
	if e.ResultCount != 0 {
		t.Errorf("completed event = %+v", e)
	}
	h.assertNoMoreCompleted(t)

	session, _ := h.sessions.Get(userID.String())
	if session.State != memory.StateCompleted {
		t.Errorf("empty success must still complete the session, state=%s", session.State)
	}
}

func TestSearchFailurePublishesSingleEmptyCompletion(t *testing.T) {
	adapter := &stubAdapter{name: "Stub", kind: entity.KindContact, fn: func(ctx context.Context, q entity.SearchQuery) ([]entity.ResultRecord, error) {
		return nil, fmt.Errorf("%w: connection refused", source.ErrSourceUnavailable)
	}}
	h := newSearchHarness(t, adapter)
	userID := uuid.New()

	_, err := h.svc.Search(context.Background(), userID, dto.SearchRequest{Query: "q"})
	if err == nil {
		t.Fatal("expected an error")
	}

	var appErr *serverutils.AppError
	if !errors.As(err, &appErr) || appErr.Code != serverutils.CodeSourceUnavailable {
		t.Errorf("error = %v, want SOURCE_UNAVAILABLE AppError", err)
	}
	if appErr.Message == "" {
		t.Error("failure must carry a readable message")
	}

	e := h.waitCompleted(t)
	if e.ResultCount != 0 {
		t.Errorf("failed run must complete with zero records, got %d", e.ResultCount)
	}
	h.assertNoMoreCompleted(t)

	session, _ := h.sessions.Get(userID.String())
	if session.State != memory.StateFailed {
		t.Errorf("session state = %s, want failed", session.State)
	}

	// Failure still appends history.
	select {
	case row := <-h.history.created:
		if row.Status != model.SearchStatusFailed || row.ResultCount != 0 {
			t.Errorf("history row = %+v", row)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("failed run never recorded in history")
	}
}

func TestSearchMalformedResponseCode(t *testing.T) {
	adapter := &stubAdapter{name: "Stub", kind: entity.KindContact, fn: func(ctx context.Context, q entity.SearchQuery) ([]entity.ResultRecord, error) {
		return nil, fmt.Errorf("%w: bad envelope", source.ErrMalformedResponse)
	}}
	h := newSearchHarness(t, adapter)

	_, err := h.svc.Search(context.Background(), uuid.New(), dto.SearchRequest{Query: "q"})

	var appErr *serverutils.AppError
	if !errors.As(err, &appErr) || appErr.Code != serverutils.CodeMalformedResponse {
		t.Errorf("error = %v, want MALFORMED_RESPONSE AppError", err)
	}
	h.waitCompleted(t)
}

func TestOverlappingSearchesNewestWins(t *testing.T) {
	release := make(chan struct{})
	adapter := &stubAdapter{name: "Stub", kind: entity.KindContact, fn: func(ctx context.Context, q entity.SearchQuery) ([]entity.ResultRecord, error) {
		if q.Query == "first" {
			<-release // first search hangs until the second finished
			return []entity.ResultRecord{{ID: 1, Name: "stale"}}, nil
		}
		return []entity.ResultRecord{{ID: 1, Name: "fresh"}}, nil
	}}
	h := newSearchHarness(t, adapter)
	userID := uuid.New()

	firstDone := make(chan error, 1)
	go func() {
		_, err := h.svc.Search(context.Background(), userID, dto.SearchRequest{Query: "first"})
		firstDone <- err
	}()

	// Wait for the first search to be in flight.
	deadline := time.After(2 * time.Second)
	for {
		if session, ok := h.sessions.Get(userID.String()); ok && session.State == memory.StateSearching {
			break
		}
		select {
		case <-deadline:
			t.Fatal("first search never started")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if _, err := h.svc.Search(context.Background(), userID, dto.SearchRequest{Query: "second"}); err != nil {
		t.Fatalf("second search failed: %v", err)
	}

	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first search failed: %v", err)
	}

	// Both runs complete, each publishing exactly one event.
	h.waitCompleted(t)
	h.waitCompleted(t)
	h.assertNoMoreCompleted(t)

	session, _ := h.sessions.Get(userID.String())
	if session.Results.Records[0].Name != "fresh" {
		t.Errorf("installed records = %+v, the stale run must not overwrite the newer one", session.Results.Records)
	}
}

func TestSearchUnknownSource(t *testing.T) {
	h := newSearchHarness(t, &stubAdapter{name: "Stub", kind: entity.KindContact, fn: nil})

	_, err := h.svc.Search(context.Background(), uuid.New(), dto.SearchRequest{Query: "q", Source: "bing"})
	var appErr *serverutils.AppError
	if !errors.As(err, &appErr) || appErr.Code != serverutils.CodeValidationFailed {
		t.Errorf("error = %v, want VALIDATION_FAILED AppError", err)
	}
}
