package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"leadgen-suite-be/internal/dto"
	"leadgen-suite-be/internal/entity"
	"leadgen-suite-be/internal/model"
	"leadgen-suite-be/internal/pkg/logger"
	"leadgen-suite-be/internal/pkg/serverutils"
	"leadgen-suite-be/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type fakeExportRepo struct {
	mu   sync.Mutex
	rows []model.Export
	done chan struct{}
}

func newFakeExportRepo() *fakeExportRepo {
	return &fakeExportRepo{done: make(chan struct{}, 16)}
}

func (f *fakeExportRepo) Create(ctx context.Context, row *model.Export) error {
	f.mu.Lock()
	f.rows = append(f.rows, *row)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *fakeExportRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Export, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Export(nil), f.rows...), int64(len(f.rows)), nil
}

func contactSession(t *testing.T, sessions *memory.ResultSessionRepository, userID uuid.UUID) {
	t.Helper()
	token := sessions.Begin(userID.String(), entity.SearchQuery{Query: "plumbers in Boston"}, "LinkedIn")
	ok := sessions.Complete(userID.String(), token, &entity.ResultSet{
		Query:  "plumbers in Boston",
		Source: "LinkedIn",
		Kind:   entity.KindContact,
		Records: []entity.ResultRecord{
			{ID: 1, Kind: entity.KindContact, Name: "Jane", Company: "Acme Plumbing", Source: "LinkedIn", Location: "Boston"},
			{ID: 2, Kind: entity.KindContact, Name: "John", Company: "Borealis Pipes", Source: "LinkedIn", Location: "Cambridge"},
		},
		CompletedAt: time.Now(),
	})
	if !ok {
		t.Fatal("failed to seed session")
	}
}

func TestExportProducesCSVAndPersists(t *testing.T) {
	sessions := memory.NewResultSessionRepository(time.Minute)
	repo := newFakeExportRepo()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewExportService(sessions, repo, pubSub, logger.NewNop())

	userID := uuid.New()
	contactSession(t, sessions, userID)

	res, err := svc.Export(context.Background(), userID, dto.ExportRequest{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.RecordCount != 2 {
		t.Errorf("record count = %d, want 2", res.RecordCount)
	}
	if !strings.HasPrefix(res.Filename, "leads_plumbers_in_Boston_") || !strings.HasSuffix(res.Filename, ".csv") {
		t.Errorf("filename = %q", res.Filename)
	}
	if !strings.HasPrefix(res.Content, "Name,Title,Company,Email,Phone,Source,Location") {
		t.Errorf("content header = %q", strings.SplitN(res.Content, "\n", 2)[0])
	}

	select {
	case <-repo.done:
	case <-time.After(2 * time.Second):
		t.Fatal("export row never persisted")
	}
	rows, _, _ := repo.ListByUser(context.Background(), userID, 10, 0)
	if len(rows) != 1 || rows[0].Filename != res.Filename || rows[0].RecordCount != 2 {
		t.Errorf("persisted rows = %+v", rows)
	}
}

func TestExportRespectsFilters(t *testing.T) {
	sessions := memory.NewResultSessionRepository(time.Minute)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewExportService(sessions, newFakeExportRepo(), pubSub, logger.NewNop())

	userID := uuid.New()
	contactSession(t, sessions, userID)

	res, err := svc.Export(context.Background(), userID, dto.ExportRequest{
		Filters: &dto.FilterRequest{Company: "acme"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.RecordCount != 1 || !strings.Contains(res.Content, "Acme Plumbing") || strings.Contains(res.Content, "Borealis") {
		t.Errorf("filtered export = %+v", res)
	}
}

func TestExportEmptyViewIsRejected(t *testing.T) {
	sessions := memory.NewResultSessionRepository(time.Minute)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewExportService(sessions, newFakeExportRepo(), pubSub, logger.NewNop())

	userID := uuid.New()
	contactSession(t, sessions, userID)

	// A filter that matches nothing must fail loudly, not produce an
	// empty file.
	_, err := svc.Export(context.Background(), userID, dto.ExportRequest{
		Filters: &dto.FilterRequest{Company: "no such company"},
	})

	var appErr *serverutils.AppError
	if !errors.As(err, &appErr) || appErr.Code != serverutils.CodeNoRecordsToExport {
		t.Errorf("error = %v, want NO_RECORDS_TO_EXPORT AppError", err)
	}
}

func TestExportWithoutSession(t *testing.T) {
	sessions := memory.NewResultSessionRepository(time.Minute)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewExportService(sessions, newFakeExportRepo(), pubSub, logger.NewNop())

	_, err := svc.Export(context.Background(), uuid.New(), dto.ExportRequest{})
	if err == nil {
		t.Fatal("export with no results must fail")
	}
}
