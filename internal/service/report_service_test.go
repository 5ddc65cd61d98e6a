package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"leadgen-suite-be/internal/dto"
	"leadgen-suite-be/internal/model"
	"leadgen-suite-be/internal/pkg/logger"
	"leadgen-suite-be/internal/pkg/mailer"
	"leadgen-suite-be/internal/pkg/serverutils"
	"leadgen-suite-be/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Report
	err  error
}

func (f *fakeMailer) SendReport(ctx context.Context, report mailer.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, report)
	return f.err
}

type recordingEmailRepo struct {
	mu   sync.Mutex
	rows []model.EmailHistory
	done chan struct{}
}

func newRecordingEmailRepo() *recordingEmailRepo {
	return &recordingEmailRepo{done: make(chan struct{}, 16)}
}

func (f *recordingEmailRepo) Create(ctx context.Context, row *model.EmailHistory) error {
	f.mu.Lock()
	f.rows = append(f.rows, *row)
	f.mu.Unlock()
	f.done <- struct{}{}
	return nil
}

func (f *recordingEmailRepo) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.EmailHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.EmailHistory(nil), f.rows...), nil
}

func TestSendReportAttachesCurrentView(t *testing.T) {
	sessions := memory.NewResultSessionRepository(time.Minute)
	mail := &fakeMailer{}
	repo := newRecordingEmailRepo()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewReportService(sessions, mail, repo, pubSub, logger.NewNop())

	userID := uuid.New()
	contactSession(t, sessions, userID)

	res, err := svc.SendReport(context.Background(), userID, dto.EmailReportRequest{
		RecipientEmail: "boss@example.com",
		Subject:        "Weekly leads",
		Message:        "See attached.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != model.EmailStatusDelivered || res.RecordCount != 2 {
		t.Errorf("response = %+v", res)
	}

	if len(mail.sent) != 1 {
		t.Fatalf("mailer called %d times, want 1", len(mail.sent))
	}
	report := mail.sent[0]
	if report.Recipient != "boss@example.com" || report.Query != "plumbers in Boston" {
		t.Errorf("report = %+v", report)
	}
	if !strings.Contains(report.CSVContent, "Acme Plumbing") {
		t.Error("CSV attachment missing current records")
	}

	select {
	case <-repo.done:
	case <-time.After(2 * time.Second):
		t.Fatal("email history never persisted")
	}
	rows, _ := repo.ListRecentByUser(context.Background(), userID, 10)
	if len(rows) != 1 || rows[0].Status != model.EmailStatusDelivered {
		t.Errorf("history rows = %+v", rows)
	}
}

func TestSendReportDefaultsSubjectFromQuery(t *testing.T) {
	sessions := memory.NewResultSessionRepository(time.Minute)
	mail := &fakeMailer{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewReportService(sessions, mail, newRecordingEmailRepo(), pubSub, logger.NewNop())

	userID := uuid.New()
	contactSession(t, sessions, userID)

	res, err := svc.SendReport(context.Background(), userID, dto.EmailReportRequest{
		RecipientEmail: "boss@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Subject != "Lead Report: plumbers in Boston" {
		t.Errorf("subject = %q", res.Subject)
	}
	if len(mail.sent) != 1 || mail.sent[0].Message == "" {
		t.Errorf("sent = %+v, want a default message body", mail.sent)
	}
}

func TestSendReportFailureSurfacesDetail(t *testing.T) {
	sessions := memory.NewResultSessionRepository(time.Minute)
	mail := &fakeMailer{err: errors.New("email send failed: mailbox unavailable")}
	repo := newRecordingEmailRepo()
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewReportService(sessions, mail, repo, pubSub, logger.NewNop())

	userID := uuid.New()
	contactSession(t, sessions, userID)

	_, err := svc.SendReport(context.Background(), userID, dto.EmailReportRequest{
		RecipientEmail: "boss@example.com",
		Subject:        "Weekly leads",
	})

	var appErr *serverutils.AppError
	if !errors.As(err, &appErr) || appErr.Code != serverutils.CodeEmailSendFailed {
		t.Fatalf("error = %v, want EMAIL_SEND_FAILED AppError", err)
	}
	if !strings.Contains(appErr.Message, "mailbox unavailable") {
		t.Errorf("message = %q, backend detail must surface verbatim", appErr.Message)
	}

	// The failed attempt still lands in history.
	select {
	case <-repo.done:
	case <-time.After(2 * time.Second):
		t.Fatal("failed attempt never persisted")
	}
	rows, _ := repo.ListRecentByUser(context.Background(), userID, 10)
	if len(rows) != 1 || rows[0].Status != model.EmailStatusFailed || rows[0].Detail == "" {
		t.Errorf("history rows = %+v", rows)
	}
}

func TestSendReportEmptyViewIsRejected(t *testing.T) {
	sessions := memory.NewResultSessionRepository(time.Minute)
	mail := &fakeMailer{}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	svc := NewReportService(sessions, mail, newRecordingEmailRepo(), pubSub, logger.NewNop())

	userID := uuid.New()
	contactSession(t, sessions, userID)

	_, err := svc.SendReport(context.Background(), userID, dto.EmailReportRequest{
		RecipientEmail: "boss@example.com",
		Subject:        "Weekly leads",
		Filters:        &dto.FilterRequest{Company: "nothing matches"},
	})

	var appErr *serverutils.AppError
	if !errors.As(err, &appErr) || appErr.Code != serverutils.CodeNoRecordsToExport {
		t.Errorf("error = %v, want NO_RECORDS_TO_EXPORT AppError", err)
	}
	if len(mail.sent) != 0 {
		t.Error("mailer must not be called for an empty view")
	}
}
