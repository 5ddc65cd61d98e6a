package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"leadgen-suite-be/internal/model"
	"leadgen-suite-be/internal/pkg/logger"
	"leadgen-suite-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type fakeNotificationRepo struct {
	mu           sync.Mutex
	rows         []model.Notification
	markAllCalls int
	markAllDone  chan struct{}
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{markAllDone: make(chan struct{}, 16)}
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Notification
	for _, row := range f.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeNotificationRepo) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, row := range f.rows {
		if row.UserID == userID && !row.IsRead {
			n++
		}
	}
	return n, nil
}

func (f *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	f.markAllCalls++
	for i := range f.rows {
		if f.rows[i].UserID == userID {
			f.rows[i].IsRead = true
		}
	}
	f.mu.Unlock()
	f.markAllDone <- struct{}{}
	return nil
}

func (f *fakeNotificationRepo) markAllCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.markAllCalls
}

func (f *fakeNotificationRepo) savedRows() []model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Notification(nil), f.rows...)
}

type fakeEmailHistoryRepo struct {
	rows []model.EmailHistory
}

func (f *fakeEmailHistoryRepo) Create(ctx context.Context, row *model.EmailHistory) error {
	f.rows = append(f.rows, *row)
	return nil
}

func (f *fakeEmailHistoryRepo) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.EmailHistory, error) {
	out := f.rows
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeDelivery struct {
	mu     sync.Mutex
	pushed []model.Notification
}

func (f *fakeDelivery) Send(userID uuid.UUID, n model.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, n)
}

func (f *fakeDelivery) pushedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pushed)
}

func TestNotificationCreatedFromBusEvents(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	repo := newFakeNotificationRepo()
	delivery := &fakeDelivery{}
	svc := NewNotificationService(repo, &fakeEmailHistoryRepo{}, pubSub, delivery, time.Second, logger.NewNop())

	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}

	userID := uuid.New()
	log := logger.NewNop()
	publishEvent(pubSub, log, "test", events.ExportCompleted{
		UserID: userID, Query: "plumbers", Filename: "leads_plumbers_1.csv", RecordCount: 7, ExportedAt: time.Now(),
	})
	publishEvent(pubSub, log, "test", events.EmailResult{
		UserID: userID, Recipient: "a@b.c", Subject: "Report", Query: "plumbers", Delivered: true, SentAt: time.Now(),
	})
	publishEvent(pubSub, log, "test", events.EmailResult{
		UserID: userID, Recipient: "a@b.c", Subject: "Report", Query: "plumbers", Detail: "mailbox full", Delivered: false, SentAt: time.Now(),
	})

	deadline := time.After(2 * time.Second)
	for {
		if len(repo.savedRows()) == 3 && delivery.pushedCount() == 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("saved=%d pushed=%d, want 3/3", len(repo.savedRows()), delivery.pushedCount())
		case <-time.After(10 * time.Millisecond):
		}
	}

	categories := map[string]int{}
	for _, row := range repo.savedRows() {
		if row.UserID != userID {
			t.Errorf("notification for wrong user: %+v", row)
		}
		if row.IsRead {
			t.Error("new notifications must start unread")
		}
		categories[row.Category]++
	}
	if categories[model.NotificationExportResult] != 1 || categories[model.NotificationEmailResult] != 2 {
		t.Errorf("categories = %v", categories)
	}
}

func TestOpenFeedDebouncesMarkAllRead(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, &fakeEmailHistoryRepo{}, pubSub, nil, 50*time.Millisecond, logger.NewNop())

	userID := uuid.New()
	repo.Create(context.Background(), &model.Notification{ID: uuid.New(), UserID: userID, Category: model.NotificationGeneric})

	// A burst of opens collapses into one write.
	for i := 0; i < 5; i++ {
		res, err := svc.OpenFeed(context.Background(), userID, 10, 0)
		if err != nil {
			t.Fatalf("open feed: %v", err)
		}
		if i == 0 && res.UnreadCount != 1 {
			t.Errorf("unread before debounce fires = %d, want 1", res.UnreadCount)
		}
		time.Sleep(10 * time.Millisecond) // within the debounce window
	}

	if repo.markAllCount() != 0 {
		t.Fatal("mark-all-read fired inside the debounce window")
	}

	select {
	case <-repo.markAllDone:
	case <-time.After(2 * time.Second):
		t.Fatal("mark-all-read never fired")
	}

	// Quiet period: no further writes.
	select {
	case <-repo.markAllDone:
		t.Fatal("mark-all-read fired more than once")
	case <-time.After(150 * time.Millisecond):
	}
	if repo.markAllCount() != 1 {
		t.Errorf("markAllCalls = %d, want 1", repo.markAllCount())
	}

	unread, _ := repo.UnreadCount(context.Background(), userID)
	if unread != 0 {
		t.Errorf("unread after mark-all-read = %d", unread)
	}
}

func TestOpenFeedAfterQuietWindowWritesAgain(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	repo := newFakeNotificationRepo()
	svc := NewNotificationService(repo, &fakeEmailHistoryRepo{}, pubSub, nil, 20*time.Millisecond, logger.NewNop())

	userID := uuid.New()

	if _, err := svc.OpenFeed(context.Background(), userID, 10, 0); err != nil {
		t.Fatalf("open feed: %v", err)
	}
	<-repo.markAllDone

	if _, err := svc.OpenFeed(context.Background(), userID, 10, 0); err != nil {
		t.Fatalf("open feed: %v", err)
	}
	select {
	case <-repo.markAllDone:
	case <-time.After(2 * time.Second):
		t.Fatal("second open never triggered mark-all-read")
	}
}
