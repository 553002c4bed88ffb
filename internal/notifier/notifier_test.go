package notifier

import (
	"context"
	"sync"
	"time"

	"github.com/Ramish-fuh/Inventory-sub000/internal/models"
)

// Shared test fakes for the scanner, dispatcher, and registry tests.

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeAssets struct {
	assets []models.Asset
	err    error

	// captured arguments of the last call
	field      string
	start, end time.Time
}

func (f *fakeAssets) FindByDateRange(ctx context.Context, field string, start, end time.Time) ([]models.Asset, error) {
	f.field = field
	f.start = start
	f.end = end
	if f.err != nil {
		return nil, f.err
	}
	return f.assets, nil
}

type fakeUsers struct {
	admins    []models.User
	adminsErr error
	byID      map[int]*models.User
	byIDErr   error
}

func (f *fakeUsers) FindByRole(ctx context.Context, role string) ([]models.User, error) {
	if f.adminsErr != nil {
		return nil, f.adminsErr
	}
	return f.admins, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID[id], nil
}

type createdNotification struct {
	userID  int
	ntype   string
	message string
}

type fakeStore struct {
	mu      sync.Mutex
	created []createdNotification
	failFor map[int]error // userID -> error to return
}

func (f *fakeStore) Create(ctx context.Context, userID int, ntype, message string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[userID]; err != nil {
		return nil, err
	}
	f.created = append(f.created, createdNotification{userID, ntype, message})
	return &models.Notification{ID: len(f.created), UserID: userID, Type: ntype, Message: message}, nil
}

func (f *fakeStore) all() []createdNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]createdNotification, len(f.created))
	copy(out, f.created)
	return out
}

type sentMail struct {
	email   string
	subject string
	message string
}

type fakeMailer struct {
	mu          sync.Mutex
	maintenance []string // recipient emails
	reminders   []sentMail
	err         error
}

func (f *fakeMailer) SendMaintenanceReminder(email string, asset models.Asset) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.maintenance = append(f.maintenance, email)
	return nil
}

func (f *fakeMailer) SendReminder(email, subject, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.reminders = append(f.reminders, sentMail{email, subject, message})
	return nil
}

func (f *fakeMailer) sentReminders() []sentMail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentMail, len(f.reminders))
	copy(out, f.reminders)
	return out
}

type auditEvent struct {
	level string
	event string
	meta  map[string]interface{}
}

type fakeSink struct {
	mu     sync.Mutex
	events []auditEvent
}

func (f *fakeSink) Record(level, event string, metadata map[string]interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, auditEvent{level, event, metadata})
}

func (f *fakeSink) count(event string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.event == event {
			n++
		}
	}
	return n
}

func (f *fakeSink) countLevel(event, level string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, e := range f.events {
		if e.event == event && e.level == level {
			n++
		}
	}
	return n
}
