package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Ramish-fuh/Inventory-sub000/internal/middleware"
	"github.com/Ramish-fuh/Inventory-sub000/internal/models"
	"github.com/Ramish-fuh/Inventory-sub000/internal/notifier"
	"github.com/Ramish-fuh/Inventory-sub000/internal/repo"
	"github.com/go-chi/chi/v5"
)

// requestWithChiURLParams returns a request with chi route context and URL params set.
func requestWithChiURLParams(method, path string, body []byte, params map[string]string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	return r
}

func authenticated(r *http.Request, userID int) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.UserIDKey, userID))
}

// noopMailer and noopSink satisfy the notifier collaborator interfaces for
// handler tests that never let a job fire.
type noopMailer struct{}

func (noopMailer) SendMaintenanceReminder(string, models.Asset) error { return nil }
func (noopMailer) SendReminder(string, string, string) error          { return nil }

type noopSink struct{}

func (noopSink) Record(string, string, map[string]interface{}) {}

func notificationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "type", "message", "read", "scheduled_at", "recurring", "created_at",
	})
}

func TestNotificationHandler_ListNotifications(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM notifications\s+WHERE user_id = \$1`).
		WithArgs(3, 50, 0).
		WillReturnRows(notificationRows().
			AddRow(1, 3, "maintenance", "NOTICE: Maintenance due in 5 days for asset: p1 (T1)", false, nil, false, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE user_id = \$1 AND read = FALSE`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	h := &NotificationHandler{Repo: repo.NewNotificationRepo(db)}

	req := authenticated(httptest.NewRequest("GET", "/notifications", nil), 3)
	rr := httptest.NewRecorder()
	h.ListNotifications(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}
	var resp struct {
		Items []struct {
			ID      int    `json:"id"`
			Message string `json:"message"`
		} `json:"items"`
		Unread int `json:"unread"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Items) != 1 || resp.Unread != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNotificationHandler_ListNotifications_Unauthenticated(t *testing.T) {
	h := &NotificationHandler{}
	req := httptest.NewRequest("GET", "/notifications", nil)
	rr := httptest.NewRecorder()
	h.ListNotifications(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}

func TestNotificationHandler_ScheduleNotification(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	at := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	mock.ExpectQuery(`INSERT INTO notifications \(user_id, type, message, scheduled_at, recurring\)`).
		WithArgs(3, "reminder", "Renew cert", sqlmock.AnyArg(), false).
		WillReturnRows(notificationRows().
			AddRow(7, 3, "reminder", "Renew cert", false, at, false, time.Now()))

	// The job fires an hour out; the test ends long before.
	registry := notifier.NewRegistry(repo.NewUserRepo(db), noopMailer{}, noopSink{}, nil)
	defer registry.Stop()

	h := &NotificationHandler{Repo: repo.NewNotificationRepo(db), Registry: registry}

	body, _ := json.Marshal(map[string]interface{}{
		"user_id":      3,
		"message":      "Renew cert",
		"scheduled_at": at.Format(time.RFC3339),
	})
	req := authenticated(httptest.NewRequest("POST", "/notifications", bytes.NewReader(body)), 1)
	rr := httptest.NewRecorder()
	h.ScheduleNotification(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201, body: %s", rr.Code, rr.Body.String())
	}
	if registry.Jobs() != 1 {
		t.Errorf("jobs = %d, want 1", registry.Jobs())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestNotificationHandler_ScheduleNotification_Validation(t *testing.T) {
	h := &NotificationHandler{}

	body, _ := json.Marshal(map[string]interface{}{"message": "no user or time"})
	req := authenticated(httptest.NewRequest("POST", "/notifications", bytes.NewReader(body)), 1)
	rr := httptest.NewRecorder()
	h.ScheduleNotification(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := resp.Fields["user_id"]; !ok {
		t.Errorf("expected user_id validation error, got %+v", resp.Fields)
	}
	if _, ok := resp.Fields["scheduled_at"]; !ok {
		t.Errorf("expected scheduled_at validation error, got %+v", resp.Fields)
	}
}

func TestNotificationHandler_CancelSchedule(t *testing.T) {
	registry := notifier.NewRegistry(nil, noopMailer{}, noopSink{}, nil)
	defer registry.Stop()

	h := &NotificationHandler{Registry: registry}

	// Cancelling a notification with no live job still returns 204.
	req := requestWithChiURLParams("DELETE", "/notifications/42/schedule", nil, map[string]string{"id": "42"})
	rr := httptest.NewRecorder()
	h.CancelSchedule(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rr.Code)
	}
}

func TestNotificationHandler_MarkRead_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE notifications SET read = TRUE`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	h := &NotificationHandler{Repo: repo.NewNotificationRepo(db)}

	req := requestWithChiURLParams("POST", "/notifications/99/read", nil, map[string]string{"id": "99"})
	rr := httptest.NewRecorder()
	h.MarkRead(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
}
