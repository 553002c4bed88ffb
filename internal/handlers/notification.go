package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/Ramish-fuh/Inventory-sub000/internal/middleware"
	"github.com/Ramish-fuh/Inventory-sub000/internal/models"
	"github.com/Ramish-fuh/Inventory-sub000/internal/notifier"
	"github.com/Ramish-fuh/Inventory-sub000/internal/repo"
	"github.com/go-chi/chi/v5"
)

// NotificationHandler serves a user's notifications and the ad-hoc
// scheduling surface backed by the dynamic job registry.
type NotificationHandler struct {
	Repo     *repo.NotificationRepo
	Registry *notifier.Registry
}

// ListNotifications returns the authenticated user's notifications, newest
// first, with the unread count. Query: limit (default 50), offset.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		JSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := 50
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= 200 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	list, err := h.Repo.ListForUser(r.Context(), userID, limit, offset)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	unread, err := h.Repo.CountUnread(r.Context(), userID)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"items":  list,
		"unread": unread,
		"limit":  limit,
		"offset": offset,
	})
}

// ScheduleNotification creates an ad-hoc notification and registers it with
// the dynamic job registry. Body: {"user_id": 1, "type": "reminder",
// "message": "...", "scheduled_at": "2026-09-01T09:00:00Z", "recurring": false}.
func (h *NotificationHandler) ScheduleNotification(w http.ResponseWriter, r *http.Request) {
	var input struct {
		UserID      int       `json:"user_id"`
		Type        string    `json:"type"`
		Message     string    `json:"message"`
		ScheduledAt time.Time `json:"scheduled_at"`
		Recurring   bool      `json:"recurring"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string)
	if input.UserID <= 0 {
		fields["user_id"] = "required"
	}
	if input.Message == "" {
		fields["message"] = "required"
	}
	if input.ScheduledAt.IsZero() {
		fields["scheduled_at"] = "required (RFC 3339)"
	}
	if len(fields) > 0 {
		JSONValidationError(w, "validation failed", fields, http.StatusBadRequest)
		return
	}
	if input.Type == "" {
		input.Type = models.NotificationReminder
	}

	n, err := h.Repo.CreateScheduled(r.Context(), input.UserID, input.Type, input.Message, input.ScheduledAt, input.Recurring)
	if err != nil {
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if err := h.Registry.ScheduleNotification(*n); err != nil {
		// The row exists but no timer could be registered; surface that.
		JSONError(w, "failed to schedule notification", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(n)
}

// CancelSchedule removes the live job for a notification, if any. Cancelling
// a notification with no live job (already fired, or never scheduled) is a
// no-op and still returns 204.
func (h *NotificationHandler) CancelSchedule(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	h.Registry.CancelNotification(id)
	w.WriteHeader(http.StatusNoContent)
}

// MarkRead flips a notification's read flag.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		JSONError(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.MarkRead(r.Context(), id); err != nil {
		if err == sql.ErrNoRows {
			JSONError(w, "notification not found", http.StatusNotFound)
			return
		}
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
