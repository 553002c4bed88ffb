package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/Ramish-fuh/Inventory-sub000/internal/models"
)

// NotificationRepo persists notification records.
type NotificationRepo struct {
	DB *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db}
}

const notificationColumns = `id, user_id, type, message, read, scheduled_at, recurring, created_at`

func scanNotification(row interface{ Scan(...interface{}) error }, n *models.Notification) error {
	return row.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Read, &n.ScheduledAt, &n.Recurring, &n.CreatedAt)
}

// Create inserts an immediate notification for one recipient.
func (r *NotificationRepo) Create(ctx context.Context, userID int, ntype, message string) (*models.Notification, error) {
	n := &models.Notification{}
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO notifications (user_id, type, message)
		VALUES ($1, $2, $3)
		RETURNING `+notificationColumns,
		userID, ntype, message,
	)
	if err := scanNotification(row, n); err != nil {
		return nil, err
	}
	return n, nil
}

// CreateScheduled inserts an ad-hoc notification to be delivered at a later
// time by the dynamic job registry.
func (r *NotificationRepo) CreateScheduled(ctx context.Context, userID int, ntype, message string, at time.Time, recurring bool) (*models.Notification, error) {
	n := &models.Notification{}
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO notifications (user_id, type, message, scheduled_at, recurring)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		userID, ntype, message, at, recurring,
	)
	if err := scanNotification(row, n); err != nil {
		return nil, err
	}
	return n, nil
}

// GetByID returns one notification by id, or nil when absent.
func (r *NotificationRepo) GetByID(ctx context.Context, id int) (*models.Notification, error) {
	n := &models.Notification{}
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	err := scanNotification(row, n)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListForUser returns a user's notifications, newest first.
func (r *NotificationRepo) ListForUser(ctx context.Context, userID, limit, offset int) ([]models.Notification, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Notification
	for rows.Next() {
		var n models.Notification
		if err := scanNotification(rows, &n); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// MarkRead flips the read flag. The scheduler never mutates notifications
// after creation; this is the one externally driven mutation.
func (r *NotificationRepo) MarkRead(ctx context.Context, id int) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CountUnread returns the number of unread notifications for a user.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID int) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID).Scan(&n)
	return n, err
}
