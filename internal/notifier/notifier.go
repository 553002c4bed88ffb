// Package notifier implements the asset lifecycle notification scheduler:
// daily expiry scans over the asset table, fan-out dispatch of notifications
// to the affected audience, and a dynamic in-memory registry of per-notification
// timers for ad-hoc one-shot and recurring deliveries.
//
// Nothing in this package propagates an error past its own task boundary: a
// malfunctioning notification path must never crash the scheduler. Failures
// are audited and the affected delivery is silently missed.
package notifier

import (
	"context"
	"time"

	"github.com/Ramish-fuh/Inventory-sub000/internal/models"
)

// Clock abstracts time.Now so tests can pin the scan window.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// AssetSource is the slice of the asset store the scanners need: a closed
// interval range query over one tracked date column, with the assigned user
// resolved.
type AssetSource interface {
	FindByDateRange(ctx context.Context, field string, start, end time.Time) ([]models.Asset, error)
}

// UserSource resolves notification recipients.
type UserSource interface {
	FindByRole(ctx context.Context, role string) ([]models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// NotificationStore creates notification records.
type NotificationStore interface {
	Create(ctx context.Context, userID int, ntype, message string) (*models.Notification, error)
}

// Mailer sends notification emails.
type Mailer interface {
	SendMaintenanceReminder(email string, asset models.Asset) error
	SendReminder(email, subject, message string) error
}

// AuditSink is the append-only audit trail. Implementations must never block
// the caller and must swallow their own failures.
type AuditSink interface {
	Record(level, event string, metadata map[string]interface{})
}
