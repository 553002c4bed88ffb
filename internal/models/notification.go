package models

import "time"

// Notification types. The free-text message carries a severity token
// (NOTICE/WARNING) consumed by notification rendering for color coding.
const (
	NotificationMaintenance = "maintenance"
	NotificationWarranty    = "warranty"
	NotificationLicense     = "license"
	NotificationReminder    = "reminder"
)

type Notification struct {
	ID      int    `json:"id"`
	UserID  int    `json:"user_id"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Read    bool   `json:"read"`
	// ScheduledAt and Recurring are set only on ad-hoc notifications that
	// go through the dynamic job registry.
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Recurring   bool       `json:"recurring,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
