package models

import "time"

// AuditEntry represents one audit log row. Handler CRUD events carry the
// acting user's id; scheduler events have no user.
type AuditEntry struct {
	ID        int       `json:"id"`
	UserID    *int      `json:"user_id,omitempty"`
	Level     string    `json:"level"` // info, warn, error
	Event     string    `json:"event"` // e.g. asset.create, scan.maintenance
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
