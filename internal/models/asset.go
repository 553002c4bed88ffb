package models

import "time"

// Lifecycle date fields tracked per asset. Any of them may be NULL,
// meaning "not tracked", not "already expired".
const (
	FieldNextMaintenance = "next_maintenance"
	FieldWarrantyExpiry  = "warranty_expiry"
	FieldLicenseExpiry   = "license_expiry"
)

type Asset struct {
	ID              int        `json:"id"`
	Name            string     `json:"name"`
	Tag             string     `json:"tag"`
	Description     string     `json:"description"`
	NextMaintenance *time.Time `json:"next_maintenance,omitempty"`
	WarrantyExpiry  *time.Time `json:"warranty_expiry,omitempty"`
	LicenseExpiry   *time.Time `json:"license_expiry,omitempty"`
	AssignedTo      *int       `json:"assigned_to,omitempty"`
	// AssignedUser is resolved on range queries so the notifier can address
	// the assignee without a second lookup.
	AssignedUser *User     `json:"assigned_user,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
