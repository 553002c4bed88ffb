package notifier

import (
	"context"
	"log"

	"github.com/Ramish-fuh/Inventory-sub000/internal/audit"
	"github.com/Ramish-fuh/Inventory-sub000/internal/metrics"
	"github.com/Ramish-fuh/Inventory-sub000/internal/models"
)

// Dispatcher fans one qualifying asset out to its audience: the assigned
// user (when present) plus every admin, looked up fresh on each call. Each
// recipient's notification and email are independent; one failure never
// prevents notifying the others, and Dispatch itself never returns an error.
type Dispatcher struct {
	Users         UserSource
	Notifications NotificationStore
	Mailer        Mailer
	Audit         AuditSink
}

// DispatchResult is the batch outcome of one fan-out.
type DispatchResult struct {
	Created     int // notification records created
	Failed      int // notification creations that failed
	EmailFailed int // email sends that failed
}

// Dispatch creates one notification per audience member for the given asset
// and message. When sendEmail is set (maintenance notifications), each
// recipient with an email address also gets the maintenance reminder mail.
func (d *Dispatcher) Dispatch(ctx context.Context, asset models.Asset, ntype, message string, sendEmail bool) DispatchResult {
	var res DispatchResult

	for _, u := range d.audience(ctx, asset) {
		if _, err := d.Notifications.Create(ctx, u.ID, ntype, message); err != nil {
			res.Failed++
			metrics.NotificationFailuresTotal.Inc()
			log.Printf("dispatcher: create notification for user %d asset %d: %v", u.ID, asset.ID, err)
			d.Audit.Record(audit.LevelError, "notify.create", map[string]interface{}{
				"asset_id": asset.ID,
				"user_id":  u.ID,
				"type":     ntype,
				"error":    err.Error(),
			})
		} else {
			res.Created++
			metrics.NotificationsCreatedTotal.WithLabelValues(ntype).Inc()
		}

		// Email is attempted independently of the record write.
		if sendEmail && u.Email != "" {
			if err := d.Mailer.SendMaintenanceReminder(u.Email, asset); err != nil {
				res.EmailFailed++
				metrics.NotificationFailuresTotal.Inc()
				log.Printf("dispatcher: email %s for asset %d: %v", u.Email, asset.ID, err)
				d.Audit.Record(audit.LevelError, "notify.email", map[string]interface{}{
					"asset_id": asset.ID,
					"user_id":  u.ID,
					"error":    err.Error(),
				})
			}
		}
	}

	return res
}

// audience resolves the recipients for one asset: assigned user plus all
// admins, deduplicated by user id. The admin list is intentionally queried
// fresh per asset rather than cached across a scan; admin lists are small
// and scans run at most daily.
func (d *Dispatcher) audience(ctx context.Context, asset models.Asset) []models.User {
	var out []models.User
	seen := make(map[int]bool)

	assigned := asset.AssignedUser
	if assigned == nil && asset.AssignedTo != nil {
		u, err := d.Users.GetByID(ctx, *asset.AssignedTo)
		if err != nil {
			log.Printf("dispatcher: resolve assigned user %d: %v", *asset.AssignedTo, err)
			d.Audit.Record(audit.LevelError, "notify.audience", map[string]interface{}{
				"asset_id": asset.ID,
				"user_id":  *asset.AssignedTo,
				"error":    err.Error(),
			})
		} else {
			assigned = u
		}
	}
	if assigned != nil {
		out = append(out, *assigned)
		seen[assigned.ID] = true
	}

	admins, err := d.Users.FindByRole(ctx, models.RoleAdmin)
	if err != nil {
		log.Printf("dispatcher: list admins: %v", err)
		d.Audit.Record(audit.LevelError, "notify.audience", map[string]interface{}{
			"asset_id": asset.ID,
			"error":    err.Error(),
		})
		return out
	}
	for _, a := range admins {
		if !seen[a.ID] {
			out = append(out, a)
			seen[a.ID] = true
		}
	}
	return out
}
