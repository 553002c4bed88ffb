package notifier

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/Ramish-fuh/Inventory-sub000/internal/audit"
	"github.com/Ramish-fuh/Inventory-sub000/internal/metrics"
	"github.com/Ramish-fuh/Inventory-sub000/internal/models"
	"github.com/robfig/cron/v3"
)

// ErrNotScheduled is returned when a notification has no scheduled time.
var ErrNotScheduled = errors.New("notification has no scheduled time")

// Registry is the dynamic job registry: an in-memory table mapping
// notification identity to an active trigger. Non-recurring jobs run on a
// one-shot deadline timer and are retired after their first firing;
// recurring jobs register the cron spec derived from their scheduled time
// and fire again on its next minute/hour/day/month occurrence. Jobs are
// never persisted; a process restart forgets them.
type Registry struct {
	users  UserSource
	mailer Mailer
	audit  AuditSink
	clock  Clock

	mu   sync.Mutex
	cron *cron.Cron
	jobs map[int]*job
}

type job struct {
	recurring bool
	timer     *time.Timer  // one-shot jobs
	entry     cron.EntryID // recurring jobs
}

// NewRegistry builds a Registry and starts its cron runner.
func NewRegistry(users UserSource, mailer Mailer, sink AuditSink, clock Clock) *Registry {
	if clock == nil {
		clock = SystemClock()
	}
	r := &Registry{
		users:  users,
		mailer: mailer,
		audit:  sink,
		clock:  clock,
		cron:   cron.New(),
		jobs:   make(map[int]*job),
	}
	r.cron.Start()
	return r
}

// ScheduleNotification registers a trigger for an ad-hoc notification. The
// notification must carry a scheduled time. Registering a notification id
// that already has a live job cancels the old job first, so at most one job
// per identity is ever live. A registration failure is audited and the
// notification is simply never scheduled; there is no retry.
func (r *Registry) ScheduleNotification(n models.Notification) error {
	if n.ScheduledAt == nil {
		r.audit.Record(audit.LevelError, "notify.schedule", map[string]interface{}{
			"notification_id": n.ID,
			"error":           ErrNotScheduled.Error(),
		})
		return ErrNotScheduled
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[n.ID]; exists {
		r.cancelLocked(n.ID)
	}

	j := &job{recurring: n.Recurring}
	if n.Recurring {
		spec := CronSpecAt(*n.ScheduledAt)
		entry, err := r.cron.AddFunc(spec, func() { r.fire(n) })
		if err != nil {
			r.audit.Record(audit.LevelError, "notify.schedule", map[string]interface{}{
				"notification_id": n.ID,
				"spec":            spec,
				"error":           err.Error(),
			})
			return err
		}
		j.entry = entry
	} else {
		delay := n.ScheduledAt.Sub(r.clock.Now())
		if delay < 0 {
			delay = 0
		}
		j.timer = time.AfterFunc(delay, func() { r.fire(n) })
	}

	r.jobs[n.ID] = j
	metrics.ScheduledJobs.Set(float64(len(r.jobs)))
	r.audit.Record(audit.LevelInfo, "notify.schedule", map[string]interface{}{
		"notification_id": n.ID,
		"scheduled_at":    n.ScheduledAt.Format(time.RFC3339),
		"recurring":       n.Recurring,
	})
	return nil
}

// CancelNotification stops and removes the job for id. Cancelling an unknown
// id is a no-op, not an error: the job may already have fired and retired
// itself. A firing already in flight is not aborted; cancellation only
// prevents future firings.
func (r *Registry) CancelNotification(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked(id)
}

func (r *Registry) cancelLocked(id int) {
	j, ok := r.jobs[id]
	if !ok {
		return
	}
	if j.timer != nil {
		j.timer.Stop()
	}
	if j.recurring {
		r.cron.Remove(j.entry)
	}
	delete(r.jobs, id)
	metrics.ScheduledJobs.Set(float64(len(r.jobs)))
	r.audit.Record(audit.LevelInfo, "notify.cancel", map[string]interface{}{
		"notification_id": id,
	})
}

// Jobs returns the number of live jobs.
func (r *Registry) Jobs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

// Stop halts the cron runner and every pending timer. Used on shutdown.
func (r *Registry) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, j := range r.jobs {
		if j.timer != nil {
			j.timer.Stop()
		}
		if j.recurring {
			r.cron.Remove(j.entry)
		}
		delete(r.jobs, id)
	}
	metrics.ScheduledJobs.Set(0)
	r.cron.Stop()
}

// fire runs when a job's trigger goes off. Non-recurring jobs are retired
// before delivery so they can never fire twice; recurring jobs stay
// registered. A job cancelled between trigger and fire is skipped.
func (r *Registry) fire(n models.Notification) {
	r.mu.Lock()
	j, ok := r.jobs[n.ID]
	if !ok {
		r.mu.Unlock()
		return
	}
	if !j.recurring {
		delete(r.jobs, n.ID)
		metrics.ScheduledJobs.Set(float64(len(r.jobs)))
	}
	r.mu.Unlock()

	r.process(n)
}

// process delivers one scheduled notification: resolve the recipient and
// send the reminder email. Failures are audited and otherwise dropped; a
// missed delivery must never take the scheduler down.
func (r *Registry) process(n models.Notification) {
	ctx := context.Background()

	u, err := r.users.GetByID(ctx, n.UserID)
	if err != nil || u == nil {
		if err == nil {
			err = errors.New("recipient not found")
		}
		log.Printf("registry: notification %d recipient %d: %v", n.ID, n.UserID, err)
		r.audit.Record(audit.LevelError, "notify.fire", map[string]interface{}{
			"notification_id": n.ID,
			"user_id":         n.UserID,
			"error":           err.Error(),
		})
		return
	}

	if u.Email != "" {
		if err := r.mailer.SendReminder(u.Email, "Reminder", n.Message); err != nil {
			log.Printf("registry: notification %d email: %v", n.ID, err)
			r.audit.Record(audit.LevelError, "notify.fire", map[string]interface{}{
				"notification_id": n.ID,
				"user_id":         n.UserID,
				"error":           err.Error(),
			})
			return
		}
	}

	r.audit.Record(audit.LevelInfo, "notify.fire", map[string]interface{}{
		"notification_id": n.ID,
		"user_id":         n.UserID,
		"recurring":       n.Recurring,
	})
}
