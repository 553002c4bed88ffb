package notifier

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/Ramish-fuh/Inventory-sub000/internal/audit"
	"github.com/Ramish-fuh/Inventory-sub000/internal/metrics"
	"github.com/Ramish-fuh/Inventory-sub000/internal/models"
)

// ScanConfig parametrizes one expiry scan. The three scans share one
// algorithm; only the tracked field, lookahead window, and message wording
// differ.
type ScanConfig struct {
	Name      string        // scanner name, used in audit events and metrics
	Field     string        // tracked date column
	Label     string        // message noun ("Maintenance", "Warranty", "License")
	Verb      string        // "due" or "expiring"
	Severity  string        // NOTICE or WARNING, consumed by rendering for color coding
	Lookahead time.Duration // window size from now
	Type      string        // notification type tag
	Email     bool          // maintenance reminders also go out by email
}

var (
	// MaintenanceScan flags assets whose next maintenance is within 30 days.
	MaintenanceScan = ScanConfig{
		Name:      "maintenance",
		Field:     models.FieldNextMaintenance,
		Label:     "Maintenance",
		Verb:      "due",
		Severity:  "NOTICE",
		Lookahead: 30 * 24 * time.Hour,
		Type:      models.NotificationMaintenance,
		Email:     true,
	}

	// WarrantyScan flags assets whose warranty expires within 90 days.
	WarrantyScan = ScanConfig{
		Name:      "warranty",
		Field:     models.FieldWarrantyExpiry,
		Label:     "Warranty",
		Verb:      "expiring",
		Severity:  "WARNING",
		Lookahead: 90 * 24 * time.Hour,
		Type:      models.NotificationWarranty,
	}

	// LicenseScan flags assets whose license expires within 90 days.
	LicenseScan = ScanConfig{
		Name:      "license",
		Field:     models.FieldLicenseExpiry,
		Label:     "License",
		Verb:      "expiring",
		Severity:  "WARNING",
		Lookahead: 90 * 24 * time.Hour,
		Type:      models.NotificationLicense,
	}
)

// Scanner runs one expiry scan over the asset table. Detection is stateless:
// two runs inside the same window re-notify every still-qualifying asset.
type Scanner struct {
	cfg        ScanConfig
	assets     AssetSource
	dispatcher *Dispatcher
	audit      AuditSink
	clock      Clock
}

// NewScanner builds a Scanner with injected collaborators.
func NewScanner(cfg ScanConfig, assets AssetSource, dispatcher *Dispatcher, sink AuditSink, clock Clock) *Scanner {
	if clock == nil {
		clock = SystemClock()
	}
	return &Scanner{cfg: cfg, assets: assets, dispatcher: dispatcher, audit: sink, clock: clock}
}

// Name returns the scanner's name.
func (s *Scanner) Name() string { return s.cfg.Name }

// Run executes one scan: query assets entering the lookahead window and
// dispatch a notification for each. Per-asset failures are isolated; a
// failing range query abandons the run. Run never returns an error: the next
// day's trigger is independent of this run's outcome.
func (s *Scanner) Run(ctx context.Context) {
	start := s.clock.Now()
	windowEnd := start.Add(s.cfg.Lookahead)

	assets, err := s.assets.FindByDateRange(ctx, s.cfg.Field, start, windowEnd)
	if err != nil {
		log.Printf("scanner %s: range query: %v", s.cfg.Name, err)
		s.audit.Record(audit.LevelError, "scan."+s.cfg.Name, map[string]interface{}{
			"error": err.Error(),
		})
		metrics.ScanRunsTotal.WithLabelValues(s.cfg.Name, "error").Inc()
		return
	}

	processed := 0
	failures := 0
	for _, a := range assets {
		due := s.trackedDate(a)
		if due == nil {
			continue
		}
		days := daysUntil(start, *due)
		message := fmt.Sprintf("%s: %s %s in %d days for asset: %s (%s)",
			s.cfg.Severity, s.cfg.Label, s.cfg.Verb, days, a.Name, a.Tag)

		res := s.dispatcher.Dispatch(ctx, a, s.cfg.Type, message, s.cfg.Email)
		processed++
		failures += res.Failed + res.EmailFailed
	}

	s.audit.Record(audit.LevelInfo, "scan."+s.cfg.Name, map[string]interface{}{
		"assets":      processed,
		"failures":    failures,
		"duration_ms": s.clock.Now().Sub(start).Milliseconds(),
	})
	metrics.ScanRunsTotal.WithLabelValues(s.cfg.Name, "completed").Inc()
	log.Printf("scanner %s: processed %d assets (%d failures)", s.cfg.Name, processed, failures)
}

// trackedDate picks this scan's date field off the asset.
func (s *Scanner) trackedDate(a models.Asset) *time.Time {
	switch s.cfg.Field {
	case models.FieldNextMaintenance:
		return a.NextMaintenance
	case models.FieldWarrantyExpiry:
		return a.WarrantyExpiry
	case models.FieldLicenseExpiry:
		return a.LicenseExpiry
	}
	return nil
}

// daysUntil is ceil((due - now) / 1 day), so a date exactly N days out
// reports N and a date later today reports 1.
func daysUntil(now, due time.Time) int {
	return int(math.Ceil(due.Sub(now).Hours() / 24))
}
