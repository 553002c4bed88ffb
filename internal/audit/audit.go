package audit

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/Ramish-fuh/Inventory-sub000/internal/repo"
)

// Levels accepted by Record.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Sink is the append-only audit trail used by the notifier. Record never
// blocks the caller's control flow on the database and its own failures are
// swallowed: logging must never fail the operation it is describing.
type Sink struct {
	repo *repo.AuditRepo
}

// NewSink returns a Sink writing through the audit repo.
func NewSink(r *repo.AuditRepo) *Sink {
	return &Sink{repo: r}
}

// Record writes one audit event. metadata is serialized to JSON in the
// details column; a nil map leaves details empty.
func (s *Sink) Record(level, event string, metadata map[string]interface{}) {
	if s == nil || s.repo == nil {
		return
	}

	details := ""
	if len(metadata) > 0 {
		b, err := json.Marshal(metadata)
		if err == nil {
			details = string(b)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.repo.Log(ctx, nil, level, event, details); err != nil {
		// The trail is advisory; a failed write must not fail the caller.
		log.Printf("audit: record %s failed: %v", event, err)
	}
}
