package audit

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Ramish-fuh/Inventory-sub000/internal/repo"
)

func TestSink_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO audit_log \(user_id, level, event, details\)`).
		WithArgs(nil, LevelInfo, "scan.maintenance", `{"assets":3}`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	sink := NewSink(repo.NewAuditRepo(db))
	sink.Record(LevelInfo, "scan.maintenance", map[string]interface{}{"assets": 3})

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// A failing audit write must never propagate to the caller.
func TestSink_RecordSwallowsFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO audit_log`).
		WillReturnError(errors.New("db down"))

	sink := NewSink(repo.NewAuditRepo(db))
	sink.Record(LevelError, "notify.fire", map[string]interface{}{"error": "x"})
}

func TestSink_NilReceiverIsSafe(t *testing.T) {
	var sink *Sink
	sink.Record(LevelInfo, "noop", nil)
}
