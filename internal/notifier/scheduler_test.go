package notifier

import (
	"testing"
	"time"
)

func newNoopScanner(name string) *Scanner {
	cfg := ScanConfig{Name: name, Field: "next_maintenance", Lookahead: 24 * time.Hour}
	sink := &fakeSink{}
	d := newTestDispatcher(&fakeUsers{}, &fakeStore{}, &fakeMailer{}, sink)
	return NewScanner(cfg, &fakeAssets{}, d, sink, SystemClock())
}

func TestScheduler_StartIsIdempotent(t *testing.T) {
	s := NewScheduler([]ScanSchedule{
		{Scanner: newNoopScanner("maintenance"), Spec: "0 8 * * *"},
	})
	defer s.Stop()

	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}
}

func TestScheduler_InvalidSpecFailsStart(t *testing.T) {
	s := NewScheduler([]ScanSchedule{
		{Scanner: newNoopScanner("maintenance"), Spec: "not a cron spec"},
	})
	if err := s.Start(); err == nil {
		t.Fatal("expected Start to fail on an invalid cron spec")
	}
}

func TestScheduler_StopBeforeStart(t *testing.T) {
	s := NewScheduler(nil)
	s.Stop() // must not panic
}
