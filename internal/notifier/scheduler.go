package notifier

import (
	"context"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

// ScanSchedule pairs a scanner with its daily cron spec.
type ScanSchedule struct {
	Scanner *Scanner
	Spec    string
}

// Scheduler registers the daily expiry scan triggers. The three scanners run
// as independent cron entries: a slow or failing run never delays the others
// or the dynamic job registry.
type Scheduler struct {
	schedules []ScanSchedule

	mu      sync.Mutex
	cron    *cron.Cron
	started bool
}

// NewScheduler builds a Scheduler for the given scan schedules.
func NewScheduler(schedules []ScanSchedule) *Scheduler {
	return &Scheduler{schedules: schedules, cron: cron.New()}
}

// Start registers the scan triggers and starts the cron runner. Calling
// Start again is a no-op. An invalid cron spec fails registration before
// anything is started.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	for _, sched := range s.schedules {
		sc := sched.Scanner
		if _, err := s.cron.AddFunc(sched.Spec, func() { sc.Run(context.Background()) }); err != nil {
			return err
		}
		log.Printf("scheduler: registered %s scan cron=%q", sc.Name(), sched.Spec)
	}

	s.cron.Start()
	s.started = true
	return nil
}

// Stop halts the cron runner. Running scans finish on their own.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.cron.Stop()
	s.started = false
}
