package sweeper

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"jobassist-backend/internal/shared/telemetry"
)

// Scheduler runs a Sweeper on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	sweeper *Sweeper
	spec    string // cron spec, e.g. "@every 1h"

	mu   sync.Mutex
	runs int
}

// NewScheduler creates a Scheduler that runs sw on the given cron schedule.
func NewScheduler(sw *Sweeper, spec string) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLogger(cronLogger{}), cron.WithChain(cron.SkipIfStillRunning(cronLogger{}))),
		sweeper: sw,
		spec:    spec,
	}
}

// Start registers the sweep job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.run(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}
	s.cron.Start()
	telemetry.Info("sweeper.scheduled", map[string]any{"schedule": s.spec})
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	telemetry.Info("sweeper.stopped", nil)
}

// Runs reports how many sweeps have completed.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

func (s *Scheduler) run(ctx context.Context) {
	res, err := s.sweeper.Sweep(ctx)
	s.mu.Lock()
	s.runs++
	s.mu.Unlock()
	if err != nil {
		telemetry.Error("sweeper.failed", map[string]any{"error": err})
		return
	}
	telemetry.Info("sweeper.completed", map[string]any{
		"users":   res.Users,
		"scanned": res.Scanned,
		"deleted": res.Deleted,
		"failed":  res.Failed,
	})
}

// cronLogger routes cron's own messages to telemetry.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	telemetry.Debug("cron."+msg, pairs(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := pairs(keysAndValues)
	fields["error"] = err
	telemetry.Error("cron."+msg, fields)
}

func pairs(keysAndValues []interface{}) map[string]any {
	fields := make(map[string]any, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
