package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the upload-processing sweep on an interval.
type Scheduler struct {
	cron   *cron.Cron
	engine *Engine
	log    *slog.Logger
}

// NewScheduler creates a Scheduler that drains unfinished uploads every
// processInterval.
func NewScheduler(
	eng *Engine,
	processInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	// The sweep rescues uploads left in processing, so overlapping runs
	// would fight over the same rows. Skip a tick while one is in flight.
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	s := &Scheduler{
		cron:   c,
		engine: eng,
		log:    log,
	}

	if _, err := c.AddFunc(
		"@every "+processInterval.String(),
		s.runProcessing,
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runProcessing() {
	ctx := context.Background()
	s.log.Info("scheduled upload sweep starting")
	if err := s.engine.ProcessPendingUploads(ctx); err != nil {
		s.log.Error("scheduled upload sweep failed", "error", err)
	}
}
