// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 10 * time.Minute

// Job is the unit of scheduled work
type Job func(ctx context.Context) error

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron    *cron.Cron
	job     Job
	timeout time.Duration
	logger  *slog.Logger

	// serializes runs so a slow refresh never overlaps the next tick
	mu sync.Mutex
}

// NewScheduler creates a new job scheduler.
func NewScheduler(job Job, timeout time.Duration, logger *slog.Logger) *Scheduler {
	if timeout <= 0 {
		timeout = DefaultJobTimeout
	}

	// Create cron with seconds disabled (standard 5-field format)
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:    c,
		job:     job,
		timeout: timeout,
		logger:  logger,
	}
}

// Start registers the job under the cron schedule and begins ticking.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.String("schedule", schedule),
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow triggers the job outside the schedule.
func (s *Scheduler) RunNow() {
	go s.run()
}

func (s *Scheduler) run() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.job(ctx); err != nil {
		s.logger.Error("scheduled refresh failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err),
		)
		return
	}

	s.logger.Info("scheduled refresh completed",
		slog.Duration("elapsed", time.Since(start)),
	)
}
