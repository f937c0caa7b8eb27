package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers the reminder sweep on a cron cadence. The default spec
// fires on business days only; the exact expression and the process timezone
// are deployment configuration.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

// NewScheduler registers the sweep under the given cron spec
// (e.g. "10 10 * * 1-5" for 10:10 Monday through Friday).
func NewScheduler(spec string, sweep *Sweep, logger *slog.Logger) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if err := sweep.Run(ctx); err != nil {
			logger.Error("reminder sweep failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid reminder cron spec %q: %w", spec, err)
	}
	return &Scheduler{cron: c, logger: logger}, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.logger.Info("starting reminder schedule")
	s.cron.Start()
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping reminder schedule")
	<-s.cron.Stop().Done()
}
