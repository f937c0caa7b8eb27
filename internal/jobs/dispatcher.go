// Package jobs runs the asynchronous work behind the webhook: reconciling
// review events and notifying new assignees.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"preminder/internal/core"
)

// jobTimeout bounds one reconcile-and-notify pass; nothing in the pipeline
// may block indefinitely.
const jobTimeout = time.Minute

// dispatcher implements core.JobDispatcher with a bounded queue consumed by a
// pool of worker goroutines.
type dispatcher struct {
	job        core.Job
	jobQueue   chan *core.ReviewEvent
	maxWorkers int
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// NewDispatcher initializes a dispatcher with a worker pool.
// If maxWorkers is 0 or negative, it defaults to 1.
func NewDispatcher(job core.Job, maxWorkers int, logger *slog.Logger) core.JobDispatcher {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	d := &dispatcher{
		job:        job,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan *core.ReviewEvent, 100),
		logger:     logger,
	}
	d.startWorkers()
	return d
}

func (d *dispatcher) startWorkers() {
	for i := range d.maxWorkers {
		d.wg.Add(1)
		go d.startWorker(i)
	}
}

// startWorker processes events from the queue until it's closed.
func (d *dispatcher) startWorker(workerID int) {
	defer d.wg.Done()
	d.logger.Info("starting reconcile worker", "id", workerID)

	for event := range d.jobQueue {
		d.processEvent(workerID, event)
	}

	d.logger.Info("shutting down reconcile worker", "id", workerID)
}

func (d *dispatcher) processEvent(workerID int, event *core.ReviewEvent) {
	d.logger.Info("worker processing event",
		"worker_id", workerID,
		"key", event.ReviewKey,
		"action", event.Action,
	)

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := d.job.Run(ctx, event); err != nil {
		// Best effort: the event is dropped, never retried.
		d.logger.Error("reconcile job failed, event dropped",
			"key", event.ReviewKey,
			"action", event.Action,
			"error", err,
		)
	}
}

// Dispatch queues a review event for processing by a worker.
func (d *dispatcher) Dispatch(_ context.Context, event *core.ReviewEvent) error {
	d.logger.Debug("queuing review event", "key", event.ReviewKey, "action", event.Action)

	select {
	case d.jobQueue <- event:
		return nil
	default:
		return fmt.Errorf("job queue is full, cannot accept new event")
	}
}

// Stop gracefully shuts down the dispatcher, waiting for all workers to finish.
func (d *dispatcher) Stop() {
	d.logger.Info("stopping dispatcher and waiting for events to drain")
	close(d.jobQueue)
	d.wg.Wait()
	d.logger.Info("all reconcile jobs have finished")
}
