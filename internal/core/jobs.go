package core

import (
	"context"
)

// JobDispatcher accepts normalized review events and queues them for
// asynchronous processing, decoupling the webhook handler from the
// reconciliation work.
type JobDispatcher interface {
	// Dispatch queues an event for processing. It returns an error when the
	// queue is full, giving the HTTP layer a backpressure signal.
	Dispatch(ctx context.Context, event *ReviewEvent) error

	// Stop drains the queue and waits for in-flight jobs to finish.
	Stop()
}

// Job is a single unit of work triggered by a ReviewEvent.
type Job interface {
	Run(ctx context.Context, event *ReviewEvent) error
}
