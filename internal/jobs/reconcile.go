package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"preminder/internal/core"
	"preminder/internal/notify"
	"preminder/internal/reconcile"
)

// ReconcileJob processes one review event end to end: it commits the state
// change first and notifies afterwards. The two are deliberately not
// transactional with each other, so a slow or failing chat call can never
// roll back committed state.
type ReconcileJob struct {
	engine   *reconcile.Engine
	notifier *notify.Notifier
	logger   *slog.Logger
}

// NewReconcileJob creates the job executed by the dispatcher's workers.
func NewReconcileJob(engine *reconcile.Engine, notifier *notify.Notifier, logger *slog.Logger) core.Job {
	return &ReconcileJob{engine: engine, notifier: notifier, logger: logger}
}

// Run reconciles the event against the store and notifies newly added
// assignees. A store failure aborts the event without any notification.
func (j *ReconcileJob) Run(ctx context.Context, event *core.ReviewEvent) error {
	res, err := j.engine.Reconcile(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to reconcile %s: %w", event.ReviewKey, err)
	}

	j.logger.Info("event reconciled",
		"key", event.ReviewKey,
		"action", event.Action,
		"assignees", len(res.Assignees),
		"notify", len(res.Notify),
	)

	if len(res.Notify) == 0 {
		return nil
	}
	j.notifier.NotifyAll(ctx, res.Notify, notify.Compose(event))
	return nil
}
