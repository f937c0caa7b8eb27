// Package sweep implements the scheduled reminder digest: a read-only pass
// over every stored review that renotifies its current assignees.
package sweep

import (
	"context"
	"fmt"
	"log/slog"

	"preminder/internal/notify"
	"preminder/internal/storage"
)

// Sweep re-derives "still assigned" reminders from the store. It never
// mutates state, tolerates an empty store, and handles each record
// independently so one failure cannot block the rest.
type Sweep struct {
	store    storage.Store
	notifier *notify.Notifier
	logger   *slog.Logger
}

// New creates a Sweep over the given store.
func New(store storage.Store, notifier *notify.Notifier, logger *slog.Logger) *Sweep {
	return &Sweep{store: store, notifier: notifier, logger: logger}
}

// Run performs one digest pass.
func (s *Sweep) Run(ctx context.Context) error {
	records, err := s.store.All(ctx)
	if err != nil {
		return fmt.Errorf("failed to list review records: %w", err)
	}

	s.logger.Info("starting reminder sweep", "records", len(records))

	sent := 0
	for key, value := range records {
		assignees := storage.DecodeAssignees(value)
		if len(assignees) == 0 {
			// Fully unassigned records stay in the store until the review
			// closes; there is nobody to remind.
			continue
		}
		s.notifier.NotifyAll(ctx, assignees, notify.ComposeReminder(key))
		sent += len(assignees)
	}

	s.logger.Info("reminder sweep finished", "records", len(records), "targets", sent)
	return nil
}
