// Package reconcile implements the assignee-state machine: it merges one
// lifecycle event into the persisted assignee set for a review and computes
// which assignees must be newly notified.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"preminder/internal/core"
	"preminder/internal/storage"
)

// Result describes the outcome of one reconciliation pass.
type Result struct {
	// Assignees is the stored set after the event was applied. Nil when the
	// review has no record (closed, or never assigned).
	Assignees []string
	// Notify lists the assignees that were added by this event and therefore
	// need a notification. Identities already present are never renotified.
	Notify []string
}

// Engine applies review events against the assignee store. All read-modify-
// write cycles go through the store's atomic Update, so concurrent events for
// the same review are serialized by the store rather than by in-process locks.
type Engine struct {
	store  storage.Store
	logger *slog.Logger
}

// NewEngine creates a reconciliation engine bound to a store.
func NewEngine(store storage.Store, logger *slog.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Reconcile applies a single event and reports the updated state plus the
// assignees to notify. A store failure aborts the event with no partial
// mutation; the caller logs and drops it.
func (e *Engine) Reconcile(ctx context.Context, event *core.ReviewEvent) (Result, error) {
	switch event.Action {
	case core.ActionClosed:
		return e.close(ctx, event.ReviewKey)
	case core.ActionAssigned, core.ActionReopened:
		return e.merge(ctx, event.ReviewKey, event.Assignees)
	case core.ActionUnassigned:
		return e.remove(ctx, event.ReviewKey, event.Assignees)
	default:
		return Result{}, fmt.Errorf("unsupported action %q", event.Action)
	}
}

// close deletes the record unconditionally. Deleting an absent key is a no-op.
func (e *Engine) close(ctx context.Context, key string) (Result, error) {
	if err := e.store.Delete(ctx, key); err != nil {
		return Result{}, fmt.Errorf("failed to clear record for %s: %w", key, err)
	}
	e.logger.Debug("review closed, record cleared", "key", key)
	return Result{}, nil
}

// merge adds every incoming assignee not already in the stored set. It covers
// both Assigned (singleton) and Reopened (authoritative full list): the stored
// set only ever grows here, and a record is created when additions exist for a
// review without one.
func (e *Engine) merge(ctx context.Context, key string, incoming []string) (Result, error) {
	var res Result
	err := e.store.Update(ctx, key, func(current string, exists bool) (string, bool, error) {
		assignees := storage.DecodeAssignees(current)
		members := make(map[string]struct{}, len(assignees))
		for _, a := range assignees {
			members[a] = struct{}{}
		}

		var added []string
		for _, a := range incoming {
			if _, ok := members[a]; ok {
				continue
			}
			members[a] = struct{}{}
			assignees = append(assignees, a)
			added = append(added, a)
		}

		res = Result{Assignees: assignees, Notify: added}
		if len(added) == 0 {
			// Nothing changed; in particular a Reopened event with no
			// assignees must not create an empty record.
			if !exists {
				res.Assignees = nil
			}
			return "", false, nil
		}
		return storage.EncodeAssignees(assignees), true, nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to update record for %s: %w", key, err)
	}
	return res, nil
}

// remove drops the event's assignees from the stored set. Removing from an
// absent record or removing a non-member is a no-op, and unassignment never
// notifies. A set emptied by removal is persisted as an empty record so that
// "assigned then fully unassigned" stays distinguishable from "never
// assigned" until the review closes.
func (e *Engine) remove(ctx context.Context, key string, departing []string) (Result, error) {
	var res Result
	err := e.store.Update(ctx, key, func(current string, exists bool) (string, bool, error) {
		if !exists {
			return "", false, nil
		}

		drop := make(map[string]struct{}, len(departing))
		for _, a := range departing {
			drop[a] = struct{}{}
		}

		assignees := storage.DecodeAssignees(current)
		remaining := assignees[:0]
		for _, a := range assignees {
			if _, ok := drop[a]; !ok {
				remaining = append(remaining, a)
			}
		}

		res = Result{Assignees: remaining}
		if len(remaining) == len(assignees) {
			res.Assignees = assignees
			return "", false, nil
		}
		return storage.EncodeAssignees(remaining), true, nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("failed to update record for %s: %w", key, err)
	}
	return res, nil
}
