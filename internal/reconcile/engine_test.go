package reconcile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"preminder/internal/core"
	"preminder/internal/storage"
)

const reviewKey = "<https://github.com/acme/widgets/pull/7|Add widget cache>"

func newTestEngine(t *testing.T) (*Engine, storage.Store) {
	t.Helper()
	store := storage.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(store, logger), store
}

func event(action core.ReviewAction, assignees ...string) *core.ReviewEvent {
	return &core.ReviewEvent{
		Action:    action,
		ReviewKey: reviewKey,
		Actor:     "carol",
		Author:    "alice",
		Title:     "Add widget cache",
		URL:       "https://github.com/acme/widgets/pull/7",
		State:     "open",
		Assignees: assignees,
	}
}

func storedSet(t *testing.T, store storage.Store) ([]string, bool) {
	t.Helper()
	value, exists, err := store.Get(context.Background(), reviewKey)
	require.NoError(t, err)
	return storage.DecodeAssignees(value), exists
}

func TestReconcileAssigned(t *testing.T) {
	ctx := context.Background()

	t.Run("first assignment creates the record and notifies", func(t *testing.T) {
		engine, store := newTestEngine(t)

		res, err := engine.Reconcile(ctx, event(core.ActionAssigned, "bob"))
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, res.Assignees)
		assert.Equal(t, []string{"bob"}, res.Notify)

		set, exists := storedSet(t, store)
		assert.True(t, exists)
		assert.Equal(t, []string{"bob"}, set)
	})

	t.Run("repeated assignment notifies exactly once", func(t *testing.T) {
		engine, store := newTestEngine(t)

		notified := 0
		for range 3 {
			res, err := engine.Reconcile(ctx, event(core.ActionAssigned, "bob"))
			require.NoError(t, err)
			notified += len(res.Notify)
		}

		assert.Equal(t, 1, notified)
		set, _ := storedSet(t, store)
		assert.Equal(t, []string{"bob"}, set)
	})

	t.Run("second assignee is added and notified alone", func(t *testing.T) {
		engine, _ := newTestEngine(t)

		_, err := engine.Reconcile(ctx, event(core.ActionAssigned, "bob"))
		require.NoError(t, err)

		res, err := engine.Reconcile(ctx, event(core.ActionAssigned, "dave"))
		require.NoError(t, err)
		assert.Equal(t, []string{"bob", "dave"}, res.Assignees)
		assert.Equal(t, []string{"dave"}, res.Notify)
	})
}

func TestReconcileUnassigned(t *testing.T) {
	ctx := context.Background()

	t.Run("never notifies", func(t *testing.T) {
		engine, _ := newTestEngine(t)

		_, err := engine.Reconcile(ctx, event(core.ActionAssigned, "bob"))
		require.NoError(t, err)

		res, err := engine.Reconcile(ctx, event(core.ActionUnassigned, "bob"))
		require.NoError(t, err)
		assert.Empty(t, res.Notify)
	})

	t.Run("removing an unknown assignee is a no-op", func(t *testing.T) {
		engine, store := newTestEngine(t)

		_, err := engine.Reconcile(ctx, event(core.ActionAssigned, "bob"))
		require.NoError(t, err)

		res, err := engine.Reconcile(ctx, event(core.ActionUnassigned, "mallory"))
		require.NoError(t, err)
		assert.Equal(t, []string{"bob"}, res.Assignees)
		assert.Empty(t, res.Notify)

		set, _ := storedSet(t, store)
		assert.Equal(t, []string{"bob"}, set)
	})

	t.Run("without a record nothing happens", func(t *testing.T) {
		engine, store := newTestEngine(t)

		res, err := engine.Reconcile(ctx, event(core.ActionUnassigned, "bob"))
		require.NoError(t, err)
		assert.Empty(t, res.Assignees)
		assert.Empty(t, res.Notify)

		_, exists := storedSet(t, store)
		assert.False(t, exists)
	})

	t.Run("emptied record is retained until the review closes", func(t *testing.T) {
		engine, store := newTestEngine(t)

		_, err := engine.Reconcile(ctx, event(core.ActionAssigned, "bob"))
		require.NoError(t, err)
		_, err = engine.Reconcile(ctx, event(core.ActionUnassigned, "bob"))
		require.NoError(t, err)

		set, exists := storedSet(t, store)
		assert.True(t, exists, "empty record must survive full unassignment")
		assert.Empty(t, set)
	})
}

func TestReconcileClosed(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the record regardless of contents", func(t *testing.T) {
		engine, store := newTestEngine(t)

		_, err := engine.Reconcile(ctx, event(core.ActionAssigned, "bob"))
		require.NoError(t, err)

		res, err := engine.Reconcile(ctx, event(core.ActionClosed))
		require.NoError(t, err)
		assert.Empty(t, res.Notify)

		_, exists := storedSet(t, store)
		assert.False(t, exists)
	})

	t.Run("closing an unknown review is idempotent", func(t *testing.T) {
		engine, _ := newTestEngine(t)

		_, err := engine.Reconcile(ctx, event(core.ActionClosed))
		assert.NoError(t, err)
	})
}

func TestReconcileReopened(t *testing.T) {
	ctx := context.Background()

	t.Run("empty record notifies the whole list", func(t *testing.T) {
		engine, store := newTestEngine(t)

		res, err := engine.Reconcile(ctx, event(core.ActionReopened, "bob", "dave"))
		require.NoError(t, err)
		assert.Equal(t, []string{"bob", "dave"}, res.Assignees)
		assert.Equal(t, []string{"bob", "dave"}, res.Notify)

		set, _ := storedSet(t, store)
		assert.Equal(t, []string{"bob", "dave"}, set)
	})

	t.Run("existing members are not renotified", func(t *testing.T) {
		engine, store := newTestEngine(t)

		_, err := engine.Reconcile(ctx, event(core.ActionAssigned, "bob"))
		require.NoError(t, err)

		res, err := engine.Reconcile(ctx, event(core.ActionReopened, "bob", "dave"))
		require.NoError(t, err)
		assert.Equal(t, []string{"bob", "dave"}, res.Assignees)
		assert.Equal(t, []string{"dave"}, res.Notify)

		set, _ := storedSet(t, store)
		assert.Equal(t, []string{"bob", "dave"}, set)
	})

	t.Run("the stored set is never shrunk", func(t *testing.T) {
		engine, store := newTestEngine(t)

		_, err := engine.Reconcile(ctx, event(core.ActionReopened, "bob", "dave"))
		require.NoError(t, err)

		res, err := engine.Reconcile(ctx, event(core.ActionReopened, "dave"))
		require.NoError(t, err)
		assert.Equal(t, []string{"bob", "dave"}, res.Assignees)
		assert.Empty(t, res.Notify)

		set, _ := storedSet(t, store)
		assert.Equal(t, []string{"bob", "dave"}, set)
	})

	t.Run("reopened with no assignees creates no record", func(t *testing.T) {
		engine, store := newTestEngine(t)

		res, err := engine.Reconcile(ctx, event(core.ActionReopened))
		require.NoError(t, err)
		assert.Empty(t, res.Assignees)
		assert.Empty(t, res.Notify)

		_, exists := storedSet(t, store)
		assert.False(t, exists)
	})
}

// TestReconcileLifecycle walks a full review lifecycle through the engine.
func TestReconcileLifecycle(t *testing.T) {
	ctx := context.Background()
	engine, store := newTestEngine(t)

	res, err := engine.Reconcile(ctx, event(core.ActionAssigned, "a"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, res.Notify)

	res, err = engine.Reconcile(ctx, event(core.ActionAssigned, "b"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, res.Assignees)
	assert.Equal(t, []string{"b"}, res.Notify)

	res, err = engine.Reconcile(ctx, event(core.ActionUnassigned, "a"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, res.Assignees)
	assert.Empty(t, res.Notify)

	_, err = engine.Reconcile(ctx, event(core.ActionClosed))
	require.NoError(t, err)
	_, exists := storedSet(t, store)
	assert.False(t, exists)

	res, err = engine.Reconcile(ctx, event(core.ActionUnassigned, "b"))
	require.NoError(t, err)
	assert.Empty(t, res.Assignees)
	assert.Empty(t, res.Notify)
	_, exists = storedSet(t, store)
	assert.False(t, exists)
}

// failingStore simulates an unavailable backend.
type failingStore struct {
	storage.Store
}

var errStoreDown = errors.New("store unavailable")

func (f *failingStore) Delete(context.Context, string) error { return errStoreDown }
func (f *failingStore) Update(context.Context, string, storage.UpdateFunc) error {
	return errStoreDown
}

func TestReconcileStoreFailure(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := NewEngine(&failingStore{Store: storage.NewMemoryStore()}, logger)

	for _, action := range []core.ReviewAction{
		core.ActionAssigned, core.ActionUnassigned, core.ActionClosed, core.ActionReopened,
	} {
		_, err := engine.Reconcile(ctx, event(action, "bob"))
		assert.ErrorIs(t, err, errStoreDown, "action %q", action)
	}
}

func TestReconcileUnsupportedAction(t *testing.T) {
	engine, _ := newTestEngine(t)
	_, err := engine.Reconcile(context.Background(), event(core.ReviewAction("labeled")))
	assert.Error(t, err)
}
