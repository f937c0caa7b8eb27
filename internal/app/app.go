// Package app wires the application's components together.
package app

import (
	"fmt"
	"log/slog"

	"preminder/internal/config"
	"preminder/internal/core"
	"preminder/internal/db"
	"preminder/internal/directory"
	"preminder/internal/jobs"
	"preminder/internal/notify"
	"preminder/internal/reconcile"
	"preminder/internal/server"
	"preminder/internal/slack"
	"preminder/internal/storage"
	"preminder/internal/sweep"
)

// App holds the main application components.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	server     *server.Server
	dispatcher core.JobDispatcher
	scheduler  *sweep.Scheduler
	dbCleanup  func()
}

// NewApp sets up the application with all its dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	logger.Info("initializing preminder",
		"store", cfg.StoreBackend,
		"max_workers", cfg.MaxWorkers,
		"reminder_spec", cfg.ReminderCronSpec,
	)

	store, dbCleanup, err := newStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		dbCleanup()
		return nil, err
	}

	engine := reconcile.NewEngine(store, logger)

	job := jobs.NewReconcileJob(engine, notifier, logger)
	dispatcher := jobs.NewDispatcher(job, cfg.MaxWorkers, logger)
	httpServer := server.NewServer(cfg, dispatcher, logger)

	digest := sweep.New(store, notifier, logger)
	scheduler, err := sweep.NewScheduler(cfg.ReminderCronSpec, digest, logger)
	if err != nil {
		dispatcher.Stop()
		dbCleanup()
		return nil, err
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		server:     httpServer,
		dispatcher: dispatcher,
		scheduler:  scheduler,
		dbCleanup:  dbCleanup,
	}, nil
}

// NewSweep builds only what a one-shot digest run needs: the store, the
// identity map, and the notifier. No webhook machinery is started. The
// returned cleanup closes the store.
func NewSweep(cfg *config.Config, logger *slog.Logger) (*sweep.Sweep, func(), error) {
	store, dbCleanup, err := newStore(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		dbCleanup()
		return nil, nil, err
	}

	return sweep.New(store, notifier, logger), dbCleanup, nil
}

// Start launches the reminder schedule and runs the HTTP server, blocking
// until shutdown.
func (a *App) Start() error {
	a.scheduler.Start()
	return a.server.Start()
}

// Stop shuts the application down cleanly: no new requests, then no new
// sweeps, then drain the event queue.
func (a *App) Stop() error {
	a.logger.Info("shutting down preminder")

	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	a.scheduler.Stop()
	a.dispatcher.Stop()
	a.dbCleanup()

	if serverErr != nil {
		return serverErr
	}
	a.logger.Info("preminder stopped")
	return nil
}

func newStore(cfg *config.Config, logger *slog.Logger) (storage.Store, func(), error) {
	switch cfg.StoreBackend {
	case "memory":
		logger.Warn("using in-memory store, state will not survive restarts")
		return storage.NewMemoryStore(), func() {}, nil
	default:
		dbConn, cleanup, err := db.NewDatabase(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open store: %w", err)
		}
		return storage.NewPostgresStore(dbConn.DB), cleanup, nil
	}
}

func newNotifier(cfg *config.Config, logger *slog.Logger) (*notify.Notifier, error) {
	dir, err := directory.Load(cfg.IdentityMapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load identity map: %w", err)
	}
	logger.Info("identity map loaded", "path", cfg.IdentityMapPath, "entries", dir.Len())

	chat := slack.NewClient(cfg.SlackToken, cfg.SlackBotName, logger)
	return notify.NewNotifier(dir, chat, logger), nil
}
