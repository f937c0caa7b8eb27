package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"preminder/internal/app"
	"preminder/internal/config"
	"preminder/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook server with the embedded reminder schedule.",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServe()
	},
}

func runServe() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	application, err := app.NewApp(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("received shutdown signal")
	case err := <-errCh:
		if err != nil {
			log.Error("server error", "error", err)
			_ = application.Stop()
			return err
		}
	}

	if err := application.Stop(); err != nil {
		return fmt.Errorf("failed to stop application: %w", err)
	}
	return nil
}
