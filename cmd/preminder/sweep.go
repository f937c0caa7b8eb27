package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"preminder/internal/app"
	"preminder/internal/config"
	"preminder/internal/logger"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one reminder digest pass and exit.",
	Long: `Reads every stored review record and sends a reminder to each assignee
with a known Slack identity. State is never modified; useful for triggering
the digest outside the configured schedule.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runSweep(cmd.Context())
	},
}

func runSweep(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	digest, cleanup, err := app.NewSweep(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize sweep: %w", err)
	}
	defer cleanup()

	if err := digest.Run(ctx); err != nil {
		return fmt.Errorf("reminder sweep failed: %w", err)
	}
	return nil
}
