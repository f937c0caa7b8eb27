package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "preminder",
	Short: "preminder notifies pull request assignees over Slack.",
	Long: `preminder bridges pull request lifecycle webhooks to Slack. It keeps a
per-review assignee record so each person is notified exactly once when newly
assigned, and it reminds everyone still assigned on a business-day schedule.`,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sweepCmd)
}
