// Package logger constructs the application's slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds a slog logger writing to output. Format is "json" or
// "text"; a nil output defaults to stdout.
func NewLogger(level slog.Level, format string, output io.Writer) *slog.Logger {
	if output == nil {
		output = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(output, opts)
	default:
		handler = slog.NewTextHandler(output, opts)
	}

	return slog.New(handler)
}
