package observability

import (
	"log/slog"
	"os"
)

// NewLogger returns the process-wide structured logger.
// JSON output keeps the logs machine-readable in deployment; debug can
// be switched on per environment.
func NewLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
