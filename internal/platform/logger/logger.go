package logger

import (
	"log/slog"
	"os"
)

// New returns the application's structured logger. JSON output keeps log
// aggregation simple; level comes from config so dev runs can turn on debug.
func New(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}
