package logging

import (
	"log/slog"
	"os"
)

// New returns the process logger: JSON in production, text elsewhere.
func New(env string) *slog.Logger {
	var handler slog.Handler

	switch env {
	case "prod", "production":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: true,
		})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		})
	}

	return slog.New(handler).With("app", "notify-csc", "env", env)
}

// Discard returns a logger that drops every record. Used by tests and tools.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
