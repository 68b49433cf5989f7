// Package log configures the process-wide slog logger. Every binary
// tags its records with a component name so the API and the worker can
// share one log pipeline.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs a text handler on stdout as the slog default and
// returns a component-scoped logger for the caller. The level comes
// from LOG_LEVEL (debug, info, warn, error), defaulting to info.
func Setup(component string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})
	logger := slog.New(handler).With("component", component)
	slog.SetDefault(logger)
	return logger
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
