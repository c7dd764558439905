// Package log configures structured logging for the binaries and carries the
// shared field-name constants.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs a text slog handler as the process default and returns a
// logger tagged with the component name. The level comes from LOG_LEVEL
// (debug, info, warn, error), defaulting to info.
func Setup(component string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromEnv(),
	})
	logger := slog.New(handler).With(FieldComponent, component)
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
