package app

import (
	"io"
	"log/slog"
)

// defaultLogLevel matches the default of the --log-level flag.
const defaultLogLevel = slog.LevelWarn

// newLogger creates an isolated slog.Logger writing to w. Unknown or empty
// levels use defaultLogLevel; any format other than "json" produces text.
func newLogger(levelStr, formatStr string, w io.Writer) *slog.Logger {
	level := defaultLogLevel
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	if formatStr == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}
