package app

import (
	"io"
	"log/slog"
)

// parseLevel maps a level name to a slog.Level; unknown names mean info.
func parseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// newLogger builds an isolated logger writing text or JSON records to w.
// It never touches the global logger.
func newLogger(levelName, format string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(levelName)}

	var handler slog.Handler = slog.NewTextHandler(w, opts)
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("app", "sitemeta")
}
