// Package logging builds the application's structured logger on log/slog.
//
//	log := logging.New(cfg.Log, os.Stderr)
//	log.Info("booted", "classes", 12)
//	// → time=... level=INFO msg=booted classes=12
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/km-arc/go-inject/framework/config"
)

// New returns a logger writing to w. JSON output is meant for log
// aggregators, text output for humans.
func New(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
