// Package exception presents resolution failures and decides what happens to
// the process afterwards.
package exception

import (
	"errors"
	"log/slog"
	"os"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
)

// Handler receives every failure that reaches the object manager boundary.
type Handler interface {
	Handle(err error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(err error)

func (f HandlerFunc) Handle(err error) { f(err) }

// ── LogHandler ────────────────────────────────────────────────────────────────

// LogHandler reports errors through a structured logger.
type LogHandler struct {
	Logger *slog.Logger
}

// NewLogHandler returns a LogHandler writing to l, or to slog.Default when l
// is nil.
func NewLogHandler(l *slog.Logger) *LogHandler {
	if l == nil {
		l = slog.Default()
	}
	return &LogHandler{Logger: l}
}

func (h *LogHandler) Handle(err error) {
	if err == nil {
		return
	}
	attrs := []any{"error", err.Error(), "kind", Kind(err)}

	var rerr *container.ResolutionError
	if errors.As(err, &rerr) {
		attrs = append(attrs, "class", rerr.Class)
	}
	h.Logger.Error("container: resolution failed", attrs...)
}

// ── ExitHandler ───────────────────────────────────────────────────────────────

// ExitHandler passes the error to Next and then terminates the process with
// Code. Exit defaults to os.Exit; tests replace it.
type ExitHandler struct {
	Next Handler
	Code int
	Exit func(code int)
}

func (h *ExitHandler) Handle(err error) {
	if err == nil {
		return
	}
	if h.Next != nil {
		h.Next.Handle(err)
	}
	exit := h.Exit
	if exit == nil {
		exit = os.Exit
	}
	exit(h.Code)
}

// FromConfig builds the handler described by cfg: a LogHandler, wrapped in an
// ExitHandler when DI_EXIT_ON_ERROR is set.
func FromConfig(cfg config.ContainerConfig, l *slog.Logger) Handler {
	log := NewLogHandler(l)
	if !cfg.ExitOnError {
		return log
	}
	return &ExitHandler{Next: log, Code: cfg.ExitCode}
}

// Kind returns a short label for the sentinel err wraps, for logs and
// metrics.
func Kind(err error) string {
	switch {
	case errors.Is(err, container.ErrClassNotInstantiable):
		return "not_instantiable"
	case errors.Is(err, container.ErrUnknownClass):
		return "unknown_class"
	case errors.Is(err, container.ErrCircularDependency):
		return "circular_dependency"
	case errors.Is(err, container.ErrConstructorFailed):
		return "constructor_failed"
	default:
		return "error"
	}
}
