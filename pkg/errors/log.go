package errors

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	stderrLogger     zerolog.Logger
	stderrLoggerOnce sync.Once
)

func defaultLogger() *zerolog.Logger {
	stderrLoggerOnce.Do(func() {
		stderrLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, NoColor: true}).
			With().Timestamp().Str("component", "standin").Logger()
	})
	return &stderrLogger
}

// LogHandler is an ErrorHandler that writes structured log records.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
	// Logger overrides the destination. Nil logs to stderr.
	Logger *zerolog.Logger
}

func (h *LogHandler) logger() *zerolog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return defaultLogger()
}

// HandleError logs a HostError.
func (h *LogHandler) HandleError(err *HostError) {
	if err == nil {
		return
	}
	ev := h.logger().Warn().
		Str("op", err.Op).
		Stringer("kind", err.Kind)
	if err.Widget != "" {
		ev = ev.Str("widget", err.Widget)
	}
	ev.Err(err.Err).Msg("framework error")
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	ev := h.logger().Error().Interface("value", err.Value)
	if err.Op != "" {
		ev = ev.Str("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("recovered panic")
}

// HandleBuildError logs a BuildError.
func (h *LogHandler) HandleBuildError(err *BuildError) {
	if err == nil {
		return
	}
	ev := h.logger().Error().
		Str("widget", err.Widget).
		Str("element", err.Element)
	if err.Recovered != nil {
		ev = ev.Interface("recovered", err.Recovered)
	}
	if err.Err != nil {
		ev = ev.AnErr("cause", err.Err)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("build failed")
}
