package enginecore

import (
	"github.com/rs/zerolog"

	"github.com/ridgeline-games/enginecore/internal/logging"
)

// Logger is the structured logger type every engine subsystem writes
// through.
type Logger = zerolog.Logger

// NewLogger builds a console-writer Logger at the given level ("debug",
// "info", "warn", "error", or "disabled"); an unrecognized level falls back
// to info.
func NewLogger(level string) Logger {
	return logging.New(level)
}

// DefaultLogger returns the process-wide logger used by components that
// were constructed without an explicit one.
func DefaultLogger() Logger {
	return logging.Default()
}

// SetDefaultLogger overrides the process-wide default logger.
func SetDefaultLogger(l Logger) {
	logging.SetDefault(l)
}
