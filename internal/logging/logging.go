// Package logging sets up the engine's structured logger: a thin
// construction layer over github.com/rs/zerolog shared by every subsystem.
package logging

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	defaultMu  sync.Mutex
	defaultLog *zerolog.Logger
)

// New builds a console-writer zerolog.Logger at the given level. An unknown
// level string falls back to info.
func New(level string) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	logger := zerolog.New(w).With().Timestamp().Logger().Level(parseLevel(level))
	return logger
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Default returns a process-wide logger at info level, used by components
// that were not explicitly constructed with one (e.g. a bare arena created
// outside the facade).
func Default() zerolog.Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLog == nil {
		l := New("info")
		defaultLog = &l
	}
	return *defaultLog
}

// SetDefault overrides the process-wide default logger, used by the facade's
// top-level configuration entrypoint.
func SetDefault(l zerolog.Logger) {
	defaultMu.Lock()
	defaultLog = &l
	defaultMu.Unlock()
}
