// Package logx builds the process logger.
package logx

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// DefaultLevel is used when no level is configured
var DefaultLevel = slog.LevelInfo

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// The empty string is DefaultLevel.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultLevel, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return DefaultLevel, fmt.Errorf("unknown log level %q", s)
}

// New returns a text logger writing to w at the given level
func New(level string, w io.Writer) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

// OrDefault returns l, or slog.Default() when l is nil
func OrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}
