// Package logging builds the slog logger used by the resolver and its CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/funvibe/overload/internal/config"
)

// ParseLevel maps a config level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("unknown log level %q", name)
	}
}

// New returns a logger writing to w in the configured format. Unknown
// levels fall back to warn; Config.Validate rejects them earlier.
func New(cfg config.Config, w io.Writer) *slog.Logger {
	level, _ := ParseLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if config.IsTestMode {
		// Stable output for golden files
		opts.ReplaceAttr = dropTime
	}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

func dropTime(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	return a
}
