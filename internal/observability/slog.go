// Package observability provides logging initialization.
package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/stolasapp/logincheck/internal/config"
)

// InitSlog initializes a logger with the given config. When running in a
// terminal, it uses a human-readable text format; otherwise it uses JSON for
// structured logging.
func InitSlog(cfg *config.Config) *slog.Logger {
	return NewLogger(os.Stderr, cfg, term.IsTerminal(int(os.Stdin.Fd())))
}

// NewLogger builds the logger InitSlog would, writing to w.
func NewLogger(w io.Writer, cfg *config.Config, text bool) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: cfg.DevMode,
		Level:     ToLogLevel(cfg.LogLevel),
	}
	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// ToLogLevel maps a configured level name to a slog level. Unknown names map
// to info.
func ToLogLevel(lvl string) slog.Level {
	switch strings.ToLower(lvl) {
	case config.LevelDebug:
		return slog.LevelDebug
	case config.LevelWarn:
		return slog.LevelWarn
	case config.LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
