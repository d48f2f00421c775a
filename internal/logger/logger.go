package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/padudon-bit/IndieBook-project/internal/config"
)

// New creates a preconfigured slog.Logger honouring the configured level.
func New(cfg *config.Config) *slog.Logger {
	level := ""
	env := ""
	if cfg != nil {
		level = cfg.LogLevel
		env = cfg.Environment
	}
	return newWithWriter(os.Stdout, level, env)
}

func newWithWriter(w io.Writer, level, env string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	l := slog.New(handler)
	if env != "" {
		l = l.With(slog.String("env", env))
	}
	return l
}

// ParseLevel maps textual level names to slog levels, defaulting to info.
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
