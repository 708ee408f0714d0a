// Package logger builds slog loggers from environment configuration so every
// binary in the project logs the same way.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format represents logger output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config controls logger construction via environment variables.
type Config struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`    // debug, info, warn, error
	Format  Format `env:"LOG_FORMAT" envDefault:"json"`   // json or text
	Service string `env:"LOG_SERVICE" envDefault:""`      // optional service attr added to every record
	AddSrc  bool   `env:"LOG_ADD_SOURCE" envDefault:"false"` // include source file:line
}

// New creates a configured slog.Logger writing to w. If w is nil, os.Stdout
// is used.
func New(cfg Config, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: cfg.AddSrc,
	}

	var handler slog.Handler
	if cfg.Format == FormatText {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	log := slog.New(handler)
	if cfg.Service != "" {
		log = log.With(slog.String("service", cfg.Service))
	}
	return log
}

// SetAsDefault installs l as the process-wide default logger.
func SetAsDefault(l *slog.Logger) {
	slog.SetDefault(l)
}

// parseLevel maps a config string onto a slog level. Unknown values fall
// back to info rather than failing startup.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
