package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/tatianab/bronze/internal/config"
)

// New builds the application logger. With toFile set, output goes to
// cfg.File instead of stderr; the returned closer releases that file.
func New(cfg config.LoggingConfig, toFile bool) (*slog.Logger, io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	if toFile {
		if cfg.File == "" {
			return slog.New(slog.DiscardHandler), closer, nil
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w, closer = f, f
	}

	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Level)}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	l := slog.New(handler)
	l.With("component", "logger").Debug("Logger initialized",
		"level", cfg.Level,
		"format", cfg.Format,
		"file", toFile,
	)
	return l, closer, nil
}

func parseLogLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
