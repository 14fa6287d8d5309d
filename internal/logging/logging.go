// Package logging routes the process-wide slog output to a file, keeping
// the terminal free for the UI.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup opens the log file and installs it as the slog default. The
// returned closer flushes and closes the file.
func Setup(level, path string) (io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	handler := tint.NewHandler(f, &tint.Options{
		Level:      parseLevel(level),
		NoColor:    true,
		TimeFormat: time.DateTime,
	})
	slog.SetDefault(slog.New(handler))
	return f, nil
}

// Discard silences the default logger, for tests and one-shot tools.
func Discard() {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
