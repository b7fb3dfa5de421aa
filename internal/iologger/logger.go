// Package iologger provides slog-based logging initialization.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gnames/gnlineage/pkg/config"
)

// LogFile is the name of the log file inside the log directory.
const LogFile = "gnlineage.log"

// Init initializes the global slog logger with the given configuration.
// Creates log file in logDir if destination is "file". If append is true,
// new records are added to the existing log file, otherwise the file is
// truncated. The returned closer releases the log file, it is a no-op
// for stdout and stderr.
func Init(
	logDir string,
	cfg config.LogConfig,
	append bool,
) (io.Closer, error) {
	var writer io.Writer
	var closer io.Closer = nopCloser{}

	switch cfg.Destination {
	case "stdout":
		writer = os.Stdout
	case "stderr":
		writer = os.Stderr
	case "file":
		logPath := filepath.Join(logDir, LogFile)
		flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		if append {
			flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
		}
		file, err := os.OpenFile(logPath, flags, 0644)
		if err != nil {
			return nil, CreateLogFileError(logPath, err)
		}
		writer = file
		closer = file
	default:
		writer = os.Stderr
	}

	slog.SetDefault(slog.New(NewHandler(writer, cfg)))
	return closer, nil
}

// NewHandler creates a slog handler for the configured format and level.
func NewHandler(w io.Writer, cfg config.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	}

	switch cfg.Format {
	case "text":
		return slog.NewTextHandler(w, opts)
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

func parseLevel(level string) slog.Level {
	switch level {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
