package list

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the engine's structured logger
var Logger *slog.Logger

func init() {
	// Default to discarding logs until InitLogger is called
	Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// InitLogger sends engine logs to logPath. An empty path discards them.
// The log file is created with mode 0600 (user-only).
func InitLogger(logPath string) error {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	if logPath == "" {
		Logger = slog.New(slog.NewTextHandler(io.Discard, opts))
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
		return err
	}
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	Logger = slog.New(slog.NewTextHandler(file, opts))
	return nil
}
