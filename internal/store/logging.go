package store

import (
	"io"
	"log/slog"
)

// Logger is the run store's structured logger. The CLI points it at the
// same file as the engine log.
var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
