package telemetry

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/posthog/posthog-go"
)

// Logger receives telemetry diagnostics, the PostHog client's included. It
// discards them until the CLI points it at the debug log. Nothing here may
// write to stderr: the TUI owns the terminal.
var Logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ posthog.Logger = posthogLogger{}

// posthogLogger forwards the PostHog client's printf-style logs to Logger
type posthogLogger struct{}

func (posthogLogger) Debugf(format string, args ...any) {
	Logger.Debug(fmt.Sprintf(format, args...), "source", "posthog")
}

func (posthogLogger) Logf(format string, args ...any) {
	Logger.Info(fmt.Sprintf(format, args...), "source", "posthog")
}

func (posthogLogger) Warnf(format string, args ...any) {
	Logger.Warn(fmt.Sprintf(format, args...), "source", "posthog")
}

func (posthogLogger) Errorf(format string, args ...any) {
	Logger.Error(fmt.Sprintf(format, args...), "source", "posthog")
}
