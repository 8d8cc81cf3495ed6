package core

import (
	"context"
	"log/slog"
)

// LevelTrace is one step above Info so that per-packet traces can be
// enabled without drowning regular logs.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs a device-side event at the trace level.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
