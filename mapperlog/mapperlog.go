// Package mapperlog provides the logging conventions shared by the mapper
// packages: a structured slog logger plus a Trace level for the mapper's
// search diagnostics.
package mapperlog

import (
	"context"
	"log/slog"
)

// LevelTrace sits one notch above LevelInfo, so a handler that shows Info
// records shows Trace records too. It is used for the mapper's search
// diagnostics (an II found infeasible, a mapping that failed to converge
// or to verify, an incremental snapshot that fell back to full mapping),
// the first thing to inspect when a mapping fails.
const LevelTrace slog.Level = slog.LevelInfo + 1

// Trace logs msg and args at LevelTrace using the default slog logger.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}
