package ai

import (
	"log/slog"
	"sync/atomic"
)

// tickDebug gates the per-frame movement logs.
var tickDebug atomic.Bool

// EnableDebugLogging switches per-frame movement logging on or off.
func EnableDebugLogging(enabled bool) {
	tickDebug.Store(enabled)
}

// IsDebugEnabled reports whether per-frame movement logging is on.
func IsDebugEnabled() bool {
	return tickDebug.Load()
}

// traceTick logs one controller event when per-frame logging is on.
func traceTick(msg string, objectID uint32, args ...any) {
	if !tickDebug.Load() {
		return
	}
	slog.Debug(msg, append([]any{"objectID", objectID}, args...)...)
}
