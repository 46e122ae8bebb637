package mapview

import (
	"log/slog"

	"github.com/gogpu/mapview/internal/logging"
)

// SetLogger configures the logger for mapview and all its sub-packages.
// By default, mapview produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by mapview:
//   - [slog.LevelDebug]: dropped theme references, skipped tile groups
//   - [slog.LevelInfo]: theme loaded
//   - [slog.LevelWarn]: material and shader failures
//
// Example:
//
//	mapview.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by mapview.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
