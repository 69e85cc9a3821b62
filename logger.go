package scratchcard

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled reports false, so callers never build
// the attributes of a disabled record.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var silent = slog.New(discard{})

// current holds the engine logger. Hosts may swap it from their own
// goroutine while the card is running.
var current atomic.Pointer[slog.Logger]

func init() { current.Store(silent) }

// SetLogger routes the engine's log output, including the assets, telemetry
// and host packages, to l. A nil l silences the engine again, which is also
// the initial state.
//
// Records are emitted at these levels:
//   - Debug: ignored input, stale icon completions, resizes, fade end
//   - Info: mount, unmount, reveal, reset
//   - Warn: icons or fonts that could not be loaded
//
// A host that wants everything on stderr:
//
//	scratchcard.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
//		&slog.HandlerOptions{Level: slog.LevelDebug})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger { return current.Load() }
