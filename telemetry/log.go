package telemetry

import (
	"log/slog"

	"github.com/gogpu/scratchcard"
)

// LogEmitter writes each event as one Info record.
type LogEmitter struct {
	Logger *slog.Logger
}

// Emit implements scratchcard.Emitter.
func (l LogEmitter) Emit(e scratchcard.Event) {
	logger := l.Logger
	if logger == nil {
		logger = scratchcard.Logger()
	}
	logger.Info("scratchcard event", "event", e)
}
