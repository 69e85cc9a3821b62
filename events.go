package scratchcard

import (
	"log/slog"
	"time"
)

// EventKind names a semantic analytics event.
type EventKind string

// Events emitted by the Controller.
const (
	EventScratchStart    EventKind = "scratch_start"
	EventScratchComplete EventKind = "scratch_complete"
	EventScratchReset    EventKind = "scratch_reset"
	EventContact         EventKind = "contact"
)

// DeviceClass is the coarse device tag attached to completion events.
type DeviceClass string

// Device classes, split at Config.MobileBreakpoint.
const (
	DeviceMobile  DeviceClass = "mobile"
	DeviceDesktop DeviceClass = "desktop"
)

// Event is a fire-and-forget analytics record.
// Percent and Device are only set on EventScratchComplete.
type Event struct {
	Kind      EventKind
	Timestamp time.Time
	Percent   int
	Device    DeviceClass
}

// Fields flattens the event into the key/value shape analytics collectors
// expect, with the timestamp in Unix milliseconds.
func (e Event) Fields() map[string]any {
	f := map[string]any{
		"event":     string(e.Kind),
		"timestamp": e.Timestamp.UnixMilli(),
	}
	if e.Kind == EventScratchComplete {
		f["percent"] = e.Percent
		f["device"] = string(e.Device)
	}
	return f
}

// LogValue implements slog.LogValuer.
func (e Event) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("event", string(e.Kind)),
		slog.Int64("timestamp", e.Timestamp.UnixMilli()),
	}
	if e.Kind == EventScratchComplete {
		attrs = append(attrs, slog.Int("percent", e.Percent), slog.String("device", string(e.Device)))
	}
	return slog.GroupValue(attrs...)
}

// Emitter receives analytics events. Emit must not block; delivery to any
// collector is the emitter's business.
type Emitter interface {
	Emit(Event)
}

// EmitterFunc adapts a function to the Emitter interface.
type EmitterFunc func(Event)

// Emit implements Emitter.
func (f EmitterFunc) Emit(e Event) { f(e) }

// MultiEmitter fans every event out to each emitter in order.
type MultiEmitter []Emitter

// Emit implements Emitter.
func (m MultiEmitter) Emit(e Event) {
	for _, em := range m {
		if em != nil {
			em.Emit(e)
		}
	}
}

type nopEmitter struct{}

func (nopEmitter) Emit(Event) {}
