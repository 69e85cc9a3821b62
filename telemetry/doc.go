// Package telemetry contains scratchcard.Emitter sinks.
//
// The engine only produces semantic events; these sinks decide where they
// go. [LogEmitter] writes them to a slog.Logger, [SpanEmitter] records one
// OpenTelemetry span per event and [Journal] keeps a persistent per-user
// tally. Combine several with scratchcard.MultiEmitter.
package telemetry
