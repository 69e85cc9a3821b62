package telemetry

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/gogpu/scratchcard"
)

const instrumentation = "github.com/gogpu/scratchcard"

// Environment variables read by Setup.
const (
	EnvOTelEndpoint = scratchcard.EnvPrefix + "OTEL_ENDPOINT"
	EnvOTelEnabled  = scratchcard.EnvPrefix + "OTEL_ENABLED"
)

// SpanEmitter records every event as a zero-length span named
// "scratchcard.<event>", stamped with the event time.
type SpanEmitter struct {
	tracer trace.Tracer
}

// NewSpanEmitter creates an emitter using tp, or the global provider when tp
// is nil.
func NewSpanEmitter(tp trace.TracerProvider) *SpanEmitter {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &SpanEmitter{tracer: tp.Tracer(instrumentation)}
}

// Emit implements scratchcard.Emitter.
func (s *SpanEmitter) Emit(e scratchcard.Event) {
	attrs := []attribute.KeyValue{
		attribute.String("scratchcard.event", string(e.Kind)),
		attribute.Int64("scratchcard.timestamp_ms", e.Timestamp.UnixMilli()),
	}
	if e.Kind == scratchcard.EventScratchComplete {
		attrs = append(attrs,
			attribute.Int("scratchcard.percent", e.Percent),
			attribute.String("scratchcard.device", string(e.Device)),
		)
	}
	_, span := s.tracer.Start(context.Background(), "scratchcard."+string(e.Kind),
		trace.WithTimestamp(e.Timestamp),
		trace.WithAttributes(attrs...),
	)
	span.End(trace.WithTimestamp(e.Timestamp))
}

// Setup installs a global OTLP/HTTP tracer provider for serviceName.
//
// Tracing is opt-in: when SCRATCHCARD_OTEL_ENDPOINT is empty or
// SCRATCHCARD_OTEL_ENABLED is "false", Setup registers nothing and returns a
// no-op shutdown. The returned shutdown flushes pending spans.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv(EnvOTelEnabled), "false") {
		return noop, nil
	}
	endpoint := os.Getenv(EnvOTelEndpoint)
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noop, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(serviceName)))
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	scratchcard.Logger().Info("telemetry: tracing enabled", "endpoint", endpoint, "service", serviceName)

	return tp.Shutdown, nil
}
