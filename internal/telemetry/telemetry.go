// Package telemetry exports gesture events as OpenTelemetry spans.
//
// Export is off unless OTEL_EXPORTER_OTLP_ENDPOINT is set. Each hook call
// becomes one self-contained span, so sessions driven concurrently by the
// HTTP host never share span state.
package telemetry

import (
	"context"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/matzehuels/swipestack/pkg/observability"
)

const tracerName = "swipestack/swipe"

// Exporter owns a tracer provider that ships spans over OTLP/HTTP.
type Exporter struct {
	provider *sdktrace.TracerProvider
}

// NewExporter creates an exporter if OTEL_EXPORTER_OTLP_ENDPOINT is set.
// It returns nil, nil when export is not configured.
func NewExporter(ctx context.Context) (*Exporter, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "swipestack"
	}
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	return &Exporter{provider: sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)}, nil
}

// Hooks returns gesture hooks backed by this exporter's provider.
func (e *Exporter) Hooks() *Hooks {
	return NewHooks(e.provider)
}

// Install registers the exporter's hooks globally. A nil exporter is a no-op.
func (e *Exporter) Install() {
	if e == nil {
		return
	}
	observability.SetGestureHooks(e.Hooks())
}

// Shutdown flushes pending spans and closes the exporter.
func (e *Exporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}

// Hooks implements observability.GestureHooks with spans.
type Hooks struct {
	tracer oteltrace.Tracer
	now    func() time.Time
}

var _ observability.GestureHooks = (*Hooks)(nil)

// NewHooks creates hooks that record on tp.
func NewHooks(tp oteltrace.TracerProvider) *Hooks {
	return &Hooks{tracer: tp.Tracer(tracerName), now: time.Now}
}

func (h *Hooks) OnDragStart(top int) {
	h.instant("gesture.drag_start", attribute.Int("swipestack.top", top))
}

func (h *Hooks) OnRelease(top int, offset, velocity float64, outcome string) {
	h.instant("gesture.release",
		attribute.Int("swipestack.top", top),
		attribute.Float64("swipestack.offset", offset),
		attribute.Float64("swipestack.velocity", velocity),
		attribute.String("swipestack.outcome", outcome),
	)
}

func (h *Hooks) OnSettle(top, newTop int, outcome string, duration time.Duration) {
	h.span("gesture.settle", duration,
		attribute.Int("swipestack.top", top),
		attribute.Int("swipestack.new_top", newTop),
		attribute.String("swipestack.outcome", outcome),
	)
}

func (h *Hooks) OnInterrupt(top int, outcome string, elapsed time.Duration) {
	h.span("gesture.interrupt", elapsed,
		attribute.Int("swipestack.top", top),
		attribute.String("swipestack.outcome", outcome),
		attribute.Bool("swipestack.interrupted", true),
	)
}

func (h *Hooks) instant(name string, attrs ...attribute.KeyValue) {
	h.span(name, 0, attrs...)
}

// span records a finished span that ends now and lasted d.
func (h *Hooks) span(name string, d time.Duration, attrs ...attribute.KeyValue) {
	end := h.now()
	_, s := h.tracer.Start(context.Background(), name,
		oteltrace.WithTimestamp(end.Add(-d)),
		oteltrace.WithAttributes(attrs...),
	)
	s.End(oteltrace.WithTimestamp(end))
}
