package trace

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// OTLPExporter exports traces through an OpenTelemetry tracer provider
type OTLPExporter struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
}

// Ensure OTLPExporter implements Exporter.
var _ Exporter = (*OTLPExporter)(nil)

// NewOTLPExporter creates an OTLP exporter if OTEL_EXPORTER_OTLP_ENDPOINT is set
// Returns nil if endpoint not configured (disabled)
func NewOTLPExporter(ctx context.Context) (*OTLPExporter, error) {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		return nil, nil // Disabled
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // For local dev
	)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}
	return NewExporter(sdktrace.WithBatcher(exporter)), nil
}

// NewExporter builds an exporter over a tracer provider configured with opts.
// The service name comes from OTEL_SERVICE_NAME, defaulting to "slidepanel".
func NewExporter(opts ...sdktrace.TracerProviderOption) *OTLPExporter {
	serviceName := os.Getenv("OTEL_SERVICE_NAME")
	if serviceName == "" {
		serviceName = "slidepanel"
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	opts = append(opts, sdktrace.WithResource(res))
	provider := sdktrace.NewTracerProvider(opts...)

	return &OTLPExporter{
		provider: provider,
		tracer:   provider.Tracer("slidingpanel/panel"),
	}
}

// ExportTrace exports a Trace's span tree
func (e *OTLPExporter) ExportTrace(ctx context.Context, t *Trace) error {
	if e == nil || t == nil || t.RootSpan == nil {
		return nil
	}

	traceID, err := hexToTraceID(t.ID)
	if err != nil {
		return err
	}

	traceCtx := oteltrace.ContextWithSpanContext(ctx, oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    traceID,
		TraceFlags: oteltrace.FlagsSampled,
	}))

	e.exportSpan(traceCtx, t.RootSpan, oteltrace.SpanContext{})
	return nil
}

// exportSpan recursively exports a span and its children. The SDK assigns new
// span IDs; nesting and timing are preserved.
func (e *OTLPExporter) exportSpan(ctx context.Context, span *Span, parent oteltrace.SpanContext) {
	parentCtx := ctx
	if parent.IsValid() {
		parentCtx = oteltrace.ContextWithSpanContext(ctx, parent)
	}

	_, otlpSpan := e.tracer.Start(
		parentCtx,
		span.Name,
		oteltrace.WithTimestamp(span.StartTime),
	)

	attrs := make([]attribute.KeyValue, 0, len(span.Attributes))
	for k, v := range span.Attributes {
		attrs = append(attrs, attribute.String(attributeKey(k), v))
	}
	otlpSpan.SetAttributes(attrs...)
	otlpSpan.End(oteltrace.WithTimestamp(span.StartTime.Add(span.Duration)))

	current := otlpSpan.SpanContext()
	for _, child := range span.Children {
		e.exportSpan(ctx, child, current)
	}
}

// attributeKey maps local attribute names into the slidepanel.* namespace.
func attributeKey(k string) string {
	switch k {
	case "from_state":
		return "slidepanel.state.from"
	case "to_state":
		return "slidepanel.state.to"
	case "start_progress":
		return "slidepanel.progress.start"
	case "end_progress":
		return "slidepanel.progress.end"
	default:
		return "slidepanel." + k
	}
}

// hexToTraceID converts a 32-character hex string to trace.TraceID
func hexToTraceID(hexStr string) (oteltrace.TraceID, error) {
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return oteltrace.TraceID{}, fmt.Errorf("trace id %q: %w", hexStr, err)
	}
	if len(b) != 16 {
		return oteltrace.TraceID{}, fmt.Errorf("trace id %q: want 16 bytes, got %d", hexStr, len(b))
	}
	var traceID oteltrace.TraceID
	copy(traceID[:], b)
	return traceID, nil
}

// Shutdown flushes and closes the exporter
func (e *OTLPExporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}
