package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/attribute"
)

func TestTracerWithoutProvider(t *testing.T) {
	tracer := Tracer("test")
	ctx, span := tracer.Start(context.Background(), "test.span")
	defer span.End()

	if span.SpanContext().IsValid() {
		t.Error("Expected span without a provider to carry an invalid span context")
	}

	// Must not panic without a recording span.
	SpanEvent(ctx, "test.event", attribute.Int("n", 1))
	SpanEvent(context.Background(), "orphan.event")
}

func TestEnabled(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	if Enabled() {
		t.Error("Expected telemetry disabled without an endpoint")
	}
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318")
	if !Enabled() {
		t.Error("Expected telemetry enabled with an endpoint")
	}
}
