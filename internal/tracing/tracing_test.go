package tracing

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"nimbus-web/internal/config"
)

func TestSetup_withoutExporter(t *testing.T) {
	shutdown, err := Setup(config.Config{}, "nimbus-web-test")
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	ctx, span := otel.Tracer("test").Start(context.Background(), "op")
	defer span.End()
	if !span.SpanContext().IsValid() {
		t.Fatal("span context is not valid; want sdk provider installed")
	}

	h := http.Header{}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(h))
	if h.Get("traceparent") == "" {
		t.Error("traceparent header not injected")
	}
}

func TestSetup_withZipkinEndpoint(t *testing.T) {
	shutdown, err := Setup(config.Config{ZipkinEndpoint: "http://127.0.0.1:9411/api/v2/spans"}, "nimbus-web-test")
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if shutdown == nil {
		t.Fatal("shutdown is nil")
	}
}

func TestSetup_invalidZipkinEndpoint(t *testing.T) {
	if _, err := Setup(config.Config{ZipkinEndpoint: "://bad"}, "nimbus-web-test"); err == nil {
		t.Fatal("Setup() = nil error; want invalid endpoint error")
	}
}
