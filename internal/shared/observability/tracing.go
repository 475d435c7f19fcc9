package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "codeextract"

// Tracer is resolved through the global provider, so spans are no-ops until
// SetupTracing installs an exporter.
var Tracer trace.Tracer = otel.Tracer(tracerName)

// TracingOptions configures the OTLP exporter. An empty Endpoint disables tracing.
type TracingOptions struct {
	Endpoint string
	Insecure bool
}

// SetupTracing installs a batching OTLP/gRPC tracer provider and returns its
// shutdown function. With no endpoint it returns a no-op shutdown.
func SetupTracing(ctx context.Context, opts TracingOptions) (func(context.Context) error, error) {
	if opts.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	clientOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		clientOpts = append(clientOpts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	Tracer = tp.Tracer(tracerName)
	return tp.Shutdown, nil
}
