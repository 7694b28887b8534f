package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
)

// NewTracerProvider creates an OpenTelemetry tracer provider that batches
// spans to an OTLP gRPC collector and installs it as the global provider.
// The caller owns shutdown.
func NewTracerProvider(ctx context.Context, config Config) (*sdktrace.TracerProvider, error) {
	// Create exporter
	exporter, err := otlptrace.New(
		ctx,
		otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(config.CollectorEndpoint),
			otlptracegrpc.WithInsecure(),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	// Create resource
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(config.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp, nil
}

// NewOTelTracerFromConfig builds an OTelTracer wired to an OTLP collector
// per config. When tracing is disabled the returned tracer adapts the global
// provider, which is a no-op unless one was installed elsewhere.
func NewOTelTracerFromConfig(ctx context.Context, config Config) (*OTelTracer, error) {
	if !config.Enabled {
		return NewOTelTracer(), nil
	}

	tp, err := NewTracerProvider(ctx, config)
	if err != nil {
		return nil, err
	}
	return NewOTelTracer(WithTracer(tp.Tracer(config.ServiceName))), nil
}
