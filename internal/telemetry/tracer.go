// Package telemetry sets up OpenTelemetry tracing.
package telemetry

import (
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/askiada/go-interceptor/internal/config"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(ctx context.Context) error

// InitTracer installs a tracer provider exporting spans to stdout.
// When tracing is disabled it installs a no-op provider.
func InitTracer(cfg config.TelemetryConfig, logger zerolog.Logger) (trace.TracerProvider, ShutdownFunc, error) {
	return InitTracerWithWriter(cfg, logger, os.Stdout)
}

// InitTracerWithWriter is InitTracer exporting to wrt.
func InitTracerWithWriter(cfg config.TelemetryConfig, logger zerolog.Logger, wrt io.Writer) (trace.TracerProvider, ShutdownFunc, error) {
	if !cfg.Enabled {
		tp := noop.NewTracerProvider()
		otel.SetTracerProvider(tp)

		return tp, func(context.Context) error { return nil }, nil
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(wrt))
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create trace exporter")
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", cfg.ServiceName)),
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "unable to create resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)

	logger.Info().Str("service", cfg.ServiceName).Msg("OpenTelemetry initialized")

	return tp, tp.Shutdown, nil
}
