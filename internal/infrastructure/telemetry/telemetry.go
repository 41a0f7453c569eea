package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mrops-br/storefront-cart/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// InstrumentationName is the tracer and meter name used across the module
const InstrumentationName = "storefront-cart"

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Registry       *prometheus.Registry
	Logger         *slog.Logger
}

// New returns exporting telemetry when OTLP is enabled, no-op telemetry otherwise.
func New(cfg *config.Config, out io.Writer) (*Telemetry, error) {
	if cfg.OTLP.Enabled {
		return NewTelemetry(cfg, out)
	}
	return NewNoOpTelemetry(cfg, out)
}

// NewTelemetry initializes all OpenTelemetry components
func NewTelemetry(cfg *config.Config, out io.Writer) (*Telemetry, error) {
	// Initialize logger first for debugging
	logger := initLogger(cfg, out, true)

	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", cfg.OTLP.Endpoint),
		slog.String("service_name", cfg.OTLP.ServiceName),
	)

	res, err := newResource(&cfg.OTLP)
	if err != nil {
		return nil, err
	}

	tp, err := initTracerProvider(&cfg.OTLP, res)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}
	otel.SetTracerProvider(tp)
	logger.Info("Tracer provider initialized successfully")

	// Dual metric readers: OTLP push and Prometheus pull
	registry := prometheus.NewRegistry()
	mp, err := initMeterProvider(&cfg.OTLP, res, registry)
	if err != nil {
		return nil, errors.Join(
			fmt.Errorf("failed to initialize meter provider: %w", err),
			tp.Shutdown(context.Background()),
		)
	}
	otel.SetMeterProvider(mp)
	logger.Info("Meter provider initialized successfully (OTLP + Prometheus exporters)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Registry:       registry,
		Logger:         logger,
	}, nil
}

// NewNoOpTelemetry creates a telemetry instance that exports nothing over OTLP.
// Prometheus metrics are still collected on the private registry.
func NewNoOpTelemetry(cfg *config.Config, out io.Writer) (*Telemetry, error) {
	logger := initLogger(cfg, out, false)

	tp := sdktrace.NewTracerProvider()

	registry := prometheus.NewRegistry()
	mp, err := initPrometheusMeterProvider(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	logger.Debug("Telemetry initialized in no-op mode (export disabled)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Registry:       registry,
		Logger:         logger,
	}, nil
}

// Shutdown gracefully shuts down all telemetry components
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Debug("Shutting down OpenTelemetry")

	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown tracer provider", slog.String("error", err.Error()))
		return err
	}

	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown meter provider", slog.String("error", err.Error()))
		return err
	}

	t.Logger.Debug("OpenTelemetry shutdown successfully")
	return nil
}
