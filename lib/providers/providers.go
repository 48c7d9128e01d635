package providers

import (
	"context"
	"log/slog"
	"os"

	"github.com/onkernel/bootc-status/cmd/bootc-status/config"
	"github.com/onkernel/bootc-status/lib/logger"
	"github.com/onkernel/bootc-status/lib/otel"
	"github.com/onkernel/bootc-status/lib/paths"
	"github.com/onkernel/bootc-status/lib/status"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// ProvideContext provides a base context
func ProvideContext() context.Context {
	return context.Background()
}

// ProvideConfig provides the application configuration
func ProvideConfig() *config.Config {
	return config.Load()
}

// ProvideLogger provides a structured logger writing to stderr
func ProvideLogger(cfg *config.Config) *slog.Logger {
	return logger.NewSubsystemLogger(logger.SubsystemCLI, logger.Config{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Output: os.Stderr,
	})
}

// ProvidePaths provides the sysroot layout
func ProvidePaths(cfg *config.Config) *paths.Paths {
	return paths.New(cfg.Sysroot).WithOCICache(cfg.ImageCacheDir)
}

// ProvideMeterProvider provides the meter provider; a no-op unless OTEL_ENABLED is set
func ProvideMeterProvider(ctx context.Context, cfg *config.Config, log *slog.Logger) (metric.MeterProvider, func(), error) {
	provider, shutdown, err := otel.NewMeterProvider(ctx, otel.Config{
		Enabled:     cfg.OtelEnabled,
		Endpoint:    cfg.OtelEndpoint,
		ServiceName: cfg.OtelServiceName,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn("failed to flush metrics", "error", err)
		}
	}
	return provider, cleanup, nil
}

// ProvideTracerProvider provides the tracer provider; a no-op unless OTEL_ENABLED is set
func ProvideTracerProvider(ctx context.Context, cfg *config.Config, log *slog.Logger) (trace.TracerProvider, func(), error) {
	provider, shutdown, err := otel.NewTracerProvider(ctx, otel.Config{
		Enabled:     cfg.OtelEnabled,
		Endpoint:    cfg.OtelEndpoint,
		ServiceName: cfg.OtelServiceName,
	})
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn("failed to flush traces", "error", err)
		}
	}
	return provider, cleanup, nil
}

// ProvideStatusMetrics provides the status query metrics and spans
func ProvideStatusMetrics(mp metric.MeterProvider, tp trace.TracerProvider) (*otel.StatusMetrics, error) {
	return otel.NewStatusMetrics(mp.Meter(otel.MeterName), tp.Tracer(otel.MeterName))
}

// ProvideReporter provides the status command implementation
func ProvideReporter(p *paths.Paths, metrics *otel.StatusMetrics) *status.Reporter {
	return status.NewReporter(p, metrics)
}
