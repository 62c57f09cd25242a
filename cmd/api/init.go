package main

import (
	"context"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
)

type shutdownFunc func(context.Context) error

// initTelemetry starts OTLP tracing, metrics and log export when enabled and
// registers the calculator's metric instruments either way. Shutdown funcs
// are returned in the order they should run.
func initTelemetry(ctx context.Context, cfg config.Config) ([]shutdownFunc, error) {
	var shutdowns []shutdownFunc

	if cfg.OTLP {
		traceShutdown, err := observability.InitTracing(ctx)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, traceShutdown)

		metricShutdown, err := observability.InitMetrics(ctx)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, metricShutdown)

		logShutdown, err := observability.InitLogging(ctx)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, logShutdown)
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdowns, nil
}
