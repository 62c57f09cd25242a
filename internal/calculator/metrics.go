package calculator

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"go-chi-calculator/internal/observability"
)

// Metric instruments, initialized once via InitMetrics().
var (
	keysCounter         metric.Int64Counter
	keyHistogram        metric.Float64Histogram
	errorCounter        metric.Int64Counter
	calculationsCounter metric.Int64Counter
	resultGauge         metric.Float64Gauge

	// sessionsGauge is scraped directly from /metrics.
	sessionsGauge prometheus.Gauge
)

// InitMetrics registers the calculator's OTel instruments and its Prometheus
// session gauge. Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("calculator")

	var err error

	keysCounter, err = meter.Int64Counter("calculator.keys.total",
		metric.WithDescription("Total number of key presses applied to calculator engines"),
		metric.WithUnit("{key}"),
	)
	if err != nil {
		return fmt.Errorf("creating keys counter: %w", err)
	}

	keyHistogram, err = meter.Float64Histogram("calculator.key.duration",
		metric.WithDescription("Time to apply a key press in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.5, 1, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("creating key histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculator.errors.total",
		metric.WithDescription("Total number of calculator errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	calculationsCounter, err = meter.Int64Counter("calculator.calculations.total",
		metric.WithDescription("Total number of calculations completed with equals"),
		metric.WithUnit("{calculation}"),
	)
	if err != nil {
		return fmt.Errorf("creating calculations counter: %w", err)
	}

	resultGauge, err = meter.Float64Gauge("calculator.last_result",
		metric.WithDescription("The result of the last completed calculation"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("creating result gauge: %w", err)
	}

	sessionsGauge, err = observability.RegisterGauge(prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "calculator_sessions_active",
		Help: "Number of live calculator sessions.",
	}))
	if err != nil {
		return fmt.Errorf("registering sessions gauge: %w", err)
	}

	return nil
}
