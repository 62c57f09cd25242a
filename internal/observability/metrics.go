package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

func InitMetrics(ctx context.Context) (func(context.Context) error, error) {

	exporter, err := otlpmetrichttp.New(ctx)
	if err != nil {
		return nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter),
		),
	)

	otel.SetMeterProvider(provider)

	return provider.Shutdown, nil
}

func PrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// RegisterGauge registers g with the default Prometheus registry. If an
// identical gauge is already registered, that one is returned instead so
// repeated initialisation (tests, reloads) keeps a single series.
func RegisterGauge(g prometheus.Gauge) (prometheus.Gauge, error) {
	err := prometheus.Register(g)
	if err == nil {
		return g, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
			return existing, nil
		}
	}
	return nil, err
}
