// Package telemetry wires the OpenTelemetry meter provider to a
// Prometheus registry so metrics are scrapeable from the HTTP server.
package telemetry

import (
	"context"
	"fmt"

	prom "github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Provider owns the meter provider and the Prometheus registry backing it.
type Provider struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *prom.Registry
}

// New builds the provider, registers it globally and returns it. Instrument
// creation through otel.Meter anywhere in the process reports into the
// returned registry.
func New(serviceName string) (*Provider, error) {
	registry := prom.NewRegistry()

	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	return &Provider{meterProvider: mp, registry: registry}, nil
}

// Registry exposes the Prometheus registry for the scrape handler.
func (p *Provider) Registry() *prom.Registry {
	return p.registry
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.meterProvider.Shutdown(ctx)
}
