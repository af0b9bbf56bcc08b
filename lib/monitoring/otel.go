/**
 * Copyright 2026 Expsched Authors. All rights reserved.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License. You may obtain a copy
 * of the License at http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software distributed under
 * the License is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR REPRESENTATIONS
 * OF ANY KIND, either express or implied. See the License for the specific language
 * governing permissions and limitations under the License.
 */

// Package monitoring provides OpenTelemetry-based observability for the
// scheduler: a Prometheus-scrapable gauge/counter set reflecting resource
// reservations and launch activity, independent of the scheduling logic
// itself so instrumentation failures never block a cycle.
package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"

	"github.com/expsched/expsched/lib/log"
)

const (
	serviceName    = "expsched"
	serviceVersion = "1.0.0"
)

// Config controls whether and how the scheduler exposes metrics.
type Config struct {
	Enabled bool `json:"enabled"` // Enable/disable monitoring entirely

	ServiceName    string `json:"service_name"`
	ServiceVersion string `json:"service_version"`
}

// InitDefaults sets the zero-config defaults: monitoring off unless a
// caller opts in, since a local single-operator scheduler has no one
// scraping it by default.
func (c *Config) InitDefaults() {
	c.Enabled = false
	c.ServiceName = serviceName
	c.ServiceVersion = serviceVersion
}

// Monitor owns the meter provider and Prometheus exporter backing it.
// A disabled Monitor has a nil Metrics; every Metrics method tolerates
// that so callers never need to branch on whether monitoring is on.
type Monitor struct {
	config        *Config
	meterProvider *metric.MeterProvider
	promExporter  *prometheus.Exporter
	meter         otelmetric.Meter
	metrics       *Metrics
}

// Initialize sets up the Prometheus-backed meter provider and registers
// the scheduler's instruments. Returns a Monitor with nil instruments
// when config is disabled, rather than an error — monitoring is optional
// infrastructure, not a startup dependency.
func Initialize(_ context.Context, config *Config) (*Monitor, error) {
	if !config.Enabled {
		log.Info("Monitoring: disabled")
		return &Monitor{config: config}, nil
	}

	res, err := createResource(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	promExporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	meterProvider := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(promExporter),
	)
	otel.SetMeterProvider(meterProvider)
	meter := otel.Meter(config.ServiceName)

	metrics, err := NewMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	log.Info("Monitoring: Prometheus metrics initialized")
	return &Monitor{
		config:        config,
		meterProvider: meterProvider,
		promExporter:  promExporter,
		meter:         meter,
		metrics:       metrics,
	}, nil
}

func createResource(config *Config) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
		),
	)
}

// GetMeter returns the OpenTelemetry meter, nil when monitoring is
// disabled.
func (m *Monitor) GetMeter() otelmetric.Meter {
	return m.meter
}

// GetMetrics returns the scheduler's instrument set. Nil-safe to call
// through — its methods are nil receivers themselves.
func (m *Monitor) GetMetrics() *Metrics {
	return m.metrics
}

// GetPrometheusHandler returns the Prometheus exporter backing this
// monitor's meter provider, for mounting under an HTTP /metrics route.
// Nil when monitoring is disabled.
func (m *Monitor) GetPrometheusHandler() *prometheus.Exporter {
	return m.promExporter
}

// Shutdown flushes and stops the meter provider. A no-op when monitoring
// was never enabled.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if m.meterProvider == nil {
		return nil
	}
	log.Info("Monitoring: shutting down")
	return m.meterProvider.Shutdown(ctx)
}

// IsEnabled reports whether monitoring was turned on at Initialize time.
func (m *Monitor) IsEnabled() bool {
	return m.config != nil && m.config.Enabled
}
