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

package monitoring

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments the loop updates once per cycle. Scoped to
// what the scheduler itself can observe about its own admission decisions —
// no host-wide CPU/disk/network collection, since that's ground gopsutil
// already covers more precisely for the accounting the filters actually use.
type Metrics struct {
	meter metric.Meter

	reservedRAMGB  metric.Float64Gauge
	reservedCores  metric.Float64Gauge
	gpuReservedGB  metric.Float64Gauge
	gpuFreeGB      metric.Float64Gauge
	runningCount   metric.Int64Gauge
	remainingCount metric.Int64Gauge

	launches        metric.Int64Counter
	completions     metric.Int64Counter
	failures        metric.Int64Counter
	oomTerminations metric.Int64Counter
}

// NewMetrics registers the scheduler's instruments against meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}

	var err error
	if m.reservedRAMGB, err = meter.Float64Gauge(
		"expsched_reserved_ram_gb",
		metric.WithDescription("RAM reserved by running and recently-raised commands"),
		metric.WithUnit("GiB"),
	); err != nil {
		return nil, fmt.Errorf("failed to create reserved_ram_gb metric: %w", err)
	}

	if m.reservedCores, err = meter.Float64Gauge(
		"expsched_reserved_cores",
		metric.WithDescription("CPU cores reserved by running commands"),
	); err != nil {
		return nil, fmt.Errorf("failed to create reserved_cores metric: %w", err)
	}

	if m.gpuReservedGB, err = meter.Float64Gauge(
		"expsched_gpu_reserved_gb",
		metric.WithDescription("GPU VRAM reserved, per device index"),
		metric.WithUnit("GiB"),
	); err != nil {
		return nil, fmt.Errorf("failed to create gpu_reserved_gb metric: %w", err)
	}

	if m.gpuFreeGB, err = meter.Float64Gauge(
		"expsched_gpu_free_gb",
		metric.WithDescription("GPU VRAM free as last probed, per device index"),
		metric.WithUnit("GiB"),
	); err != nil {
		return nil, fmt.Errorf("failed to create gpu_free_gb metric: %w", err)
	}

	if m.runningCount, err = meter.Int64Gauge(
		"expsched_running_count",
		metric.WithDescription("Number of commands currently running"),
	); err != nil {
		return nil, fmt.Errorf("failed to create running_count metric: %w", err)
	}

	if m.remainingCount, err = meter.Int64Gauge(
		"expsched_remaining_count",
		metric.WithDescription("Number of commands still needing output"),
	); err != nil {
		return nil, fmt.Errorf("failed to create remaining_count metric: %w", err)
	}

	if m.launches, err = meter.Int64Counter(
		"expsched_launches_total",
		metric.WithDescription("Total commands launched"),
	); err != nil {
		return nil, fmt.Errorf("failed to create launches metric: %w", err)
	}

	if m.completions, err = meter.Int64Counter(
		"expsched_completions_total",
		metric.WithDescription("Total commands that exited zero and published"),
	); err != nil {
		return nil, fmt.Errorf("failed to create completions metric: %w", err)
	}

	if m.failures, err = meter.Int64Counter(
		"expsched_failures_total",
		metric.WithDescription("Total commands that exited nonzero"),
	); err != nil {
		return nil, fmt.Errorf("failed to create failures metric: %w", err)
	}

	if m.oomTerminations, err = meter.Int64Counter(
		"expsched_oom_terminations_total",
		metric.WithDescription("Total commands terminated by the OOM guard"),
	); err != nil {
		return nil, fmt.Errorf("failed to create oom_terminations metric: %w", err)
	}

	return m, nil
}

func gpuIndexAttr(i int) attribute.KeyValue {
	return attribute.Int("gpu_index", i)
}

// RecordLaunch increments the launch counter. Nil-safe so callers that
// skipped monitoring setup can call it unconditionally.
func (m *Metrics) RecordLaunch(ctx context.Context) {
	if m == nil {
		return
	}
	m.launches.Add(ctx, 1)
}

// RecordCompletion increments the completion or failure counter depending
// on exit status. Nil-safe.
func (m *Metrics) RecordCompletion(ctx context.Context, succeeded bool) {
	if m == nil {
		return
	}
	if succeeded {
		m.completions.Add(ctx, 1)
		return
	}
	m.failures.Add(ctx, 1)
}

// RecordOOMTermination increments the OOM termination counter. Nil-safe.
func (m *Metrics) RecordOOMTermination(ctx context.Context) {
	if m == nil {
		return
	}
	m.oomTerminations.Add(ctx, 1)
}

// RecordCycle snapshots gauge values from the current scheduler state.
// Nil-safe.
func (m *Metrics) RecordCycle(ctx context.Context, reservedRAMGB, reservedCores float64, gpuReservedGB, gpuFreeGB []float64, running, remaining int) {
	if m == nil {
		return
	}
	m.reservedRAMGB.Record(ctx, reservedRAMGB)
	m.reservedCores.Record(ctx, reservedCores)
	for i, v := range gpuReservedGB {
		m.gpuReservedGB.Record(ctx, v, metric.WithAttributes(gpuIndexAttr(i)))
	}
	for i, v := range gpuFreeGB {
		m.gpuFreeGB.Record(ctx, v, metric.WithAttributes(gpuIndexAttr(i)))
	}
	m.runningCount.Record(ctx, int64(running))
	m.remainingCount.Record(ctx, int64(remaining))
}
