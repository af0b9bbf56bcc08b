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
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func testMeterProvider(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	return provider, reader
}

func Test_new_metrics_registers_every_instrument(t *testing.T) {
	provider, _ := testMeterProvider(t)
	m, err := NewMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	if m == nil {
		t.Fatalf("NewMetrics() = nil")
	}
}

func Test_metrics_record_calls_do_not_panic(t *testing.T) {
	provider, reader := testMeterProvider(t)
	m, err := NewMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	ctx := context.Background()
	m.RecordLaunch(ctx)
	m.RecordCompletion(ctx, true)
	m.RecordCompletion(ctx, false)
	m.RecordOOMTermination(ctx)
	m.RecordCycle(ctx, 4.0, 2.0, []float64{1, 2}, []float64{6, 7}, 3, 5)

	var out metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &out); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if len(out.ScopeMetrics) == 0 {
		t.Fatalf("Collect() produced no scope metrics; want recorded instruments to be exported")
	}
}

func Test_nil_metrics_methods_are_safe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordLaunch(ctx)
	m.RecordCompletion(ctx, true)
	m.RecordOOMTermination(ctx)
	m.RecordCycle(ctx, 0, 0, nil, nil, 0, 0)
}
