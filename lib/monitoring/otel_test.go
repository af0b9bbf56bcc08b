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
)

func Test_initialize_disabled_returns_usable_noop_monitor(t *testing.T) {
	cfg := &Config{}
	cfg.InitDefaults() // Enabled defaults to false

	m, err := Initialize(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if m.IsEnabled() {
		t.Fatalf("IsEnabled() = true; want false for a disabled config")
	}
	if m.GetMetrics() != nil {
		t.Fatalf("GetMetrics() = non-nil; want nil when monitoring is disabled")
	}
	// RecordLaunch etc. must still be safe to call against the nil Metrics.
	m.GetMetrics().RecordLaunch(context.Background())

	if err := m.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func Test_initialize_enabled_registers_a_meter_and_metrics(t *testing.T) {
	cfg := &Config{Enabled: true, ServiceName: "expsched-test", ServiceVersion: "0.0.0-test"}

	m, err := Initialize(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	defer m.Shutdown(context.Background())

	if !m.IsEnabled() {
		t.Fatalf("IsEnabled() = false; want true for an enabled config")
	}
	if m.GetMeter() == nil {
		t.Fatalf("GetMeter() = nil; want a meter once monitoring is enabled")
	}
	if m.GetMetrics() == nil {
		t.Fatalf("GetMetrics() = nil; want registered metrics once monitoring is enabled")
	}
}

func Test_config_init_defaults_sets_service_identity(t *testing.T) {
	cfg := &Config{}
	cfg.InitDefaults()
	if cfg.Enabled {
		t.Fatalf("InitDefaults() Enabled = true; want false")
	}
	if cfg.ServiceName == "" {
		t.Fatalf("InitDefaults() ServiceName is empty")
	}
}
