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

// Package config loads scheduler-wide settings that aren't worth a flag on
// every invocation: resource caps, directory defaults, the catalog loader
// to use.
package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/ghodss/yaml"
)

// Config holds scheduler-wide settings overridable by CLI flags.
type Config struct {
	DataDir    string `json:"data_dir"`    // where published outputs live
	TmpDir     string `json:"tmp_dir"`     // staging root; defaults to data_dir+"_tmp"
	LockFile   string `json:"lock_file"`   // pidfile guarding against a second instance

	VMPercentCap  float64 `json:"vm_percent_cap"`  // fraction of total host RAM the scheduler may reserve
	MaxConcurrent int     `json:"max_concurrent_jobs"`
	MaxCoreAlloc  float64 `json:"max_core_alloc"`

	// CatalogKind is "yaml" (default) or "exec". cmd/expsched does not read
	// it: the loader there is ExecLoader when --catalog-interpreter is set
	// and YAMLLoader otherwise.
	CatalogKind string `json:"catalog_kind"`
}

// ReadConfigFile loads settings from cfgPath (YAML, optional) over top of
// defaults. An empty cfgPath is not an error: initDefaults alone is used.
func (c *Config) ReadConfigFile(cfgPath string) error {
	c.initDefaults()

	if cfgPath == "" {
		return nil
	}

	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}

	if c.VMPercentCap <= 0 || c.VMPercentCap > 100 {
		return fmt.Errorf("config: vm_percent_cap must be in (0, 100], got %v", c.VMPercentCap)
	}
	if c.MaxCoreAlloc <= 0 {
		return fmt.Errorf("config: max_core_alloc must be positive, got %v", c.MaxCoreAlloc)
	}

	return nil
}

func (c *Config) initDefaults() {
	c.DataDir = "data"
	c.TmpDir = ""
	c.LockFile = ""
	c.VMPercentCap = 90.0
	c.MaxConcurrent = 1 << 30 // effectively unbounded unless overridden
	c.MaxCoreAlloc = float64(runtime.NumCPU())
	c.CatalogKind = "yaml"
}

// EffectiveTmpDir returns TmpDir if set, else data_dir+"_tmp" (doexp's
// convention for where staging lives relative to the published data).
func (c *Config) EffectiveTmpDir() string {
	if c.TmpDir != "" {
		return c.TmpDir
	}
	return c.DataDir + "_tmp"
}
