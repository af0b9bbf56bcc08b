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

package scheduler

import (
	"os"

	"github.com/expsched/expsched/lib/log"
)

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// NeedsOutput retains commands with at least one declared Output missing
// from the data directory. A command with zero Outputs is malformed: it is
// logged and dropped rather than ever considered ready.
func NeedsOutput(dataDir string, commands []*Command) []*Command {
	var out []*Command
	for _, c := range commands {
		outputs := c.AllOutputs()
		if len(outputs) == 0 {
			log.Warnf("Scheduler: command %q declares no outputs, dropping", c.Name())
			continue
		}
		missing := false
		for _, ref := range outputs {
			if !exists(ref.DataPath(dataDir)) {
				missing = true
				break
			}
		}
		if missing {
			out = append(out, c)
		}
	}
	return out
}

// InputsReady retains commands whose every declared Input already exists
// in the data directory.
func InputsReady(dataDir string, commands []*Command) []*Command {
	var out []*Command
	for _, c := range commands {
		ready := true
		for _, ref := range c.AllInputs() {
			if !exists(ref.DataPath(dataDir)) {
				ready = false
				break
			}
		}
		if ready {
			out = append(out, c)
		}
	}
	return out
}

// RemoteMode describes which remote adapter, if any, is engaged this run.
// Slurm is modeled as a global remote template every command matches — it
// takes over RAM/GPU/core admission entirely. Skypilot's cloud-sandbox
// adapter bypasses only commands whose remote_template names it; every
// other command is still scheduled locally.
type RemoteMode struct {
	SlurmActive    bool
	CloudTemplate  string // e.g. "skypilot"; "" if no cloud adapter engaged
}

// bypassesLocalResourceFilters reports whether a command is delegated to a
// remote adapter, in which case fits_ram, fits_gpu and fits_cores are
// skipped: the remote side owns admission control.
func bypassesLocalResourceFilters(c *Command, mode RemoteMode) bool {
	if mode.SlurmActive {
		return true
	}
	return mode.CloudTemplate != "" && c.RemoteTemplate == mode.CloudTemplate
}

// FitsRAM retains commands that fit within the host RAM cap given current
// reservations and current actual usage (whichever is larger — a command
// that has already overshot its declared ram_gb must not let further
// launches pretend the overshoot didn't happen).
func FitsRAM(s *SchedulerState, currentRAMInUseGB float64, mode RemoteMode, commands []*Command) []*Command {
	baseline := s.ReservedRAMGB
	if currentRAMInUseGB > baseline {
		baseline = currentRAMInUseGB
	}
	var out []*Command
	for _, c := range commands {
		if bypassesLocalResourceFilters(c, mode) {
			out = append(out, c)
			continue
		}
		if baseline+c.RAMGB <= s.RAMCapGB {
			out = append(out, c)
		}
	}
	return out
}

// FitsGPU retains commands whose GPU requirement the current probe can
// satisfy: explicit gpus needs every GPU fully free; gpu_ram_gb=0 with no
// gpus never needs one; otherwise the minimum free VRAM across all GPUs
// must cover gpu_ram_gb.
func FitsGPU(s *SchedulerState, mode RemoteMode, commands []*Command) []*Command {
	var out []*Command
	for _, c := range commands {
		if bypassesLocalResourceFilters(c, mode) {
			out = append(out, c)
			continue
		}
		if c.UsesWholeGPUs() {
			if allGPUsFree(s) {
				out = append(out, c)
			}
			continue
		}
		if c.GPURAMGB == 0 {
			out = append(out, c)
			continue
		}
		if minFreeVRAM(s) >= c.GPURAMGB {
			out = append(out, c)
		}
	}
	return out
}

func allGPUsFree(s *SchedulerState) bool {
	for _, reserved := range s.GPUReservedGB {
		if reserved > 0 {
			return false
		}
	}
	return true
}

func minFreeVRAM(s *SchedulerState) float64 {
	if len(s.GPUFreeGB) == 0 {
		return 0
	}
	min := s.GPUFreeAt(0)
	for i := 1; i < len(s.GPUFreeGB); i++ {
		if free := s.GPUFreeAt(i); free < min {
			min = free
		}
	}
	return min
}

// FitsCores retains commands whose core reservation fits under
// max_core_alloc given already-reserved cores.
func FitsCores(s *SchedulerState, mode RemoteMode, commands []*Command) []*Command {
	var out []*Command
	for _, c := range commands {
		if bypassesLocalResourceFilters(c, mode) {
			out = append(out, c)
			continue
		}
		cores := c.Cores
		if cores < 1 {
			cores = 1
		}
		if s.ReservedCores+cores <= s.MaxCoreAlloc {
			out = append(out, c)
		}
	}
	return out
}

// NotRunning retains commands with no structurally-equal running process
// (invariant 5).
func NotRunning(s *SchedulerState, commands []*Command) []*Command {
	var out []*Command
	for _, c := range commands {
		if !s.IsRunning(c) {
			out = append(out, c)
		}
	}
	return out
}
