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
	"os/exec"
	"reflect"
	"time"

	"github.com/expsched/expsched/lib/monitoring"
	"github.com/expsched/expsched/lib/scheduler/remote"
)

// RunningProcess is the mutable record of one in-flight child: the command
// that spawned it, its exec.Cmd handle, the GPU indices it holds, and a
// max_ram_gb the OOM guard may raise above the command's declared ram_gb to
// keep reservations consistent with observed use.
//
// Cmd.Wait is run on a background goroutine (reaping would otherwise block
// the single loop thread); Done closes and ExitErr is set once it returns,
// so the loop can poll non-blockingly by checking whether Done is closed.
type RunningProcess struct {
	Command    *Command
	Cmd        *exec.Cmd
	GPUIndices []int
	MaxRAMGB   float64

	StartedAt time.Time
	Name      string // sanitized command name, used for the pipes directory

	StdoutPath string
	StderrPath string

	Done    chan struct{}
	ExitErr error

	cpuTimeSeconds float64 // last-observed accumulated CPU time, for OOM guard ordering
}

// Finished reports whether the child has exited, without blocking.
func (rp *RunningProcess) Finished() bool {
	select {
	case <-rp.Done:
		return true
	default:
		return false
	}
}

// Succeeded reports whether the child exited with status 0. Only valid
// once Finished returns true.
func (rp *RunningProcess) Succeeded() bool {
	return rp.ExitErr == nil
}

// SchedulerState owns everything the loop mutates: the live command set,
// running processes, reservation totals, the GPU round-robin cursor, the
// warmup deadline, and the directories the scheduler resolves FileRefs
// against. Only the loop goroutine may mutate it.
type SchedulerState struct {
	DataDir    string
	StagingDir string

	Commands []*Command
	Running  []*RunningProcess

	GPUDevices      []string // CUDA device indices as nvidia-smi reports them
	ReservedRAMGB   float64
	ReservedCores   float64
	GPUFreeGB       []float64 // per-GPU free VRAM as last probed
	GPUReservedGB   []float64 // per-GPU reserved VRAM
	NextGPUCursor   int
	WarmupDeadline  time.Time
	LastReportedLen int // remaining-count at last log line, for dedup

	// VerboseThisCycle gates filter-rejection logging: true only on
	// cycles where the remaining count changed from the previous one, so
	// a catalog stuck waiting on external inputs doesn't spam the log
	// every 200ms.
	VerboseThisCycle bool

	// VMPercentCap is the percentage of total host RAM the scheduler may
	// commit to reservations. RAMCapGB is recomputed from it every cycle
	// against current total host RAM, not cached at startup.
	VMPercentCap  float64
	RAMCapGB      float64
	MaxConcurrent int
	MaxCoreAlloc  float64

	// Remote describes which remote adapter, if any, owns admission for
	// matching commands (§0, §4.D). Cluster/Cloud carry the adapters
	// themselves; nil unless the corresponding mode is active.
	Remote  RemoteMode
	Cluster *remote.ClusterAdapter
	Cloud   *remote.CloudAdapter

	// Metrics records admission and launch activity for scraping; nil is
	// a valid value (monitoring disabled) since every method on it
	// tolerates a nil receiver.
	Metrics *monitoring.Metrics
}

// NewSchedulerState constructs state rooted at the given directories, with
// reserved RAM seeded to whatever the host already has in use (so the first
// admission decision accounts for other load on the box) and GPU counts to
// be filled in once the probe (§4.C) runs.
func NewSchedulerState(dataDir, stagingDir string, vmPercentCap float64, maxConcurrent int, maxCoreAlloc float64) *SchedulerState {
	s := &SchedulerState{
		DataDir:       dataDir,
		StagingDir:    stagingDir,
		VMPercentCap:  vmPercentCap,
		MaxConcurrent: maxConcurrent,
		MaxCoreAlloc:  maxCoreAlloc,
	}
	if capGB, err := HostRAMCapGB(vmPercentCap); err == nil {
		s.RAMCapGB = capGB
	}
	if used, err := CurrentRAMInUseGB(); err == nil {
		s.ReservedRAMGB = used
	}
	return s
}

// RefreshRAMCap recomputes RAMCapGB from current total host RAM, matching
// doexp's behavior of never caching the cap across cycles (host RAM can
// change if the scheduler is one tenant among several).
func (s *SchedulerState) RefreshRAMCap() {
	if capGB, err := HostRAMCapGB(s.VMPercentCap); err == nil {
		s.RAMCapGB = capGB
	}
}

// SetGPUs initializes the device list and per-GPU free/reserved tables
// from a probe result.
func (s *SchedulerState) SetGPUs(devices []string, freeGB []float64) {
	s.GPUDevices = append([]string(nil), devices...)
	s.GPUFreeGB = append([]float64(nil), freeGB...)
	s.GPUReservedGB = make([]float64, len(freeGB))
	s.NextGPUCursor = 0
	s.AdvanceGPUCursor() // advance once synchronously before the first launch
}

// IsRunning reports whether a structurally-equal Command is already in the
// running set (invariant 5: no two running processes share the same
// Command value).
func (s *SchedulerState) IsRunning(c *Command) bool {
	for _, rp := range s.Running {
		if CommandsEqual(rp.Command, c) {
			return true
		}
	}
	return false
}

// CommandsEqual reports structural equality of two Command values, the
// notion of "identity" the not_running filter and invariant 5 are defined
// over.
func CommandsEqual(a, b *Command) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return reflect.DeepEqual(*a, *b)
}

// RunningCount reports how many processes are currently in flight, for the
// max_concurrent_jobs admission check.
func (s *SchedulerState) RunningCount() int {
	return len(s.Running)
}
