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
	"context"
	"fmt"
	"time"

	"github.com/expsched/expsched/lib/log"
	"github.com/expsched/expsched/lib/util"
)

// idleSleep is the floor on cycle cadence when nothing completed: the loop
// never busy-spins waiting on slow filesystem-backed dependency checks.
const idleSleep = 200 * time.Millisecond

// CatalogLoader is the interface the loop requires from the external
// catalog collaborator (§4.B): re-evaluate an opaque source and return the
// current set of commands. Implementations must be safe to call repeatedly;
// on failure the loop keeps the previously-loaded catalog.
type CatalogLoader interface {
	Load() ([]*Command, error)
}

// Options configures one invocation of Run.
type Options struct {
	DryRun bool
	Remote RemoteMode
}

// Run drives the scheduler to completion: repeatedly reloads the catalog,
// filters and sorts the ready set, launches at most one command per cycle,
// runs the OOM guard, reaps and publishes completions, and sleeps between
// cycles with no completions. Returns once every command is done and no
// process remains running, or the loader reports a fatal error on the very
// first load.
func Run(s *SchedulerState, loader CatalogLoader, opts Options) error {
	commands, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load initial catalog: %w", err)
	}
	s.Commands = commands
	s.Remote = opts.Remote

	if opts.DryRun {
		return runDryRun(s)
	}

	for {
		if fresh, err := loader.Load(); err != nil {
			log.Warnf("Scheduler: catalog reload failed, keeping previous catalog: %v", err)
		} else {
			s.Commands = fresh
		}
		s.RefreshRAMCap()

		needOutput := NeedsOutput(s.DataDir, s.Commands)
		done := len(needOutput) == 0
		logRemaining(s, len(needOutput))

		ready := InputsReady(s.DataDir, needOutput)
		ready = FitsRAM(s, mustRAMInUse(), opts.Remote, ready)
		ready = FitsGPU(s, opts.Remote, ready)
		ready = FitsCores(s, opts.Remote, ready)
		ready = NotRunning(s, ready)
		SortReady(ready)

		if s.VerboseThisCycle && len(needOutput) > 0 && len(ready) == 0 && s.RunningCount() == 0 {
			log.Warnf("Scheduler: %d command(s) need output but none are ready and nothing is running; waiting for inputs", len(needOutput))
		}

		if s.RunningCount() < s.MaxConcurrent && !time.Now().Before(s.WarmupDeadline) && len(ready) > 0 {
			if _, err := s.Launch(ready[0]); err != nil {
				log.Errorf("Scheduler: launch failed: %v", err)
			} else {
				s.Metrics.RecordLaunch(context.Background())
			}
		}

		if !opts.Remote.SlurmActive {
			s.RunOOMGuard(mustRAMInUse())
		}

		completed := s.ReapCompleted()
		if len(completed) == 0 {
			time.Sleep(idleSleep)
		}
		for _, rp := range completed {
			s.Publish(rp)
		}

		s.Metrics.RecordCycle(context.Background(), s.ReservedRAMGB, s.ReservedCores, s.GPUReservedGB, s.GPUFreeGB, s.RunningCount(), len(needOutput))

		if done && s.RunningCount() == 0 {
			return nil
		}
	}
}

// mustRAMInUse probes current host RAM use, treating a probe failure as
// "zero in use" rather than aborting the loop — the scheduler degrades to
// trusting its own reservations rather than crashing on a transient
// /proc read error.
func mustRAMInUse() float64 {
	used, err := CurrentRAMInUseGB()
	if err != nil {
		log.Warnf("Scheduler: failed to probe host RAM use: %v", err)
		return 0
	}
	return used
}

// logRemaining emits a log line only when the remaining count changed
// since the last cycle, keeping steady-state cycles quiet. It also arms
// VerboseThisCycle, which gates the noisier filter-rejection diagnostics
// below so a catalog stuck waiting on external inputs doesn't spam the log
// every 200ms.
func logRemaining(s *SchedulerState, remaining int) {
	s.VerboseThisCycle = remaining != s.LastReportedLen
	if !s.VerboseThisCycle {
		return
	}
	log.Infof("Scheduler: %d command(s) remaining", remaining)
	s.LastReportedLen = remaining
}

// runDryRun prints every command's shell form, sorted by priority, and
// returns without launching anything.
func runDryRun(s *SchedulerState) error {
	sorted := append([]*Command(nil), s.Commands...)
	SortReady(sorted)
	for _, c := range sorted {
		argv := c.ResolveArgv(s.DataDir, s.StagingDir)
		fmt.Println(util.ShellForm(argv))
	}
	return nil
}
