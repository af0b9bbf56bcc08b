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
	"sort"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/expsched/expsched/lib/log"
)

const bytesPerGB = 1024 * 1024 * 1024

// actualRAMGB returns a process's proportional set size in GiB, falling
// back to resident set size when PSS isn't available on this platform. RSS
// counts shared pages in full, so the fallback can read higher than PSS.
func actualRAMGB(p *process.Process) (float64, bool) {
	if maps, err := p.MemoryMaps(true); err == nil && maps != nil && len(*maps) > 0 {
		var pssBytes uint64
		for _, m := range *maps {
			pssBytes += m.Pss
		}
		if pssBytes > 0 {
			return float64(pssBytes) / bytesPerGB, true
		}
	}
	if info, err := p.MemoryInfo(); err == nil && info != nil {
		return float64(info.RSS) / bytesPerGB, true
	}
	return 0, false
}

// RunOOMGuard inspects real memory use of every running child, raising its
// reservation to match actual use when that exceeds the declared ram_gb,
// then terminates processes (least accumulated CPU time first, i.e.
// cheapest/newest) until the host is back under ram_gb_cap. Skipped
// entirely when a remote cluster adapter owns resource enforcement.
func (s *SchedulerState) RunOOMGuard(currentRAMInUseGB float64) {
	type candidate struct {
		rp      *RunningProcess
		cpuSecs float64
	}
	candidates := make([]candidate, 0, len(s.Running))

	for _, rp := range s.Running {
		if rp.Finished() {
			continue
		}
		proc, err := process.NewProcess(int32(rp.Cmd.Process.Pid))
		if err != nil {
			continue // vanished mid-query
		}

		if actual, ok := actualRAMGB(proc); ok && actual > rp.MaxRAMGB {
			delta := actual - rp.MaxRAMGB
			s.ReservedRAMGB += delta
			rp.MaxRAMGB = actual
		}

		cpuSecs := rp.cpuTimeSeconds
		if times, err := proc.Times(); err == nil && times != nil {
			cpuSecs = times.User + times.System
			rp.cpuTimeSeconds = cpuSecs
		}
		candidates = append(candidates, candidate{rp: rp, cpuSecs: cpuSecs})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].cpuSecs < candidates[j].cpuSecs
	})

	gbFree := s.RAMCapGB - currentRAMInUseGB
	for _, cand := range candidates {
		if gbFree >= 0 {
			break
		}
		log.Warnf("Scheduler: host over RAM cap (%.2f GiB free), terminating %q", gbFree, cand.rp.Name)
		proc, err := process.NewProcess(int32(cand.rp.Cmd.Process.Pid))
		if err == nil {
			_ = proc.Terminate()
		}
		s.Metrics.RecordOOMTermination(context.Background())
		gbFree += cand.rp.MaxRAMGB
	}
}
