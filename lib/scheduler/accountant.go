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

// AdvanceGPUCursor steps the round-robin cursor one position and keeps
// stepping (mod GPU count) until it lands on the GPU with the most free
// VRAM among all visible GPUs. Called once synchronously at startup
// (before any launch) and again after every launch that consumed a single
// GPU via the cursor — never before a launch reads the cursor, only after.
// This is round-robin when every GPU is equally loaded and greedy
// (preferring the least-loaded GPU) otherwise.
func (s *SchedulerState) AdvanceGPUCursor() {
	n := len(s.GPUFreeGB)
	if n == 0 {
		return
	}

	s.NextGPUCursor = (s.NextGPUCursor + 1) % n
	for i := 0; i < n; i++ {
		if s.GPUFreeAt(s.NextGPUCursor) >= s.maxGPUFree() {
			break
		}
		s.NextGPUCursor = (s.NextGPUCursor + 1) % n
	}
}

// GPUFreeAt returns the current free VRAM on GPU i, net of reservations.
func (s *SchedulerState) GPUFreeAt(i int) float64 {
	return s.GPUFreeGB[i] - s.GPUReservedGB[i]
}

func (s *SchedulerState) maxGPUFree() float64 {
	max := s.GPUFreeAt(0)
	for i := 1; i < len(s.GPUFreeGB); i++ {
		if free := s.GPUFreeAt(i); free > max {
			max = free
		}
	}
	return max
}

// ReserveForLaunch accounts for a command about to be spawned: RAM and
// cores always; GPU VRAM per the explicit-gpus-vs-cursor rule in §4.F.4.
// Returns the GPU indices the command was assigned, for RunningProcess.
func (s *SchedulerState) ReserveForLaunch(c *Command) []int {
	s.ReservedRAMGB += c.RAMGB
	cores := c.Cores
	if cores < 1 {
		cores = 1
	}
	s.ReservedCores += cores

	if c.UsesWholeGPUs() {
		indices := make([]int, len(s.GPUReservedGB))
		for i := range s.GPUReservedGB {
			s.GPUReservedGB[i] = s.GPUFreeGB[i]
			indices[i] = i
		}
		return indices
	}
	if c.GPURAMGB > 0 && len(s.GPUFreeGB) > 0 {
		idx := s.NextGPUCursor
		s.GPUReservedGB[idx] += c.GPURAMGB
		s.AdvanceGPUCursor()
		return []int{idx}
	}
	return nil
}

// ReleaseAfterCompletion reverses ReserveForLaunch's accounting once a
// process terminates, using its (possibly OOM-guard-raised) max_ram_gb.
func (s *SchedulerState) ReleaseAfterCompletion(rp *RunningProcess) {
	s.ReservedRAMGB -= rp.MaxRAMGB
	if s.ReservedRAMGB < 0 {
		s.ReservedRAMGB = 0
	}
	cores := rp.Command.Cores
	if cores < 1 {
		cores = 1
	}
	s.ReservedCores -= cores
	if s.ReservedCores < 0 {
		s.ReservedCores = 0
	}

	if rp.Command.UsesWholeGPUs() {
		for i := range s.GPUReservedGB {
			s.GPUReservedGB[i] = 0
		}
		return
	}
	for _, idx := range rp.GPUIndices {
		s.GPUReservedGB[idx] -= rp.Command.GPURAMGB
		if s.GPUReservedGB[idx] < 0 {
			s.GPUReservedGB[idx] = 0
		}
	}
}
