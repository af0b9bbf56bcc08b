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

import "testing"

func Test_reserve_for_launch_floors_fractional_cores_to_one(t *testing.T) {
	s := &SchedulerState{}
	c := mustCommand(t, WithCores(0.3), WithRAM(2))

	s.ReserveForLaunch(c)
	if s.ReservedCores != 1 {
		t.Fatalf("ReservedCores = %v; want 1 (0.3 floored to 1)", s.ReservedCores)
	}
	if s.ReservedRAMGB != 2 {
		t.Fatalf("ReservedRAMGB = %v; want 2", s.ReservedRAMGB)
	}
}

func Test_reserve_for_launch_zero_cores_also_floors_to_one(t *testing.T) {
	s := &SchedulerState{}
	c := mustCommand(t)

	s.ReserveForLaunch(c)
	if s.ReservedCores != 1 {
		t.Fatalf("ReservedCores = %v; want 1 (0 floored to 1)", s.ReservedCores)
	}
}

func Test_reserve_for_launch_whole_gpu_command_reserves_every_gpu(t *testing.T) {
	s := &SchedulerState{GPUFreeGB: []float64{8, 6}, GPUReservedGB: []float64{0, 0}}
	c := mustCommand(t, WithGPUs("0,1"))

	indices := s.ReserveForLaunch(c)
	if len(indices) != 2 {
		t.Fatalf("ReserveForLaunch() indices = %v; want all GPU indices", indices)
	}
	if s.GPUReservedGB[0] != 8 || s.GPUReservedGB[1] != 6 {
		t.Fatalf("GPUReservedGB = %v; want each GPU fully reserved to its free VRAM", s.GPUReservedGB)
	}
}

func Test_reserve_for_launch_fractional_gpu_reserves_only_cursor_gpu(t *testing.T) {
	s := &SchedulerState{GPUFreeGB: []float64{8, 8}, GPUReservedGB: []float64{0, 0}, NextGPUCursor: 1}
	c := mustCommand(t, WithGPURAM(3))

	indices := s.ReserveForLaunch(c)
	if len(indices) != 1 || indices[0] != 1 {
		t.Fatalf("ReserveForLaunch() indices = %v; want [1] (the cursor GPU)", indices)
	}
	if s.GPUReservedGB[1] != 3 || s.GPUReservedGB[0] != 0 {
		t.Fatalf("GPUReservedGB = %v; want only index 1 reserved", s.GPUReservedGB)
	}
}

func Test_release_after_completion_reverses_ram_and_cores(t *testing.T) {
	s := &SchedulerState{ReservedRAMGB: 5, ReservedCores: 2}
	cmd := mustCommand(t, WithCores(1))
	rp := &RunningProcess{Command: cmd, MaxRAMGB: 5}

	s.ReleaseAfterCompletion(rp)
	if s.ReservedRAMGB != 0 {
		t.Fatalf("ReservedRAMGB = %v; want 0", s.ReservedRAMGB)
	}
	if s.ReservedCores != 1 {
		t.Fatalf("ReservedCores = %v; want 1 (2 - floor(1))", s.ReservedCores)
	}
}

func Test_release_after_completion_never_goes_negative(t *testing.T) {
	s := &SchedulerState{ReservedRAMGB: 1, ReservedCores: 1}
	cmd := mustCommand(t, WithCores(5))
	rp := &RunningProcess{Command: cmd, MaxRAMGB: 10}

	s.ReleaseAfterCompletion(rp)
	if s.ReservedRAMGB != 0 {
		t.Fatalf("ReservedRAMGB = %v; want floored to 0, not negative", s.ReservedRAMGB)
	}
	if s.ReservedCores != 0 {
		t.Fatalf("ReservedCores = %v; want floored to 0, not negative", s.ReservedCores)
	}
}

func Test_release_after_completion_whole_gpu_clears_all_reservations(t *testing.T) {
	s := &SchedulerState{GPUReservedGB: []float64{8, 6}}
	cmd := mustCommand(t, WithGPUs("0,1"))
	rp := &RunningProcess{Command: cmd}

	s.ReleaseAfterCompletion(rp)
	for i, v := range s.GPUReservedGB {
		if v != 0 {
			t.Fatalf("GPUReservedGB[%d] = %v; want 0 after whole-GPU release", i, v)
		}
	}
}

func Test_release_after_completion_fractional_gpu_releases_only_its_indices(t *testing.T) {
	s := &SchedulerState{GPUReservedGB: []float64{3, 5}}
	cmd := mustCommand(t, WithGPURAM(3))
	rp := &RunningProcess{Command: cmd, GPUIndices: []int{0}}

	s.ReleaseAfterCompletion(rp)
	if s.GPUReservedGB[0] != 0 {
		t.Fatalf("GPUReservedGB[0] = %v; want 0", s.GPUReservedGB[0])
	}
	if s.GPUReservedGB[1] != 5 {
		t.Fatalf("GPUReservedGB[1] = %v; want untouched at 5", s.GPUReservedGB[1])
	}
}

func Test_advance_gpu_cursor_settles_on_most_free_gpu(t *testing.T) {
	s := &SchedulerState{
		GPUFreeGB:     []float64{8, 8, 8},
		GPUReservedGB: []float64{0, 6, 0}, // index 1 is the least free
		NextGPUCursor: 0,
	}
	s.AdvanceGPUCursor()
	if s.NextGPUCursor == 1 {
		t.Fatalf("NextGPUCursor = 1; cursor should skip the most-loaded GPU")
	}
}

func Test_advance_gpu_cursor_noop_with_no_gpus(t *testing.T) {
	s := &SchedulerState{NextGPUCursor: 0}
	s.AdvanceGPUCursor()
	if s.NextGPUCursor != 0 {
		t.Fatalf("NextGPUCursor = %v; want unchanged with no GPUs", s.NextGPUCursor)
	}
}
