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

func Test_probe_gpus_cuda_visible_devices_minus_one_means_none(t *testing.T) {
	t.Setenv("CUDA_VISIBLE_DEVICES", "-1")
	got := ProbeGPUs()
	if got != nil {
		t.Fatalf("ProbeGPUs() = %v; want nil for CUDA_VISIBLE_DEVICES=-1", got)
	}
}

func Test_probe_gpus_cuda_visible_devices_parses_index_list(t *testing.T) {
	t.Setenv("CUDA_VISIBLE_DEVICES", "0, 2")
	got := ProbeGPUs()
	want := []string{"0", "2"}
	if len(got) != len(want) {
		t.Fatalf("ProbeGPUs() = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ProbeGPUs()[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}

func Test_probe_gpus_cuda_visible_devices_malformed_yields_nil(t *testing.T) {
	t.Setenv("CUDA_VISIBLE_DEVICES", "not-a-number")
	got := ProbeGPUs()
	if got != nil {
		t.Fatalf("ProbeGPUs() = %v; want nil for an unparsable CUDA_VISIBLE_DEVICES", got)
	}
}

func Test_probe_free_vram_with_no_devices_returns_empty_slice(t *testing.T) {
	got := ProbeFreeVRAM(nil)
	if len(got) != 0 {
		t.Fatalf("ProbeFreeVRAM(nil) = %v; want empty", got)
	}
}
