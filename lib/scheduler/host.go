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

import "github.com/shirou/gopsutil/v4/mem"

// DefaultVMPercentCap is the fraction of total host RAM the scheduler is
// willing to commit to reservations, absent an operator override.
const DefaultVMPercentCap = 90.0

// HostRAMCapGB returns ram_gb_cap = vmPercentCap × total host RAM / 100.
func HostRAMCapGB(vmPercentCap float64) (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	totalGB := float64(vm.Total) / bytesPerGB
	return vmPercentCap / 100 * totalGB, nil
}

// CurrentRAMInUseGB returns the host's currently-used RAM in GiB, the
// baseline fits_ram compares reservations against. Computed as
// total-available rather than gopsutil's Used field, matching doexp's own
// psutil.virtual_memory() formula — on Linux, Used excludes reclaimable
// buffers/cache that Available already accounts for, so total-available is
// the closer match to what doexp actually admits against.
func CurrentRAMInUseGB() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return float64(vm.Total-vm.Available) / bytesPerGB, nil
}
