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
	"bytes"
	"encoding/csv"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/expsched/expsched/lib/log"
)

var gpuIndexPattern = regexp.MustCompile(`GPU ([0-9]*):`)

// ProbeGPUs enumerates visible CUDA device indices: CUDA_VISIBLE_DEVICES
// wins if set ("-1" means none, otherwise a comma-separated index list);
// absent that, nvidia-smi --list-gpus is consulted. Either path returning
// nothing, or nvidia-smi not being installed, means "no GPUs" rather than
// an error — GPU-less hosts are a normal deployment target.
func ProbeGPUs() []string {
	if visible, ok := os.LookupEnv("CUDA_VISIBLE_DEVICES"); ok {
		if visible == "-1" {
			return nil
		}
		var indices []string
		for _, d := range strings.Split(visible, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(d))
			if err != nil {
				return nil
			}
			indices = append(indices, strconv.Itoa(n))
		}
		return indices
	}

	out, err := exec.Command("nvidia-smi", "--list-gpus").Output()
	if err != nil {
		// Missing binary, missing driver, or no device: all "no GPUs".
		return nil
	}

	matches := gpuIndexPattern.FindAllStringSubmatch(string(out), -1)
	indices := make([]string, 0, len(matches))
	for _, m := range matches {
		indices = append(indices, m[1])
	}
	return indices
}

// ProbeFreeVRAM queries free VRAM in GiB for each device index via
// nvidia-smi --query-gpu. A device missing from the CSV output (or
// reporting an unparsable value) is left at zero and logged as a probe
// failure — not fatal, since the filter pipeline treats zero free VRAM as
// "nothing fits" rather than crashing the scheduler.
func ProbeFreeVRAM(devices []string) []float64 {
	freeGB := make([]float64, len(devices))
	if len(devices) == 0 {
		return freeGB
	}

	out, err := exec.Command("nvidia-smi", "--query-gpu=gpu_name,index,memory.free", "--format=csv").Output()
	if err != nil {
		log.Warnf("Scheduler: nvidia-smi query failed, reporting zero free VRAM: %v", err)
		return freeGB
	}

	reader := csv.NewReader(bytes.NewReader(out))
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil || len(records) < 2 {
		return freeGB
	}
	header := records[0]
	nameIdx, indexIdx, freeIdx := -1, -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "name":
			nameIdx = i
		case "index":
			indexIdx = i
		case "memory.free [MiB]":
			freeIdx = i
		}
	}
	if indexIdx == -1 || freeIdx == -1 {
		return freeGB
	}

	for _, row := range records[1:] {
		if indexIdx >= len(row) || freeIdx >= len(row) {
			continue
		}
		idx := strings.TrimSpace(row[indexIdx])
		devicePos := -1
		for i, d := range devices {
			if d == idx {
				devicePos = i
				break
			}
		}
		if devicePos == -1 {
			continue
		}
		fields := strings.Fields(row[freeIdx])
		if len(fields) == 0 {
			continue
		}
		mib, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		freeGB[devicePos] = float64(mib) / 1024
		if nameIdx != -1 && nameIdx < len(row) {
			log.Debugf("Scheduler: GPU %s (%s): %d MiB free", idx, strings.TrimSpace(row[nameIdx]), mib)
		}
	}

	for i, v := range freeGB {
		if v == 0 {
			log.Warnf("Scheduler: could not get free memory for GPU %s", devices[i])
		}
	}
	return freeGB
}
