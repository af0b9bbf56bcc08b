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

// Package remote implements the two remote-execution adapters named in
// the core's external-interfaces contract: cluster batch submission
// (Slurm's srun) and cloud-sandbox submission (a user-supplied YAML
// template plus a sub-command launcher). Neither adapter performs local
// resource accounting — that's delegated to the remote side, which is
// exactly why the filter pipeline bypasses fits_ram/fits_gpu/fits_cores
// for commands they own.
package remote

import (
	"fmt"
	"math"
	"os/exec"
)

// ClusterAdapter wraps a command's argv in an srun invocation carrying its
// CPU and memory reservation, so the cluster scheduler — not this
// process — enforces them.
type ClusterAdapter struct {
	SrunPath string // defaults to "srun" if empty
}

// Available reports whether srun can be found on PATH; the CLI surface
// refuses --use-slurm when this is false.
func (a *ClusterAdapter) Available() bool {
	path := a.srunPath()
	_, err := exec.LookPath(path)
	return err == nil
}

func (a *ClusterAdapter) srunPath() string {
	if a.SrunPath != "" {
		return a.SrunPath
	}
	return "srun"
}

// Wrap prepends srun and its derived flags to argv: --cpus-per-task from
// cores, --mem-per-cpu from ram_gb/cores (srun's memory flag is expressed
// per CPU, not per job), then a literal "--" separator before argv.
func (a *ClusterAdapter) Wrap(argv []string, cores float64, ramGB float64) []string {
	cpus := int(math.Ceil(cores))
	if cpus < 1 {
		cpus = 1
	}
	memPerCPUMB := int(math.Ceil(ramGB * 1024 / float64(cpus)))

	wrapped := make([]string, 0, len(argv)+5)
	wrapped = append(wrapped,
		a.srunPath(),
		fmt.Sprintf("--cpus-per-task=%d", cpus),
		fmt.Sprintf("--mem-per-cpu=%dM", memPerCPUMB),
		"--",
	)
	return append(wrapped, argv...)
}
