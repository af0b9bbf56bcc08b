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
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/expsched/expsched/lib/log"
	"github.com/expsched/expsched/lib/util"
)

// visibleDevicesEnvVar is the environment variable the process supervisor
// sets to steer a child onto a specific GPU (or set of GPUs).
const visibleDevicesEnvVar = "CUDA_VISIBLE_DEVICES"

// Launch spawns c as a child process: reserves resources, resolves argv,
// pre-creates output directories, assembles the environment (including any
// GPU assignment), opens stdout/stderr under the staging pipes directory,
// and starts the child. On success it appends the RunningProcess to
// s.Running and starts the background reaper goroutine.
func (s *SchedulerState) Launch(c *Command) (*RunningProcess, error) {
	gpuIndices := s.ReserveForLaunch(c)
	s.WarmupDeadline = time.Now().Add(c.WarmupTime)

	argv := c.ResolveArgv(s.DataDir, s.StagingDir)

	for _, ref := range c.AllOutputs() {
		dir := filepath.Dir(ref.StagingPath(s.StagingDir))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.ReleaseAfterCompletion(&RunningProcess{Command: c, GPUIndices: gpuIndices, MaxRAMGB: c.RAMGB})
			return nil, fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}

	env := append(os.Environ(), c.Env...)
	if c.UsesWholeGPUs() {
		env = append(env, visibleDevicesEnvVar+"="+c.GPUs)
	} else if len(gpuIndices) == 1 && len(s.GPUDevices) > gpuIndices[0] {
		env = append(env, visibleDevicesEnvVar+"="+s.GPUDevices[gpuIndices[0]])
	}

	argv, err := s.wrapForRemote(c, argv)
	if err != nil {
		s.ReleaseAfterCompletion(&RunningProcess{Command: c, GPUIndices: gpuIndices, MaxRAMGB: c.RAMGB})
		return nil, err
	}

	name := c.Name()
	pipesDir := filepath.Join(s.StagingDir, "pipes", name)
	if err := os.MkdirAll(pipesDir, 0o755); err != nil {
		return nil, fmt.Errorf("create pipes directory %s: %w", pipesDir, err)
	}
	stdoutPath := filepath.Join(pipesDir, "stdout.txt")
	stderrPath := filepath.Join(pipesDir, "stderr.txt")
	stdout, err := os.OpenFile(stdoutPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", stdoutPath, err)
	}
	stderr, err := os.OpenFile(stderrPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		stdout.Close()
		return nil, fmt.Errorf("open %s: %w", stderrPath, err)
	}

	cmd := exec.Command(argv[0], argv[1:]...) // #nosec G204 -- argv is user-supplied catalog content
	cmd.Env = env
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		stdout.Close()
		stderr.Close()
		s.ReleaseAfterCompletion(&RunningProcess{Command: c, GPUIndices: gpuIndices, MaxRAMGB: c.RAMGB})
		return nil, fmt.Errorf("start %s: %w", util.ShellForm(argv), err)
	}

	rp := &RunningProcess{
		Command:    c,
		Cmd:        cmd,
		GPUIndices: gpuIndices,
		MaxRAMGB:   c.RAMGB,
		StartedAt:  time.Now(),
		Name:       name,
		StdoutPath: stdoutPath,
		StderrPath: stderrPath,
		Done:       make(chan struct{}),
	}

	go func() {
		rp.ExitErr = cmd.Wait()
		stdout.Close()
		stderr.Close()
		close(rp.Done)
	}()

	log.Infof("Scheduler: launched %q (pid %d)", name, cmd.Process.Pid)
	s.Running = append(s.Running, rp)
	return rp, nil
}

// ReapCompleted moves every finished RunningProcess out of s.Running and
// returns them, preserving the order they appear in Running. Called once
// per cycle by the loop; never blocks.
func (s *SchedulerState) ReapCompleted() []*RunningProcess {
	var completed []*RunningProcess
	remaining := s.Running[:0]
	for _, rp := range s.Running {
		if rp.Finished() {
			completed = append(completed, rp)
		} else {
			remaining = append(remaining, rp)
		}
	}
	s.Running = remaining
	return completed
}
