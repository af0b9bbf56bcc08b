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
	"github.com/expsched/expsched/lib/util"
)

// wrapForRemote rewrites argv into the remote-adapter invocation a command
// actually needs to be spawned as, per §6's external-interfaces contract:
// srun-wrapped for slurm (engaged globally), or a rendered cloud-sandbox
// task file plus launcher argv for skypilot (engaged per-command). A
// command matching neither passes through unchanged and runs as a plain
// local child.
func (s *SchedulerState) wrapForRemote(c *Command, argv []string) ([]string, error) {
	if s.Remote.SlurmActive && s.Cluster != nil {
		return s.Cluster.Wrap(argv, c.Cores, c.RAMGB), nil
	}

	if s.Remote.CloudTemplate != "" && c.RemoteTemplate == s.Remote.CloudTemplate && s.Cloud != nil {
		taskFile, err := s.Cloud.Render(util.ShellForm(argv))
		if err != nil {
			return nil, err
		}
		outputPaths := make([]string, 0, len(c.AllOutputs()))
		for _, ref := range c.AllOutputs() {
			outputPaths = append(outputPaths, ref.StagingPath(s.StagingDir))
		}
		return s.Cloud.Argv(taskFile, outputPaths), nil
	}

	return argv, nil
}
