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

package catalog

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/ghodss/yaml"

	"github.com/expsched/expsched/lib/scheduler"
)

// ExecLoader restores doexp's "catalog as executable code" ergonomics
// without the core depending on an embedded language runtime: it shells
// out to Interpreter with Path as its sole argument and expects the same
// command-list YAML YAMLLoader reads, on stdout. A nonzero exit (or a
// failure to start the interpreter) is reported as a LoadError with the
// captured stderr as context; stderr output from a zero exit is ignored.
type ExecLoader struct {
	Interpreter string // e.g. "python3"
	Path        string // script/catalog file passed to Interpreter
}

// Load implements Loader.
func (l *ExecLoader) Load() ([]*scheduler.Command, error) {
	cmd := exec.Command(l.Interpreter, l.Path) // #nosec G204 -- operator-configured interpreter
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &LoadError{Source: l.Path, Err: fmt.Errorf("%s %s: %w: %s", l.Interpreter, l.Path, err, stderr.String())}
	}

	var specs []commandSpec
	if err := yaml.Unmarshal(stdout.Bytes(), &specs); err != nil {
		return nil, &LoadError{Source: l.Path, Err: err}
	}

	commands := make([]*scheduler.Command, 0, len(specs))
	for i, spec := range specs {
		command, err := spec.toCommand()
		if err != nil {
			return nil, &LoadError{Source: l.Path, Err: fmt.Errorf("command %d: %w", i, err)}
		}
		commands = append(commands, command)
	}
	return commands, nil
}
