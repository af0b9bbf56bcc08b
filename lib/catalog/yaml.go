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
	"fmt"
	"os"

	"github.com/ghodss/yaml"

	"github.com/expsched/expsched/lib/scheduler"
)

// YAMLLoader re-reads a declarative YAML catalog file every call: a
// top-level list of command specs matching commandSpec's field names. It
// is the default loader — no external interpreter, no side effects beyond
// reading Path.
type YAMLLoader struct {
	Path string
}

// Load implements Loader.
func (l *YAMLLoader) Load() ([]*scheduler.Command, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, &LoadError{Source: l.Path, Err: err}
	}

	var specs []commandSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, &LoadError{Source: l.Path, Err: err}
	}

	commands := make([]*scheduler.Command, 0, len(specs))
	for i, spec := range specs {
		cmd, err := spec.toCommand()
		if err != nil {
			return nil, &LoadError{Source: l.Path, Err: fmt.Errorf("command %d: %w", i, err)}
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}
