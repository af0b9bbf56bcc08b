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
	"os"
	"path/filepath"
	"testing"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.sh")
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func Test_exec_loader_decodes_interpreter_stdout(t *testing.T) {
	path := writeScript(t, "#!/bin/sh\necho '- argv: [echo, hi]'\n")
	loader := &ExecLoader{Interpreter: "/bin/sh", Path: path}

	commands, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(commands) != 1 {
		t.Fatalf("Load() returned %d commands; want 1", len(commands))
	}
}

func Test_exec_loader_reports_load_error_on_nonzero_exit(t *testing.T) {
	path := writeScript(t, "#!/bin/sh\necho 'boom' >&2\nexit 1\n")
	loader := &ExecLoader{Interpreter: "/bin/sh", Path: path}

	_, err := loader.Load()
	if err == nil {
		t.Fatalf("Load() error = nil; want a LoadError on nonzero exit")
	}
	if _, ok := err.(*LoadError); !ok {
		t.Fatalf("Load() error type = %T; want *LoadError", err)
	}
}

func Test_exec_loader_reports_load_error_on_invalid_yaml_output(t *testing.T) {
	path := writeScript(t, "#!/bin/sh\necho '{not: [valid'\n")
	loader := &ExecLoader{Interpreter: "/bin/sh", Path: path}

	_, err := loader.Load()
	if err == nil {
		t.Fatalf("Load() error = nil; want a LoadError on invalid YAML output")
	}
}
