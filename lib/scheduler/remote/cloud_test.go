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

package remote

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func Test_cloud_adapter_render_substitutes_command(t *testing.T) {
	tmplPath := filepath.Join(t.TempDir(), "template.yaml")
	if err := os.WriteFile(tmplPath, []byte("run: {{.Command}}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	a := &CloudAdapter{TemplatePath: tmplPath}

	taskFile, err := a.Render("python train.py")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	defer os.Remove(taskFile)

	got, err := os.ReadFile(taskFile)
	if err != nil {
		t.Fatalf("ReadFile(taskFile) error = %v", err)
	}
	if !strings.Contains(string(got), "python train.py") {
		t.Fatalf("rendered task file = %q; want it to contain the substituted command", got)
	}
}

func Test_cloud_adapter_render_errors_on_missing_template(t *testing.T) {
	a := &CloudAdapter{TemplatePath: filepath.Join(t.TempDir(), "missing.yaml")}
	if _, err := a.Render("echo hi"); err == nil {
		t.Fatalf("Render() error = nil; want error for a missing template file")
	}
}

func Test_cloud_adapter_argv_defaults_flags_and_repeats_out_file(t *testing.T) {
	a := &CloudAdapter{Launcher: "sky"}
	got := a.Argv("/tmp/task.yaml", []string{"/data/_tmp/a.txt", "/data/_tmp/b.txt"})
	want := []string{"sky", "--task-file", "/tmp/task.yaml", "--out-file", "/data/_tmp/a.txt", "--out-file", "/data/_tmp/b.txt"}
	if len(got) != len(want) {
		t.Fatalf("Argv() = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Argv()[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}

func Test_cloud_adapter_argv_honors_custom_flags(t *testing.T) {
	a := &CloudAdapter{Launcher: "sky", TaskFileFlag: "--task", OutFileFlag: "--out"}
	got := a.Argv("/tmp/task.yaml", []string{"/data/_tmp/a.txt"})
	want := []string{"sky", "--task", "/tmp/task.yaml", "--out", "/data/_tmp/a.txt"}
	if len(got) != len(want) {
		t.Fatalf("Argv() = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Argv()[%d] = %q; want %q", i, got[i], want[i])
		}
	}
}
