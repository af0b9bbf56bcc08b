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
	"bytes"
	"fmt"
	"os"
	"text/template"
)

// TemplateData is the substitution context available to a cloud-sandbox
// YAML template: {{.Command}} is the shell-quoted argv, ready to paste
// into a "run:" block.
type TemplateData struct {
	Command string
}

// CloudAdapter materializes a user-supplied YAML template into a task
// file and launches Launcher against it, passing the task file path and
// one --out-file flag per declared output so the remote side knows what
// to stage back.
type CloudAdapter struct {
	Launcher     string // e.g. "sky"
	TemplatePath string
	TaskFileFlag string // defaults to "--task-file"
	OutFileFlag  string // defaults to "--out-file"
}

// Render substitutes shellCommand into the template at TemplatePath and
// writes the result to a new temp file, returning its path. The caller is
// responsible for removing it once the launch completes.
func (a *CloudAdapter) Render(shellCommand string) (taskFilePath string, err error) {
	tmplBytes, err := os.ReadFile(a.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("read cloud template %s: %w", a.TemplatePath, err)
	}

	tmpl, err := template.New("cloud-task").Parse(string(tmplBytes))
	if err != nil {
		return "", fmt.Errorf("parse cloud template %s: %w", a.TemplatePath, err)
	}

	var rendered bytes.Buffer
	if err := tmpl.Execute(&rendered, TemplateData{Command: shellCommand}); err != nil {
		return "", fmt.Errorf("render cloud template %s: %w", a.TemplatePath, err)
	}

	f, err := os.CreateTemp("", "expsched-cloud-task-*.yaml")
	if err != nil {
		return "", fmt.Errorf("create cloud task file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(rendered.Bytes()); err != nil {
		return "", fmt.Errorf("write cloud task file: %w", err)
	}
	return f.Name(), nil
}

// Argv builds the launcher's argv: Launcher, the task-file flag and path,
// then one out-file flag per declared output path (already resolved to
// its staged location by the caller).
func (a *CloudAdapter) Argv(taskFilePath string, outputPaths []string) []string {
	argv := []string{a.Launcher, a.taskFileFlag(), taskFilePath}
	for _, path := range outputPaths {
		argv = append(argv, a.outFileFlag(), path)
	}
	return argv
}

func (a *CloudAdapter) taskFileFlag() string {
	if a.TaskFileFlag != "" {
		return a.TaskFileFlag
	}
	return "--task-file"
}

func (a *CloudAdapter) outFileFlag() string {
	if a.OutFileFlag != "" {
		return a.OutFileFlag
	}
	return "--out-file"
}
