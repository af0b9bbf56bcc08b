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

// Package catalog evaluates a user-supplied catalog source into the set of
// commands the scheduler should consider this cycle. It is the external
// collaborator named in the core's §6 catalog loader contract: the
// scheduler only depends on the Loader interface, never on how a catalog
// file is expressed.
package catalog

import (
	"fmt"

	"github.com/expsched/expsched/lib/scheduler"
)

// LoadError carries line context back to the user when a catalog source
// fails to parse, matching the "syntactic error with line context" the
// core's contract requires.
type LoadError struct {
	Source string
	Line   int // 0 if unknown
	Err    error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader is the contract scheduler.CatalogLoader is satisfied by: given an
// opaque source (a file path in both built-in implementations), return the
// current set of commands. Implementations must be safe to call repeatedly
// and must be deterministic — identical source content yields structurally
// equal Command sets, since the scheduler's not_running de-duplication
// depends on it.
type Loader interface {
	Load() ([]*scheduler.Command, error)
}

// commandSpec is the on-disk shape both built-in loaders decode into before
// constructing validated scheduler.Command values. It mirrors Command's
// field names rather than doexp's keyword arguments, since Go has no
// equivalent calling convention.
type commandSpec struct {
	Argv         []argSpec       `json:"argv"`
	ExtraInputs  []string        `json:"extra_inputs"`
	ExtraOutputs []string        `json:"extra_outputs"`
	RAMGB        float64         `json:"ram_gb"`
	Cores        float64         `json:"cores"`
	GPURAMGB     float64         `json:"gpu_ram_gb"`
	GPUs         string          `json:"gpus"`
	WarmupTimeS  float64         `json:"warmup_time"`
	Priority     prioritySpec    `json:"priority"`
	Env          map[string]string `json:"env"`
	RemoteTemplate string        `json:"remote_template"`
}

// argSpec is one argv element: either a bare literal string or an object
// tagging a path as an input or output dependency.
type argSpec struct {
	Literal string
	Ref     *refSpec
}

type refSpec struct {
	Kind string `json:"kind"` // "input" or "output"
	Path string `json:"path"`
}

// prioritySpec decodes either a bare scalar or an array of scalars.
type prioritySpec struct {
	Values []int
}

func toFileRef(kind, path string) (scheduler.FileRef, error) {
	switch kind {
	case "input":
		return scheduler.In(path), nil
	case "output":
		return scheduler.Out(path), nil
	default:
		return scheduler.FileRef{}, fmt.Errorf("unknown FileRef kind %q", kind)
	}
}
