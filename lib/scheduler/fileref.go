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

// Package scheduler implements the resource-aware local scheduler loop:
// dependency-driven command selection, multi-resource admission control,
// round-robin GPU assignment, process supervision with memory-pressure
// eviction and atomic publication of outputs.
package scheduler

import "path/filepath"

// FileKind tags a FileRef as an Input or an Output.
type FileKind int8

const (
	// Input marks a FileRef that must already exist in the data directory
	// before the owning Command is ready to run.
	Input FileKind = iota
	// Output marks a FileRef the owning Command will produce. Its presence
	// in the data directory is the scheduler's signal that the Command is
	// complete.
	Output
)

func (k FileKind) String() string {
	if k == Input {
		return "input"
	}
	return "output"
}

// FileRef is a tagged reference to a relative path, either a dependency the
// Command needs (Input) or a result it produces (Output). The scheduler
// never dispatches on anything but this tag.
type FileRef struct {
	Kind FileKind
	Path string // relative; resolved against the data or staging directory
}

// In constructs an Input FileRef.
func In(path string) FileRef { return FileRef{Kind: Input, Path: path} }

// Out constructs an Output FileRef.
func Out(path string) FileRef { return FileRef{Kind: Output, Path: path} }

// DataPath resolves an Input (or a committed Output) against dataDir.
func (f FileRef) DataPath(dataDir string) string {
	return filepath.Join(dataDir, f.Path)
}

// StagingPath resolves an in-progress Output against stagingDir. Never used
// to resolve an Input — no code path in this package reads an Input from
// staging, so a staged file is never mistaken for a finished one.
func (f FileRef) StagingPath(stagingDir string) string {
	return filepath.Join(stagingDir, f.Path)
}

// ArgElem is one element of an argv template: either an opaque literal
// string or a FileRef that the supervisor resolves to a filesystem path
// right before spawning the child (Input under the data directory, Output
// under the staging directory).
type ArgElem struct {
	lit string
	ref *FileRef
}

// Lit constructs a literal argv element that passes through unchanged.
func Lit(s string) ArgElem { return ArgElem{lit: s} }

// Arg constructs an argv element from a FileRef, resolved at launch time.
func Arg(ref FileRef) ArgElem { return ArgElem{ref: &ref} }

// IsRef reports whether this element is a FileRef rather than a literal.
func (a ArgElem) IsRef() bool { return a.ref != nil }

// Ref returns the underlying FileRef. Only valid when IsRef is true.
func (a ArgElem) Ref() FileRef { return *a.ref }

// Literal returns the underlying literal string. Only valid when IsRef is
// false.
func (a ArgElem) Literal() string { return a.lit }

// Token returns a stable textual form of the element for naming purposes:
// the literal itself, or the FileRef's relative path.
func (a ArgElem) Token() string {
	if a.IsRef() {
		return a.ref.Path
	}
	return a.lit
}

// Resolve turns the element into the string that should actually appear in
// the spawned child's argv: a literal passes through, an Input resolves
// against dataDir, an Output resolves against stagingDir.
func (a ArgElem) Resolve(dataDir, stagingDir string) string {
	if !a.IsRef() {
		return a.lit
	}
	if a.ref.Kind == Input {
		return a.ref.DataPath(dataDir)
	}
	return a.ref.StagingPath(stagingDir)
}
