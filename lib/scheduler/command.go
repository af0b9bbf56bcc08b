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
	"time"

	"github.com/expsched/expsched/lib/util"
)

// InvalidCommand reports a Command that fails validation at construction
// time: a mutually-exclusive resource combination, or an extra_inputs /
// extra_outputs entry tagged with the wrong FileKind.
type InvalidCommand struct {
	Reason string
}

func (e *InvalidCommand) Error() string {
	return fmt.Sprintf("invalid command: %s", e.Reason)
}

// Command is an immutable description of one unit of work: an argv template
// plus the resources it needs to run and the dependency edges (beyond what
// argv itself implies) that gate it.
//
// Commands never carry process state — RunningProcess owns that. A Command
// is safe to evaluate against SchedulerState from multiple goroutines.
type Command struct {
	// Argv is the argv template: a mix of literal strings and FileRefs.
	// A FileRef element is both an argument (resolved to a path right
	// before spawning) and a dependency edge — it counts toward
	// needs_output / inputs_ready exactly like an ExtraInputs/ExtraOutputs
	// entry.
	Argv []ArgElem

	// ExtraInputs/ExtraOutputs declare dependency edges beyond argv: paths
	// this command reads before it may run, or produces once it's done.
	// Every entry's Kind must match the field it's in (enforced below).
	ExtraInputs  []FileRef
	ExtraOutputs []FileRef

	RAMGB float64
	Cores float64

	// GPUs, if non-empty, is the explicit comma-separated device-index
	// string this command must run on (e.g. "1,3"), set verbatim into the
	// child's CUDA_VISIBLE_DEVICES. An explicit-gpus command marks every
	// visible GPU fully reserved for its duration (mutually exclusive
	// with GPURAMGB).
	GPUs     string
	GPURAMGB float64 // fractional GPU memory this command occupies (mutually exclusive with GPUs)

	WarmupTime time.Duration
	Priority   Priority

	Env []string // "KEY=VALUE" pairs merged over the scheduler's own environment

	// RemoteTemplate, if set, names the cloud adapter (e.g. "skypilot")
	// this command runs under instead of locally. When it equals the
	// engaged RemoteMode.CloudTemplate, the command is launched through
	// that adapter and bypasses the local fits_ram/fits_cores/fits_gpu
	// filters. Slurm routing is global and does not read this field.
	RemoteTemplate string
}

// Option mutates a Command during construction. Options are applied in
// order, after the struct's zero value and before validation.
type Option func(*Command)

// WithExtraInputs appends Input-tagged dependency edges.
func WithExtraInputs(refs ...FileRef) Option {
	return func(c *Command) { c.ExtraInputs = append(c.ExtraInputs, refs...) }
}

// WithExtraOutputs appends Output-tagged dependency edges.
func WithExtraOutputs(refs ...FileRef) Option {
	return func(c *Command) { c.ExtraOutputs = append(c.ExtraOutputs, refs...) }
}

// WithRAM sets the command's RAM reservation in gigabytes.
func WithRAM(gb float64) Option {
	return func(c *Command) { c.RAMGB = gb }
}

// WithCores sets the command's CPU core reservation.
func WithCores(cores float64) Option {
	return func(c *Command) { c.Cores = cores }
}

// WithGPUs pins the command to an explicit, comma-separated GPU
// device-index string (e.g. "1,3"), mirroring doexp's own gpus field.
// Mutually exclusive with WithGPURAM.
func WithGPUs(devices string) Option {
	return func(c *Command) { c.GPUs = devices }
}

// WithGPURAM reserves a fraction of a single GPU's memory, letting several
// commands share one device. Mutually exclusive with WithGPUs.
func WithGPURAM(gb float64) Option {
	return func(c *Command) { c.GPURAMGB = gb }
}

// WithWarmupTime sets how long the scheduler waits after launching this
// command before it launches any other (Launch moves WarmupDeadline to
// now plus this duration).
func WithWarmupTime(d time.Duration) Option {
	return func(c *Command) { c.WarmupTime = d }
}

// WithPriority sets the command's scheduling priority tuple.
func WithPriority(p Priority) Option {
	return func(c *Command) { c.Priority = p }
}

// WithEnv appends "KEY=VALUE" environment entries.
func WithEnv(kv ...string) Option {
	return func(c *Command) { c.Env = append(c.Env, kv...) }
}

// WithRemoteTemplate marks the command as running under the named remote
// adapter instead of the local process supervisor.
func WithRemoteTemplate(name string) Option {
	return func(c *Command) { c.RemoteTemplate = name }
}

// NewCommand builds a Command from argv and options, returning
// *InvalidCommand if the result violates any field invariant.
func NewCommand(argv []ArgElem, opts ...Option) (*Command, error) {
	c := &Command{
		Argv:       append([]ArgElem(nil), argv...),
		WarmupTime: 0,
		Priority:   NewPriority(0),
	}
	for _, opt := range opts {
		opt(c)
	}

	if len(c.Argv) == 0 {
		return nil, &InvalidCommand{Reason: "argv must not be empty"}
	}
	if c.GPUs != "" && c.GPURAMGB > 0 {
		return nil, &InvalidCommand{Reason: "gpus and gpu_ram_gb are mutually exclusive"}
	}
	if c.RAMGB < 0 || c.Cores < 0 || c.GPURAMGB < 0 {
		return nil, &InvalidCommand{Reason: "resource reservations must not be negative"}
	}
	for _, ref := range c.ExtraInputs {
		if ref.Kind != Input {
			return nil, &InvalidCommand{Reason: fmt.Sprintf("extra_inputs entry %q is tagged %s, not input", ref.Path, ref.Kind)}
		}
	}
	for _, ref := range c.ExtraOutputs {
		if ref.Kind != Output {
			return nil, &InvalidCommand{Reason: fmt.Sprintf("extra_outputs entry %q is tagged %s, not output", ref.Path, ref.Kind)}
		}
	}

	return c, nil
}

// Name returns a filesystem-safe, human-legible identifier derived from
// argv, used to name the staging/pipes directory for a run of this command.
func (c *Command) Name() string {
	tokens := make([]string, len(c.Argv))
	for i, elem := range c.Argv {
		tokens[i] = elem.Token()
	}
	return util.SanitizeName(tokens)
}

// AllOutputs returns every Output FileRef this command is responsible for:
// ExtraOutputs plus any Output-tagged argv element, matching the source's
// uniform treatment of argv and extra_outputs for the "needs output" check
// and for publish.
func (c *Command) AllOutputs() []FileRef {
	outs := append([]FileRef(nil), c.ExtraOutputs...)
	for _, elem := range c.Argv {
		if elem.IsRef() && elem.Ref().Kind == Output {
			outs = append(outs, elem.Ref())
		}
	}
	return outs
}

// AllInputs returns every Input FileRef this command must wait on:
// ExtraInputs plus any Input-tagged argv element.
func (c *Command) AllInputs() []FileRef {
	ins := append([]FileRef(nil), c.ExtraInputs...)
	for _, elem := range c.Argv {
		if elem.IsRef() && elem.Ref().Kind == Input {
			ins = append(ins, elem.Ref())
		}
	}
	return ins
}

// ResolveArgv turns the argv template into the concrete argv the child
// process is spawned with: every FileRef resolved against dataDir (Input)
// or stagingDir (Output), literals passed through unchanged.
func (c *Command) ResolveArgv(dataDir, stagingDir string) []string {
	out := make([]string, len(c.Argv))
	for i, elem := range c.Argv {
		out[i] = elem.Resolve(dataDir, stagingDir)
	}
	return out
}

// UsesWholeGPUs reports whether this command reserves whole-GPU units
// (via an explicit gpus device string) rather than fractional GPU memory.
func (c *Command) UsesWholeGPUs() bool {
	return c.GPUs != ""
}
