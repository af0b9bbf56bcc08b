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
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/expsched/expsched/lib/scheduler"
)

// UnmarshalJSON accepts either a bare string ("data/in.csv", a literal) or
// an object ({"kind": "input", "path": "data/in.csv"}, a FileRef).
func (a *argSpec) UnmarshalJSON(b []byte) error {
	var lit string
	if err := json.Unmarshal(b, &lit); err == nil {
		a.Literal = lit
		a.Ref = nil
		return nil
	}
	var ref refSpec
	if err := json.Unmarshal(b, &ref); err != nil {
		return fmt.Errorf("argv element must be a string or a FileRef object: %w", err)
	}
	a.Ref = &ref
	return nil
}

func (a argSpec) toArgElem() (scheduler.ArgElem, error) {
	if a.Ref == nil {
		return scheduler.Lit(a.Literal), nil
	}
	ref, err := toFileRef(a.Ref.Kind, a.Ref.Path)
	if err != nil {
		return scheduler.ArgElem{}, err
	}
	return scheduler.Arg(ref), nil
}

// UnmarshalJSON accepts either a bare scalar (promoted to a 1-tuple) or an
// array of scalars.
func (p *prioritySpec) UnmarshalJSON(b []byte) error {
	var scalar int
	if err := json.Unmarshal(b, &scalar); err == nil {
		p.Values = []int{scalar}
		return nil
	}
	var tuple []int
	if err := json.Unmarshal(b, &tuple); err != nil {
		return fmt.Errorf("priority must be an integer or an array of integers: %w", err)
	}
	p.Values = tuple
	return nil
}

// toCommand converts a decoded commandSpec into a validated
// scheduler.Command, the shared final step for every built-in Loader.
func (spec commandSpec) toCommand() (*scheduler.Command, error) {
	argv := make([]scheduler.ArgElem, len(spec.Argv))
	for i, a := range spec.Argv {
		elem, err := a.toArgElem()
		if err != nil {
			return nil, fmt.Errorf("argv[%d]: %w", i, err)
		}
		argv[i] = elem
	}

	opts := []scheduler.Option{
		scheduler.WithRAM(spec.RAMGB),
		scheduler.WithCores(spec.Cores),
		scheduler.WithWarmupTime(time.Duration(spec.WarmupTimeS * float64(time.Second))),
	}
	if len(spec.Priority.Values) > 0 {
		opts = append(opts, scheduler.WithPriority(scheduler.Priority(spec.Priority.Values)))
	}
	if spec.GPUs != "" {
		opts = append(opts, scheduler.WithGPUs(spec.GPUs))
	}
	if spec.GPURAMGB > 0 {
		opts = append(opts, scheduler.WithGPURAM(spec.GPURAMGB))
	}
	if spec.RemoteTemplate != "" {
		opts = append(opts, scheduler.WithRemoteTemplate(spec.RemoteTemplate))
	}
	for _, path := range spec.ExtraInputs {
		opts = append(opts, scheduler.WithExtraInputs(scheduler.In(path)))
	}
	for _, path := range spec.ExtraOutputs {
		opts = append(opts, scheduler.WithExtraOutputs(scheduler.Out(path)))
	}
	if len(spec.Env) > 0 {
		keys := make([]string, 0, len(spec.Env))
		for k := range spec.Env {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		kv := make([]string, 0, len(keys))
		for _, k := range keys {
			kv = append(kv, k+"="+spec.Env[k])
		}
		opts = append(opts, scheduler.WithEnv(kv...))
	}

	return scheduler.NewCommand(argv, opts...)
}
