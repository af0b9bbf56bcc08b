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

package tests

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/expsched/expsched/lib/scheduler"
	"github.com/expsched/expsched/tests/helper"
)

// Test_launch_publish_round_trip_polls_and_compares_published_output drives
// Launch and Publish directly (rather than the full Run loop) so the wait
// for process completion is genuinely asynchronous: the reaper goroutine
// closes RunningProcess.Done independently of the test, and helper.Retry is
// what stands in here for a caller polling filesystem/process state the way
// an integration test against a real catalog would.
func Test_launch_publish_round_trip_polls_and_compares_published_output(t *testing.T) {
	s := &scheduler.SchedulerState{
		DataDir:    t.TempDir(),
		StagingDir: t.TempDir(),
	}

	c, err := scheduler.NewCommand([]scheduler.ArgElem{
		scheduler.Lit("/bin/sh"),
		scheduler.Lit("-c"),
		scheduler.Lit(`echo -n hello > "$1"`),
		scheduler.Lit("_"),
		scheduler.Arg(scheduler.Out("result.txt")),
	})
	if err != nil {
		t.Fatalf("NewCommand() error = %v", err)
	}

	rp, err := s.Launch(c)
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}

	helper.Retry(&helper.Counter{Count: 50, Wait: 100 * time.Millisecond}, t, func(r *helper.R) {
		if !rp.Finished() {
			r.Fatal("launched process has not finished yet")
		}
	})
	if !rp.Succeeded() {
		t.Fatalf("command exited nonzero: %v", rp.ExitErr)
	}

	s.Publish(rp)

	want := t.TempDir()
	if err := os.WriteFile(filepath.Join(want, "result.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := helper.CompareDirFiles(want, s.DataDir); err != nil {
		t.Fatalf("published output does not match expected content: %v", err)
	}
}

// Test_run_loop_end_to_end_launches_and_publishes_via_the_catalog_loader
// drives the full Run loop (rather than Launch/Publish directly) against a
// CatalogLoader, then asserts on published output with CompareDirFiles —
// covering the loop's reload/filter/launch/reap/publish wiring end to end.
func Test_run_loop_end_to_end_launches_and_publishes_via_the_catalog_loader(t *testing.T) {
	s := &scheduler.SchedulerState{
		DataDir:       t.TempDir(),
		StagingDir:    t.TempDir(),
		VMPercentCap:  100,
		MaxConcurrent: 1,
		MaxCoreAlloc:  1,
	}

	c, err := scheduler.NewCommand([]scheduler.ArgElem{
		scheduler.Lit("/bin/sh"),
		scheduler.Lit("-c"),
		scheduler.Lit(`echo -n world > "$1"`),
		scheduler.Lit("_"),
		scheduler.Arg(scheduler.Out("greeting.txt")),
	})
	if err != nil {
		t.Fatalf("NewCommand() error = %v", err)
	}

	loader := staticLoader{commands: []*scheduler.Command{c}}
	if err := scheduler.Run(s, loader, scheduler.Options{}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := t.TempDir()
	if err := os.WriteFile(filepath.Join(want, "greeting.txt"), []byte("world"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := helper.CompareDirFiles(want, s.DataDir); err != nil {
		t.Fatalf("published output does not match expected content: %v", err)
	}
}

type staticLoader struct {
	commands []*scheduler.Command
}

func (l staticLoader) Load() ([]*scheduler.Command, error) { return l.commands, nil }
