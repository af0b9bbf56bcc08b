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

package util

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func Test_create_lock_writes_the_current_pid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expsched.lock")
	if err := CreateLock(path); err != nil {
		t.Fatalf("CreateLock() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(got) != strconv.Itoa(os.Getpid()) {
		t.Fatalf("lock file content = %q; want current pid %d", got, os.Getpid())
	}
}

func Test_wait_lock_returns_immediately_when_no_lock_file_exists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expsched.lock")
	called := false
	if err := WaitLock(path, func() { called = true }); err != nil {
		t.Fatalf("WaitLock() error = %v", err)
	}
	if called {
		t.Fatalf("clean() was called; want it untouched when there was never a lock file")
	}
}

func Test_wait_lock_cleans_up_a_stale_lock_with_a_dead_pid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expsched.lock")
	// A pid this large is never a real running process.
	if err := os.WriteFile(path, []byte("999999999"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	called := false
	if err := WaitLock(path, func() { called = true }); err != nil {
		t.Fatalf("WaitLock() error = %v", err)
	}
	if !called {
		t.Fatalf("clean() was not called for a stale lock file")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("stale lock file still exists after WaitLock")
	}
}

func Test_wait_lock_cleans_up_a_lock_with_garbage_content(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expsched.lock")
	if err := os.WriteFile(path, []byte("not-a-pid"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if err := WaitLock(path, func() {}); err != nil {
		t.Fatalf("WaitLock() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("garbage lock file still exists after WaitLock")
	}
}
