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
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/google/renameio/v2"

	"github.com/expsched/expsched/lib/log"
)

// Publish handles one completed process per §4.I: releases its reservations,
// and — if it exited zero — moves every declared Output from staging to the
// data directory. A nonzero exit releases reservations and prints captured
// stderr, but publishes nothing.
func (s *SchedulerState) Publish(rp *RunningProcess) {
	s.ReleaseAfterCompletion(rp)
	s.Metrics.RecordCompletion(context.Background(), rp.Succeeded())

	if !rp.Succeeded() {
		log.Errorf("Scheduler: %q failed: %v", rp.Name, rp.ExitErr)
		if data, err := os.ReadFile(rp.StderrPath); err == nil && len(data) > 0 {
			log.Errorf("Scheduler: %q stderr:\n%s", rp.Name, data)
		}
		return
	}

	for _, ref := range rp.Command.AllOutputs() {
		staged := ref.StagingPath(s.StagingDir)
		final := ref.DataPath(s.DataDir)
		if err := publishPath(staged, final); err != nil {
			log.Errorf("Scheduler: %q: failed to publish %s: %v", rp.Name, ref.Path, err)
		}
	}
}

// publishPath moves staged (file or directory) to final, creating final's
// parent directories first. A rename is attempted first. A file falls back
// to an atomic copy plus removal of the staged file only when the rename
// fails with EXDEV (cross-device); a directory falls back to a recursive
// copy plus removal of the staged tree whenever its rename fails.
func publishPath(staged, final string) error {
	if err := os.MkdirAll(filepath.Dir(final), 0o755); err != nil {
		return err
	}

	info, err := os.Stat(staged)
	if err != nil {
		return err
	}

	if info.IsDir() {
		if err := os.Rename(staged, final); err == nil {
			return nil
		}
		if err := copyDir(staged, final); err != nil {
			return err
		}
		return os.RemoveAll(staged)
	}

	if err := os.Rename(staged, final); err == nil {
		return nil
	} else if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := copyFileAtomic(staged, final, info.Mode()); err != nil {
		return err
	}
	return os.Remove(staged)
}

// copyFileAtomic copies src to dst via a renameio pending file, so a reader
// racing the publish either sees the old dst or the complete new one, never
// a partial write.
func copyFileAtomic(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	pending, err := renameio.NewPendingFile(dst, renameio.WithPermissions(mode))
	if err != nil {
		return err
	}
	defer pending.Cleanup()

	if _, err := io.Copy(pending, in); err != nil {
		return err
	}
	return pending.CloseAtomicallyReplace()
}

// copyDir recursively copies src to dst, publishing each file atomically.
func copyDir(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		return copyFileAtomic(path, target, info.Mode())
	})
}
