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
	"fmt"
	"math"
	"math/bits"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/expsched/expsched/lib/log"
)

// CreateLock writes a pidfile at lockPath. The caller is responsible for
// removing it on clean shutdown.
func CreateLock(lockPath string) error {
	lockFile, err := os.Create(lockPath)
	if err != nil {
		return log.Error("Util: Unable to create the lock file:", lockPath)
	}
	defer lockFile.Close()

	lockFile.Write([]byte(fmt.Sprintf("%d", os.Getpid())))

	return nil
}

// WaitLock blocks while lockPath exists and names a process that's still
// alive. If the lock file is stale (no such pid, or garbage content) it
// invokes clean and removes the file. Used to stop a second scheduler
// instance from racing the first one over the same staging directory.
func WaitLock(lockPath string, clean func()) error {
	waitCounter := 0
	for {
		if _, err := os.Stat(lockPath); os.IsNotExist(err) {
			break
		}
		if waitCounter%6 == 0 {
			if lockInfo, err := os.ReadFile(lockPath); err == nil {
				pid, err := strconv.ParseInt(strings.SplitN(string(lockInfo), " ", 2)[0], 10, bits.UintSize)
				if err != nil || pid < 0 || pid > math.MaxInt32 {
					log.Warnf("Util: Lock file doesn't contain a pid '%s': %s - %v", lockPath, lockInfo, err)
					clean()
					os.Remove(lockPath)
					break
				}
				if proc, err := os.FindProcess(int(pid)); err != nil || proc.Signal(syscall.Signal(0)) != nil {
					log.Warnf("Util: No process running for lock file '%s': %s", lockPath, lockInfo)
					clean()
					os.Remove(lockPath)
					break
				}
				log.Debugf("Util: Waiting for '%s', pid %s", lockPath, lockInfo)
			}
		}

		time.Sleep(5 * time.Second)
		waitCounter++
	}

	return nil
}
