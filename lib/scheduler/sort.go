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

import "sort"

// SortReady orders a ready set for launch: priority tuple descending,
// ties broken by warmup_time ascending, further ties by ram_gb ascending,
// and any remaining tie left in its original (stable) order.
func SortReady(ready []*Command) {
	sort.SliceStable(ready, func(i, j int) bool {
		a, b := ready[i], ready[j]
		if a.Priority.Less(b.Priority) {
			return true
		}
		if b.Priority.Less(a.Priority) {
			return false
		}
		if a.WarmupTime != b.WarmupTime {
			return a.WarmupTime < b.WarmupTime
		}
		return a.RAMGB < b.RAMGB
	})
}
