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
	"strings"

	"github.com/alessio/shellescape"
)

// ShellForm joins argv into a copy-pastable shell command line, quoting
// each element that needs it. Used for --dry-run output and for logging
// what was actually spawned.
func ShellForm(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		quoted[i] = shellescape.Quote(arg)
	}
	return strings.Join(quoted, " ")
}

// SanitizeName turns argv into a filesystem-safe directory name: joins with
// spaces, replaces path separators with a visually similar glyph so the
// result never escapes its parent directory, and caps the length.
func SanitizeName(argv []string) string {
	name := strings.ReplaceAll(strings.Join(argv, " "), "/", "╱")
	if runes := []rune(name); len(runes) > 200 {
		name = string(runes[:200])
	}
	return name
}
