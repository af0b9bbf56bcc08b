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
	"testing"
)

func Test_shell_form_quotes_unsafe_args(t *testing.T) {
	got := ShellForm([]string{"python", "train.py", "--out", "a b.txt"})
	want := `python train.py --out 'a b.txt'`
	if got != want {
		t.Fatalf("ShellForm() = %q; want %q", got, want)
	}
}

func Test_sanitize_name_replaces_separators(t *testing.T) {
	got := SanitizeName([]string{"python", "train.py", "data/out.txt"})
	if strings.Contains(got, "/") {
		t.Fatalf("SanitizeName() = %q; still contains a path separator", got)
	}
}

func Test_sanitize_name_truncates_to_200_runes(t *testing.T) {
	long := make([]string, 0, 50)
	for range 50 {
		long = append(long, "argument")
	}
	got := SanitizeName(long)
	if n := len([]rune(got)); n > 200 {
		t.Fatalf("SanitizeName() returned %d runes; want <= 200", n)
	}
}
