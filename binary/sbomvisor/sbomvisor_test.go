// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun(t *testing.T) {
	bomDir := func(t *testing.T) string {
		t.Helper()
		dir := t.TempDir()
		content := `{
  "bomFormat": "CycloneDX",
  "specVersion": "1.5",
  "components": [
    {"type": "library", "bom-ref": "lib-a", "name": "lib-a", "version": "2.3.4"}
  ]
}`
		bomFile := filepath.Join(dir, "bom.cdx.json")
		if err := os.WriteFile(bomFile, []byte(content), 0644); err != nil {
			t.Fatalf("os.WriteFile(%s): %v", bomFile, err)
		}
		return dir
	}

	testCases := []struct {
		desc      string
		setupFunc func(t *testing.T) string
		args      []string
		want      int
	}{
		{
			desc:      "scan subcommand",
			setupFunc: bomDir,
			args: []string{
				"sbomvisor", "scan",
				"--file", filepath.Join("{dir}", "bom.cdx.json"),
				"--offline",
				"--result", filepath.Join("{dir}", "result.json"),
			},
			want: 0,
		},
		{
			desc:      "no subcommand",
			setupFunc: bomDir,
			args: []string{
				"sbomvisor",
				"--file", filepath.Join("{dir}", "bom.cdx.json"),
				"--offline",
				"--result", filepath.Join("{dir}", "result.json"),
			},
			want: 0,
		},
		{
			desc:      "output flags missing",
			setupFunc: bomDir,
			args: []string{
				"sbomvisor", "scan",
				"--file", filepath.Join("{dir}", "bom.cdx.json"),
			},
			want: 1, // "Error parsing CLI args: either --result or --o needs to be set"
		},
		{
			desc:      "unknown subcommand",
			setupFunc: bomDir,
			// 'unknown' is not a flag, so parsing stops and the leftover args are rejected.
			args: []string{
				"sbomvisor", "unknown",
				"--file", filepath.Join("{dir}", "bom.cdx.json"),
				"--result", filepath.Join("{dir}", "result.json"),
			},
			want: 1,
		},
		{
			desc:      "version flag",
			setupFunc: bomDir,
			args:      []string{"sbomvisor", "--version"},
			want:      0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			dir := tc.setupFunc(t)
			args := make([]string, len(tc.args))
			for i, arg := range tc.args {
				args[i] = strings.ReplaceAll(arg, "{dir}", dir)
			}
			if got := run(args); got != tc.want {
				t.Errorf("run(%v) returned unexpected exit code, got %d want %d", args, got, tc.want)
			}
		})
	}
}
