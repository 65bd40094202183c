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

package converter_test

import (
	"strings"
	"testing"

	"github.com/sbomvisor/sbomvisor/converter"
	"github.com/sbomvisor/sbomvisor/graph"
)

func TestToDOT(t *testing.T) {
	r := testResult(t)
	view := graph.Project(r.Graph, nil)

	got := converter.ToDOT(view)

	// One labeled cluster subgraph per cluster, lightgrey border.
	for _, want := range []string{
		"digraph",
		`rankdir="LR"`,
		"subgraph cluster_",
		`label="backend"`,
		`label="default"`,
		`color="lightgrey"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("converter.ToDOT() output is missing %q:\n%s", want, got)
		}
	}

	// The synthetic ghost-lib node is drawn dashed and red.
	for _, want := range []string{`style="dashed"`, `color="red"`, "ghost-lib"} {
		if !strings.Contains(got, want) {
			t.Errorf("converter.ToDOT() output is missing %q:\n%s", want, got)
		}
	}

	// Both graph edges cross a cluster boundary and survive the
	// projection at the top level.
	if gotEdges := strings.Count(got, "->"); gotEdges != 2 {
		t.Errorf("converter.ToDOT() rendered %d edges, want 2:\n%s", gotEdges, got)
	}
}

func TestToDOTEmptyView(t *testing.T) {
	got := converter.ToDOT(graph.Project(graph.New(), nil))
	if !strings.Contains(got, "digraph") {
		t.Errorf("converter.ToDOT() on an empty view: got %q, want a digraph header", got)
	}
	if strings.Contains(got, "->") {
		t.Errorf("converter.ToDOT() on an empty view rendered edges:\n%s", got)
	}
}
