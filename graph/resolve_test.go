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

package graph_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sbomvisor/sbomvisor/graph"
	"github.com/sbomvisor/sbomvisor/inventory"
)

func TestResolve(t *testing.T) {
	testCases := []struct {
		name       string
		components []*inventory.Component
		rawEdges   []inventory.RawEdge
		want       graph.Resolution
	}{
		{
			name: "purl match beats ref and name",
			components: []*inventory.Component{
				{Name: "left", Version: "1", PURL: "pkg:npm/left@1.0.0"},
				// A component whose document ref collides with the purl of
				// the first one must lose.
				{Name: "decoy", Version: "9", Ref: "pkg:npm/left@1.0.0"},
				{Name: "root", Version: "1", Ref: "root-ref"},
			},
			rawEdges: []inventory.RawEdge{
				{Ref: "root-ref", DependsOn: []string{"pkg:npm/left@1.0.0"}},
			},
			want: graph.Resolution{
				Edges: []inventory.DependencyEdge{
					{
						From: inventory.Identity{Name: "root", Version: "1"},
						To:   inventory.Identity{Name: "left", Version: "1"},
					},
				},
			},
		},
		{
			name: "ref match beats name",
			components: []*inventory.Component{
				{Name: "pkg-a", Version: "1", Ref: "SPDXRef-A"},
				{Name: "SPDXRef-A", Version: "7"},
				{Name: "root", Version: "1", Ref: "root-ref"},
			},
			rawEdges: []inventory.RawEdge{
				{Ref: "root-ref", DependsOn: []string{"SPDXRef-A"}},
			},
			want: graph.Resolution{
				Edges: []inventory.DependencyEdge{
					{
						From: inventory.Identity{Name: "root", Version: "1"},
						To:   inventory.Identity{Name: "pkg-a", Version: "1"},
					},
				},
			},
		},
		{
			name: "name fallback",
			components: []*inventory.Component{
				{Name: "root", Version: "1", Ref: "root-ref"},
				{Name: "openssl", Version: "3.0.13"},
			},
			rawEdges: []inventory.RawEdge{
				{Ref: "root-ref", DependsOn: []string{"openssl"}},
			},
			want: graph.Resolution{
				Edges: []inventory.DependencyEdge{
					{
						From: inventory.Identity{Name: "root", Version: "1"},
						To:   inventory.Identity{Name: "openssl", Version: "3.0.13"},
					},
				},
			},
		},
		{
			name: "first declared component wins within one index",
			components: []*inventory.Component{
				{Name: "dup", Version: "1"},
				{Name: "dup", Version: "2"},
				{Name: "root", Version: "1", Ref: "root-ref"},
			},
			rawEdges: []inventory.RawEdge{
				{Ref: "root-ref", DependsOn: []string{"dup"}},
			},
			want: graph.Resolution{
				Edges: []inventory.DependencyEdge{
					{
						From: inventory.Identity{Name: "root", Version: "1"},
						To:   inventory.Identity{Name: "dup", Version: "1"},
					},
				},
			},
		},
		{
			name: "unmatched target becomes a synthetic node",
			components: []*inventory.Component{
				{Name: "a", Version: "1", Ref: "ref-a"},
			},
			rawEdges: []inventory.RawEdge{
				{Ref: "ref-a", DependsOn: []string{"ghost-lib"}},
			},
			want: graph.Resolution{
				Edges: []inventory.DependencyEdge{
					{
						From: inventory.Identity{Name: "a", Version: "1"},
						To:   inventory.Identity{Name: "ghost-lib", Version: "Unknown"},
					},
				},
				Unresolved: []*inventory.Component{
					{Name: "ghost-lib", Version: "Unknown", Type: inventory.TypeUnknown, Unresolved: true},
				},
			},
		},
		{
			name: "unmatched source becomes a synthetic node",
			components: []*inventory.Component{
				{Name: "a", Version: "1", Ref: "ref-a"},
			},
			rawEdges: []inventory.RawEdge{
				{Ref: "ghost-root", DependsOn: []string{"ref-a"}},
			},
			want: graph.Resolution{
				Edges: []inventory.DependencyEdge{
					{
						From: inventory.Identity{Name: "ghost-root", Version: "Unknown"},
						To:   inventory.Identity{Name: "a", Version: "1"},
					},
				},
				Unresolved: []*inventory.Component{
					{Name: "ghost-root", Version: "Unknown", Type: inventory.TypeUnknown, Unresolved: true},
				},
			},
		},
		{
			name: "repeated unknown reference synthesized once",
			components: []*inventory.Component{
				{Name: "a", Version: "1", Ref: "ref-a"},
				{Name: "b", Version: "2", Ref: "ref-b"},
			},
			rawEdges: []inventory.RawEdge{
				{Ref: "ref-a", DependsOn: []string{"ghost"}},
				{Ref: "ref-b", DependsOn: []string{"ghost"}},
			},
			want: graph.Resolution{
				Edges: []inventory.DependencyEdge{
					{
						From: inventory.Identity{Name: "a", Version: "1"},
						To:   inventory.Identity{Name: "ghost", Version: "Unknown"},
					},
					{
						From: inventory.Identity{Name: "b", Version: "2"},
						To:   inventory.Identity{Name: "ghost", Version: "Unknown"},
					},
				},
				Unresolved: []*inventory.Component{
					{Name: "ghost", Version: "Unknown", Type: inventory.TypeUnknown, Unresolved: true},
				},
			},
		},
		{
			name: "empty refs and targets skipped",
			components: []*inventory.Component{
				{Name: "a", Version: "1", Ref: "ref-a"},
			},
			rawEdges: []inventory.RawEdge{
				{Ref: "", DependsOn: []string{"ref-a"}},
				{Ref: "ref-a", DependsOn: []string{""}},
			},
			want: graph.Resolution{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := graph.Resolve(tc.components, tc.rawEdges)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Resolve(%v) returned unexpected diff (-want +got):\n%s", tc.name, diff)
			}
		})
	}
}

func TestResolveFeedsBuild(t *testing.T) {
	// End to end over the resolver and the builder: a@1 depends on b@2
	// both through nesting and through the dependency section, and b@2
	// claims a dependency on a component the document never declares.
	a := &inventory.Component{Name: "a", Version: "1", Ref: "ref-a", Type: inventory.TypeLibrary}
	b := &inventory.Component{Name: "b", Version: "2", Ref: "ref-b", Type: inventory.TypeLibrary}
	inv := inventory.Inventory{
		Components: []*inventory.Component{a, b},
		Edges: []inventory.DependencyEdge{
			{From: a.Identity(), To: b.Identity()},
		},
		RawEdges: []inventory.RawEdge{
			{Ref: "ref-a", DependsOn: []string{"ref-b"}},
			{Ref: "ref-b", DependsOn: []string{"c"}},
		},
	}

	res := graph.Resolve(inv.Components, inv.RawEdges)
	g := graph.Build(inv, res)

	if got := g.NumNodes(); got != 3 {
		t.Errorf("NumNodes() = %d, want 3", got)
	}
	wantEdges := []inventory.DependencyEdge{
		{From: a.Identity(), To: b.Identity()},
		{From: b.Identity(), To: inventory.Identity{Name: "c", Version: "Unknown"}},
	}
	if diff := cmp.Diff(wantEdges, g.Edges()); diff != "" {
		t.Errorf("Edges() returned unexpected diff (-want +got):\n%s", diff)
	}
	if got := g.UnresolvedCount(); got != 1 {
		t.Errorf("UnresolvedCount() = %d, want 1", got)
	}
}
