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

package converter

import (
	"github.com/emicklei/dot"
	"github.com/sbomvisor/sbomvisor/graph"
	"github.com/sbomvisor/sbomvisor/inventory"
)

// ToDOT renders the cluster view in Graphviz DOT format. Every cluster
// becomes a labeled subgraph holding its nodes and intra-cluster edges;
// cross-cluster edges sit at the top level. Unresolved nodes are drawn
// dashed and red so broken references stand out in the diagram.
func ToDOT(view *graph.ClusterView) string {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "LR")
	if view == nil {
		return g.String()
	}

	nodes := map[inventory.Identity]dot.Node{}
	for _, cluster := range view.Clusters {
		sub := g.Subgraph(cluster.Name, dot.ClusterOption{})
		sub.Attr("color", "lightgrey")
		for _, c := range cluster.Nodes {
			n := sub.Node(c.Identity().String()).Label(c.Name + "\n" + c.Version)
			if c.Unresolved {
				n.Attr("style", "dashed").Attr("color", "red")
			}
			nodes[c.Identity()] = n
		}
		for _, e := range cluster.Edges {
			sub.Edge(nodes[e.From], nodes[e.To])
		}
	}
	for _, e := range view.CrossEdges {
		g.Edge(nodes[e.From], nodes[e.To])
	}
	return g.String()
}
