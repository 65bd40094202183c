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

// Package graph builds and queries the canonical dependency graph:
// components keyed by (name, version) identity with directed dependency
// edges between them. Graphs may contain cycles and self-edges; nothing
// in this package assumes a tree or DAG shape.
package graph

import (
	"cmp"
	"slices"

	"github.com/sbomvisor/sbomvisor/inventory"
	"github.com/sbomvisor/sbomvisor/log"
)

// Graph is a directed dependency graph over component identities.
// Parallel edges between the same pair collapse into one.
type Graph struct {
	nodes map[inventory.Identity]*inventory.Component
	edges map[inventory.Identity]map[inventory.Identity]struct{}
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[inventory.Identity]*inventory.Component),
		edges: make(map[inventory.Identity]map[inventory.Identity]struct{}),
	}
}

// Build constructs a graph from a normalized inventory and the output of
// reference resolution. Every component becomes a node whether or not
// edges point at it.
func Build(inv inventory.Inventory, res Resolution) *Graph {
	g := New()
	for _, c := range inv.Components {
		g.AddComponent(c)
	}
	for _, c := range res.Unresolved {
		g.AddComponent(c)
	}
	for _, e := range inv.Edges {
		g.AddEdge(e.From, e.To)
	}
	for _, e := range res.Edges {
		g.AddEdge(e.From, e.To)
	}
	return g
}

// AddComponent adds a component as a node. The first component seen for
// an identity wins; later duplicates are dropped.
func (g *Graph) AddComponent(c *inventory.Component) {
	id := c.Identity()
	if _, ok := g.nodes[id]; ok {
		log.Debugf("Duplicate component for identity %s, keeping the first", id)
		return
	}
	g.nodes[id] = c
}

// AddEdge records a directed dependency. Endpoints that aren't nodes yet
// get a synthetic unresolved node, so an edge can never dangle. Self
// edges are permitted, duplicates collapse.
func (g *Graph) AddEdge(from, to inventory.Identity) {
	g.ensureNode(from)
	g.ensureNode(to)
	set, ok := g.edges[from]
	if !ok {
		set = make(map[inventory.Identity]struct{})
		g.edges[from] = set
	}
	set[to] = struct{}{}
}

func (g *Graph) ensureNode(id inventory.Identity) {
	if _, ok := g.nodes[id]; ok {
		return
	}
	g.nodes[id] = &inventory.Component{
		Name:       id.Name,
		Version:    id.Version,
		Type:       inventory.TypeUnknown,
		Unresolved: true,
	}
}

// Component returns the node for an identity.
func (g *Graph) Component(id inventory.Identity) (*inventory.Component, bool) {
	c, ok := g.nodes[id]
	return c, ok
}

// HasEdge reports whether the graph contains the given directed edge.
func (g *Graph) HasEdge(from, to inventory.Identity) bool {
	_, ok := g.edges[from][to]
	return ok
}

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of distinct directed edges.
func (g *Graph) NumEdges() int {
	n := 0
	for _, set := range g.edges {
		n += len(set)
	}
	return n
}

// UnresolvedCount returns the number of synthetic nodes standing in for
// references that matched no declared component.
func (g *Graph) UnresolvedCount() int {
	n := 0
	for _, c := range g.nodes {
		if c.Unresolved {
			n++
		}
	}
	return n
}

// Identities returns all node identities sorted by name then version.
func (g *Graph) Identities() []inventory.Identity {
	ids := make([]inventory.Identity, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareIdentities)
	return ids
}

// Components returns all nodes sorted by identity.
func (g *Graph) Components() []*inventory.Component {
	comps := make([]*inventory.Component, 0, len(g.nodes))
	for _, id := range g.Identities() {
		comps = append(comps, g.nodes[id])
	}
	return comps
}

// Neighbors returns the identities the given node depends on, sorted.
func (g *Graph) Neighbors(id inventory.Identity) []inventory.Identity {
	set := g.edges[id]
	out := make([]inventory.Identity, 0, len(set))
	for to := range set {
		out = append(out, to)
	}
	slices.SortFunc(out, compareIdentities)
	return out
}

// Edges returns all directed edges sorted by source then target.
func (g *Graph) Edges() []inventory.DependencyEdge {
	out := make([]inventory.DependencyEdge, 0, g.NumEdges())
	for from, set := range g.edges {
		for to := range set {
			out = append(out, inventory.DependencyEdge{From: from, To: to})
		}
	}
	slices.SortFunc(out, func(a, b inventory.DependencyEdge) int {
		if c := compareIdentities(a.From, b.From); c != 0 {
			return c
		}
		return compareIdentities(a.To, b.To)
	})
	return out
}

// Walk visits the nodes reachable from the given identity in depth-first
// order, following dependency edges. Each node is visited once, so the
// walk terminates on cyclic graphs. Returning false from visit stops the
// walk early.
func (g *Graph) Walk(from inventory.Identity, visit func(id inventory.Identity, c *inventory.Component) bool) {
	if _, ok := g.nodes[from]; !ok {
		return
	}
	visited := make(map[inventory.Identity]struct{})
	stack := []inventory.Identity{from}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		if !visit(id, g.nodes[id]) {
			return
		}
		// Reverse order keeps the traversal order stable: the smallest
		// neighbor is expanded first.
		neighbors := g.Neighbors(id)
		for i := len(neighbors) - 1; i >= 0; i-- {
			if _, seen := visited[neighbors[i]]; !seen {
				stack = append(stack, neighbors[i])
			}
		}
	}
}

func compareIdentities(a, b inventory.Identity) int {
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.Version, b.Version)
}
