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

package graph

import (
	"cmp"
	"fmt"
	"os"
	"slices"

	"github.com/gobwas/glob"
	"github.com/sbomvisor/sbomvisor/inventory"
	"gopkg.in/yaml.v3"
)

// DefaultCluster is the cluster that receives components with no explicit
// assignment and no matching rule.
const DefaultCluster = "default"

// ClusterRule assigns components whose purl or name matches a glob
// pattern to a named cluster. Rules apply in order, first match wins.
type ClusterRule struct {
	Pattern string `yaml:"match"`
	Cluster string `yaml:"cluster"`

	compiled glob.Glob
}

// NewClusterRule compiles a single rule.
func NewClusterRule(pattern, cluster string) (ClusterRule, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return ClusterRule{}, fmt.Errorf("compiling cluster pattern %q: %w", pattern, err)
	}
	return ClusterRule{Pattern: pattern, Cluster: cluster, compiled: g}, nil
}

// Matches reports whether the rule applies to the component. The pattern
// is tried against the purl first, then the plain name.
func (r *ClusterRule) Matches(c *inventory.Component) bool {
	if r.compiled == nil {
		return false
	}
	if c.PURL != "" && r.compiled.Match(c.PURL) {
		return true
	}
	return r.compiled.Match(c.Name)
}

// LoadClusterRules reads cluster rules from a YAML file of the form
//
//	rules:
//	  - match: "pkg:npm/*"
//	    cluster: frontend
func LoadClusterRules(path string) ([]ClusterRule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var file struct {
		Rules []ClusterRule `yaml:"rules"`
	}
	if err := yaml.NewDecoder(f).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding cluster rules %q: %w", path, err)
	}
	for i := range file.Rules {
		file.Rules[i], err = NewClusterRule(file.Rules[i].Pattern, file.Rules[i].Cluster)
		if err != nil {
			return nil, err
		}
	}
	return file.Rules, nil
}

// Cluster is one named group of the projection. Nodes are sorted by
// identity and Edges by source then target, so output is deterministic.
type Cluster struct {
	Name  string
	Nodes []*inventory.Component
	Edges []inventory.DependencyEdge
}

// ClusterView is a projection of a graph into disjoint clusters. Edges
// whose endpoints live in different clusters are kept in CrossEdges
// rather than dropped, so the union of all cluster edges and CrossEdges
// is exactly the graph's edge set.
type ClusterView struct {
	Clusters   []*Cluster
	CrossEdges []inventory.DependencyEdge
}

// Cluster returns the named cluster, or nil.
func (v *ClusterView) Cluster(name string) *Cluster {
	for _, c := range v.Clusters {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Project assigns every node of the graph to exactly one cluster. A
// component's own cluster attribute takes precedence over the rules;
// components matching nothing land in the default cluster.
func Project(g *Graph, rules []ClusterRule) *ClusterView {
	view := &ClusterView{}
	assignment := make(map[inventory.Identity]string)
	clusters := make(map[string]*Cluster)

	for _, id := range g.Identities() {
		c := g.nodes[id]
		name := clusterFor(c, rules)
		assignment[id] = name
		cl, ok := clusters[name]
		if !ok {
			cl = &Cluster{Name: name}
			clusters[name] = cl
			view.Clusters = append(view.Clusters, cl)
		}
		cl.Nodes = append(cl.Nodes, c)
	}

	for _, e := range g.Edges() {
		if assignment[e.From] == assignment[e.To] {
			cl := clusters[assignment[e.From]]
			cl.Edges = append(cl.Edges, e)
		} else {
			view.CrossEdges = append(view.CrossEdges, e)
		}
	}

	slices.SortFunc(view.Clusters, func(a, b *Cluster) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return view
}

func clusterFor(c *inventory.Component, rules []ClusterRule) string {
	if c.Cluster != "" {
		return c.Cluster
	}
	for i := range rules {
		if rules[i].Matches(c) {
			return rules[i].Cluster
		}
	}
	return DefaultCluster
}
