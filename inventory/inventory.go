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

// Package inventory stores the format-independent component model that
// sbomvisor normalizes SBOM documents into, along with the vulnerability
// result types attached during enrichment.
package inventory

// Inventory stores the components and dependency claims that normalizing
// a document produced.
type Inventory struct {
	Components []*Component
	// Edges whose endpoints were already known at normalization time,
	// e.g. from components nested inside their parent.
	Edges []DependencyEdge
	// RawEdges holds the document's global dependency section, pending
	// reference resolution.
	RawEdges []RawEdge
}

// Append adds one or more inventories to the current one.
func (i *Inventory) Append(other ...Inventory) {
	for _, o := range other {
		i.Components = append(i.Components, o.Components...)
		i.Edges = append(i.Edges, o.Edges...)
		i.RawEdges = append(i.RawEdges, o.RawEdges...)
	}
}

// IsEmpty returns true if there are no components or edges in this Inventory.
func (i Inventory) IsEmpty() bool {
	return len(i.Components) == 0 && len(i.Edges) == 0 && len(i.RawEdges) == 0
}
