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

// Package cdx normalizes CycloneDX SBOM documents into the canonical
// component model.
package cdx

import (
	"context"
	"errors"
	"slices"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/sbomvisor/sbomvisor/document"
	"github.com/sbomvisor/sbomvisor/inventory"
	"github.com/sbomvisor/sbomvisor/log"
	"github.com/sbomvisor/sbomvisor/normalizer"
	"github.com/sbomvisor/sbomvisor/plugin"
	"github.com/sbomvisor/sbomvisor/purl"
)

const (
	// Name is the unique name of this normalizer.
	Name = "normalizer/cdx"

	// ClusterProperty is the CycloneDX property that assigns a component
	// to a named cluster in rendered views.
	ClusterProperty = "sbomvisor:cluster"
)

var errNoPayload = errors.New("document carries no CycloneDX payload")

// Normalizer converts CycloneDX documents into components and edges.
type Normalizer struct{}

// New returns a new instance of the normalizer.
func New() normalizer.Normalizer { return &Normalizer{} }

// Name of the normalizer.
func (n Normalizer) Name() string { return Name }

// Version of the normalizer.
func (n Normalizer) Version() int { return 0 }

// Requirements of the normalizer.
func (n Normalizer) Requirements() *plugin.Capabilities { return &plugin.Capabilities{} }

// Format returns the document format tag this normalizer understands.
func (n Normalizer) Format() string { return document.FormatCycloneDX }

// Normalize converts the document's components into the canonical model.
// Components nested inside other components become their own entries plus
// a parent-to-child dependency edge. The document's global dependency
// section is carried through as raw reference claims for the resolver.
func (n Normalizer) Normalize(_ context.Context, doc *document.Document) (inventory.Inventory, error) {
	inv := inventory.Inventory{}
	if doc == nil || doc.CDX == nil {
		return inv, errNoPayload
	}
	bom := doc.CDX

	// The metadata component is the subject the BOM describes. It takes
	// part in the graph like any declared component.
	var roots []cyclonedx.Component
	if bom.Metadata != nil && bom.Metadata.Component != nil {
		roots = append(roots, *bom.Metadata.Component)
	}
	if bom.Components != nil {
		roots = append(roots, *bom.Components...)
	}
	walkComponents(roots, &inv)

	if bom.Dependencies != nil {
		for _, dep := range *bom.Dependencies {
			if dep.Ref == "" || dep.Dependencies == nil || len(*dep.Dependencies) == 0 {
				continue
			}
			inv.RawEdges = append(inv.RawEdges, inventory.RawEdge{
				Ref:       dep.Ref,
				DependsOn: slices.Clone(*dep.Dependencies),
			})
		}
	}

	return inv, nil
}

type workItem struct {
	comp   *cyclonedx.Component
	parent *inventory.Identity
}

// walkComponents visits the component forest with an explicit worklist.
// Children are pushed in reverse so components come out in document
// order regardless of nesting depth.
func walkComponents(roots []cyclonedx.Component, inv *inventory.Inventory) {
	stack := make([]workItem, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, workItem{comp: &roots[i]})
	}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		comp := convertComponent(item.comp)
		inv.Components = append(inv.Components, comp)
		id := comp.Identity()
		if item.parent != nil {
			inv.Edges = append(inv.Edges, inventory.DependencyEdge{From: *item.parent, To: id})
		}

		if item.comp.Components == nil {
			continue
		}
		children := *item.comp.Components
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, workItem{comp: &children[i], parent: &id})
		}
	}
}

func convertComponent(c *cyclonedx.Component) *inventory.Component {
	comp := &inventory.Component{
		Name:         c.Name,
		Version:      c.Version,
		Type:         convertType(c.Type),
		Group:        c.Group,
		PURL:         c.PackageURL,
		Ref:          c.BOMRef,
		CPE:          c.CPE,
		Description:  c.Description,
		SourceFormat: document.FormatCycloneDX,
	}
	if c.Supplier != nil {
		comp.Supplier = c.Supplier.Name
	}

	if c.PackageURL != "" {
		p, err := purl.FromString(c.PackageURL)
		if err != nil {
			log.Warnf("Invalid PURL %q for component ref %q", c.PackageURL, c.BOMRef)
		} else {
			if comp.Name == "" {
				comp.Name = p.Name
			}
			if comp.Version == "" {
				comp.Version = p.Version
			}
			if comp.Group == "" {
				comp.Group = p.Namespace
			}
		}
	}
	if comp.Name == "" {
		comp.Name = inventory.UnknownValue
	}
	if comp.Version == "" {
		comp.Version = inventory.UnknownValue
	}

	if c.Licenses != nil {
		for _, choice := range *c.Licenses {
			switch {
			case choice.Expression != "":
				comp.Licenses = append(comp.Licenses, choice.Expression)
			case choice.License != nil && choice.License.ID != "":
				comp.Licenses = append(comp.Licenses, choice.License.ID)
			case choice.License != nil && choice.License.Name != "":
				comp.Licenses = append(comp.Licenses, choice.License.Name)
			}
		}
	}

	if c.Pedigree != nil && c.Pedigree.Ancestors != nil {
		for _, anc := range *c.Pedigree.Ancestors {
			comp.Ancestors = append(comp.Ancestors, inventory.Ancestor{
				Type:    convertType(anc.Type),
				Name:    anc.Name,
				Version: anc.Version,
				PURL:    anc.PackageURL,
			})
		}
	}

	if c.Evidence != nil && c.Evidence.Occurrences != nil {
		for _, occ := range *c.Evidence.Occurrences {
			if occ.Location == "" {
				continue
			}
			comp.Occurrences = append(comp.Occurrences, inventory.Occurrence{
				Ref:      occ.BOMRef,
				Location: occ.Location,
			})
		}
	}

	if c.Properties != nil {
		for _, prop := range *c.Properties {
			if prop.Name == ClusterProperty || prop.Name == "cluster" {
				comp.Cluster = prop.Value
			}
		}
	}

	return comp
}

func convertType(t cyclonedx.ComponentType) inventory.ComponentType {
	switch t {
	case cyclonedx.ComponentTypeLibrary:
		return inventory.TypeLibrary
	case cyclonedx.ComponentTypeApplication:
		return inventory.TypeApplication
	case cyclonedx.ComponentTypeFramework:
		return inventory.TypeFramework
	default:
		return inventory.TypeUnknown
	}
}
