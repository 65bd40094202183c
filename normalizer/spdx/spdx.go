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

// Package spdx normalizes SPDX SBOM documents into the canonical
// component model.
package spdx

import (
	"context"
	"errors"
	"strings"

	"github.com/sbomvisor/sbomvisor/document"
	"github.com/sbomvisor/sbomvisor/inventory"
	"github.com/sbomvisor/sbomvisor/log"
	"github.com/sbomvisor/sbomvisor/normalizer"
	"github.com/sbomvisor/sbomvisor/plugin"
	"github.com/sbomvisor/sbomvisor/purl"
	"github.com/spdx/tools-golang/spdx/v2/common"
	"github.com/spdx/tools-golang/spdx/v2/v2_3"
)

const (
	// Name is the unique name of this normalizer.
	Name = "normalizer/spdx"
)

var errNoPayload = errors.New("document carries no SPDX payload")

// noAssertion is the SPDX placeholder for "the document author makes no
// claim". It carries no information, so it's dropped during conversion.
const noAssertion = "NOASSERTION"

// Normalizer converts SPDX documents into components and edges.
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
func (n Normalizer) Format() string { return document.FormatSPDX }

// Normalize converts the document's packages into the canonical model.
// SPDX carries no nested component structure; dependency claims arrive
// through DEPENDS_ON and DEPENDENCY_OF relationships, which are carried
// through as raw reference claims keyed by element ID.
func (n Normalizer) Normalize(_ context.Context, doc *document.Document) (inventory.Inventory, error) {
	inv := inventory.Inventory{}
	if doc == nil || doc.SPDX == nil {
		return inv, errNoPayload
	}
	sd := doc.SPDX

	for _, pkg := range sd.Packages {
		if pkg == nil {
			continue
		}
		inv.Components = append(inv.Components, convertPackage(pkg))
	}

	for _, rel := range sd.Relationships {
		if rel == nil {
			continue
		}
		var from, to common.DocElementID
		switch strings.ToUpper(rel.Relationship) {
		case "DEPENDS_ON":
			from, to = rel.RefA, rel.RefB
		case "DEPENDENCY_OF":
			from, to = rel.RefB, rel.RefA
		default:
			// Structural relationships like DESCRIBES and CONTAINS don't
			// express dependencies.
			continue
		}
		fromRef, toRef := refString(from), refString(to)
		if fromRef == "" || toRef == "" {
			continue
		}
		inv.RawEdges = append(inv.RawEdges, inventory.RawEdge{
			Ref:       fromRef,
			DependsOn: []string{toRef},
		})
	}

	return inv, nil
}

// refString renders a relationship endpoint as an opaque reference
// string, or "" for endpoints that carry no claim (NOASSERTION, NONE).
func refString(r common.DocElementID) string {
	if r.SpecialID != "" {
		return ""
	}
	if r.DocumentRefID != "" {
		return r.DocumentRefID + ":" + string(r.ElementRefID)
	}
	return string(r.ElementRefID)
}

func convertPackage(pkg *v2_3.Package) *inventory.Component {
	comp := &inventory.Component{
		Name:             pkg.PackageName,
		Version:          pkg.PackageVersion,
		Type:             inventory.TypeUnknown,
		Ref:              string(pkg.PackageSPDXIdentifier),
		Description:      pkg.PackageDescription,
		LicenseConcluded: dropNoAssertion(pkg.PackageLicenseConcluded),
		DownloadLocation: dropNoAssertion(pkg.PackageDownloadLocation),
		FilesAnalyzed:    pkg.FilesAnalyzed,
		SourceFormat:     document.FormatSPDX,
	}
	if pkg.PackageSupplier != nil {
		comp.Supplier = dropNoAssertion(pkg.PackageSupplier.Supplier)
	}
	if declared := dropNoAssertion(pkg.PackageLicenseDeclared); declared != "" {
		comp.Licenses = append(comp.Licenses, declared)
	}

	for _, extRef := range pkg.PackageExternalReferences {
		if extRef == nil {
			continue
		}
		switch extRef.RefType {
		case "purl", "http://spdx.org/rdf/references/purl":
			if comp.PURL != "" {
				log.Warnf("Multiple PURLs found for same package: %q and %q", comp.PURL, extRef.Locator)
			}
			comp.PURL = extRef.Locator
			p, err := purl.FromString(extRef.Locator)
			if err != nil {
				log.Warnf("Invalid PURL %q for package %q", extRef.Locator, pkg.PackageName)
				continue
			}
			if comp.Name == "" {
				comp.Name = p.Name
			}
			if comp.Version == "" {
				comp.Version = p.Version
			}
			if comp.Group == "" {
				comp.Group = p.Namespace
			}
		case "cpe23Type", "http://spdx.org/rdf/references/cpe23Type":
			comp.CPE = extRef.Locator
		}
	}

	if comp.Name == "" {
		comp.Name = inventory.UnknownValue
	}
	if comp.Version == "" {
		comp.Version = inventory.UnknownValue
	}
	return comp
}

func dropNoAssertion(v string) string {
	if v == noAssertion || v == "NONE" {
		return ""
	}
	return v
}
