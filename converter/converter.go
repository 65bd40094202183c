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

// Package converter provides utility functions for converting sbomvisor's
// scan results to standardized output formats.
package converter

import (
	"time"

	"bitbucket.org/creachadair/stringset"
	"github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"
	sbomvisor "github.com/sbomvisor/sbomvisor"
	"github.com/sbomvisor/sbomvisor/inventory"
	"github.com/sbomvisor/sbomvisor/normalizer/cdx"
	"github.com/thoas/go-funk"
)

// CDXConfig describes custom settings that should be applied to the generated CDX file.
type CDXConfig struct {
	ComponentName    string
	ComponentVersion string
	Authors          []string
}

// ToCDX converts the scan results into a CycloneDX document. The graph is
// the source of truth: every node becomes a component keyed by its
// name@version identity, edges become the dependency section and recorded
// findings become the vulnerability section.
func ToCDX(r *sbomvisor.ScanResult, c CDXConfig) *cyclonedx.BOM {
	bom := cyclonedx.NewBOM()
	bom.SerialNumber = "urn:uuid:" + uuid.New().String()
	bom.Metadata = &cyclonedx.Metadata{
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
		Component: &cyclonedx.Component{
			Name:    c.ComponentName,
			Version: c.ComponentVersion,
			BOMRef:  uuid.New().String(),
		},
		Tools: &cyclonedx.ToolsChoice{
			Components: &[]cyclonedx.Component{
				{
					Type: cyclonedx.ComponentTypeApplication,
					Name: "sbomvisor",
					ExternalReferences: &[]cyclonedx.ExternalReference{
						{
							URL:  "https://github.com/sbomvisor/sbomvisor",
							Type: cyclonedx.ERTypeWebsite,
						},
					},
				},
			},
		},
	}
	if len(c.Authors) > 0 {
		authors := make([]cyclonedx.OrganizationalContact, 0, len(c.Authors))
		for _, author := range c.Authors {
			authors = append(authors, cyclonedx.OrganizationalContact{
				Name: author,
			})
		}
		bom.Metadata.Authors = &authors
	}

	if r.Graph == nil {
		return bom
	}

	comps := make([]cyclonedx.Component, 0, r.Graph.NumNodes())
	for _, comp := range r.Graph.Components() {
		pkg := cyclonedx.Component{
			BOMRef:     comp.Identity().String(),
			Type:       toCDXType(comp.Type),
			Name:       comp.Name,
			Version:    comp.Version,
			Group:      comp.Group,
			PackageURL: comp.PURL,
			CPE:        comp.CPE,
			Licenses:   toCDXLicenses(comp.Licenses),
		}
		if comp.Cluster != "" {
			pkg.Properties = &[]cyclonedx.Property{
				{Name: cdx.ClusterProperty, Value: comp.Cluster},
			}
		}
		if len(comp.Occurrences) > 0 {
			occ := make([]cyclonedx.EvidenceOccurrence, 0, len(comp.Occurrences))
			for _, o := range comp.Occurrences {
				occ = append(occ, cyclonedx.EvidenceOccurrence{
					Location: o.Location,
				})
			}
			pkg.Evidence = &cyclonedx.Evidence{
				Occurrences: &occ,
			}
		}
		comps = append(comps, pkg)
	}
	bom.Components = &comps

	// The edge list is sorted by source, so consecutive edges with the
	// same source fold into one dependency entry.
	var deps []cyclonedx.Dependency
	for _, e := range r.Graph.Edges() {
		ref := e.From.String()
		if len(deps) == 0 || deps[len(deps)-1].Ref != ref {
			deps = append(deps, cyclonedx.Dependency{Ref: ref, Dependencies: &[]string{}})
		}
		d := deps[len(deps)-1].Dependencies
		*d = append(*d, e.To.String())
	}
	if len(deps) > 0 {
		bom.Dependencies = &deps
	}

	if vulns := toCDXVulns(r.Vulns); len(vulns) > 0 {
		bom.Vulnerabilities = &vulns
	}

	return bom
}

func toCDXVulns(table *inventory.VulnTable) []cyclonedx.Vulnerability {
	if table == nil {
		return nil
	}
	var vulns []cyclonedx.Vulnerability
	for _, id := range table.Identities() {
		res, ok := table.Get(id)
		if !ok || res.Status != inventory.VulnStatusFindings {
			continue
		}
		for _, f := range res.Findings {
			v := cyclonedx.Vulnerability{
				ID:          f.ID,
				Description: f.Summary,
				Affects:     &[]cyclonedx.Affects{{Ref: id.String()}},
			}
			if f.CVSS != "" {
				v.Ratings = &[]cyclonedx.VulnerabilityRating{
					{
						Score:    &f.Score,
						Severity: toCDXSeverity(f.Severity),
						Vector:   f.CVSS,
					},
				}
			}
			vulns = append(vulns, v)
		}
	}
	return vulns
}

// toCDXLicenses deduplicates the declared licenses into a CycloneDX
// license list. Duplicates are common when a component was declared by
// several documents.
func toCDXLicenses(licenses []string) *cyclonedx.Licenses {
	set := stringset.New(licenses...)
	if set.Empty() {
		return nil
	}
	choices := funk.Map(set.Elements(), func(l string) cyclonedx.LicenseChoice {
		return cyclonedx.LicenseChoice{License: &cyclonedx.License{Name: l}}
	}).([]cyclonedx.LicenseChoice)
	result := cyclonedx.Licenses(choices)
	return &result
}

func toCDXType(t inventory.ComponentType) cyclonedx.ComponentType {
	switch t {
	case inventory.TypeApplication:
		return cyclonedx.ComponentTypeApplication
	case inventory.TypeFramework:
		return cyclonedx.ComponentTypeFramework
	default:
		return cyclonedx.ComponentTypeLibrary
	}
}

func toCDXSeverity(rating string) cyclonedx.Severity {
	switch rating {
	case "CRITICAL":
		return cyclonedx.SeverityCritical
	case "HIGH":
		return cyclonedx.SeverityHigh
	case "MEDIUM":
		return cyclonedx.SeverityMedium
	case "LOW":
		return cyclonedx.SeverityLow
	case "NONE":
		return cyclonedx.SeverityNone
	default:
		return cyclonedx.SeverityUnknown
	}
}
