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

package inventory

// UnknownValue is the placeholder stored for component names and versions
// that the source document doesn't declare. Components that genuinely carry
// this string as their name or version collide with the placeholder.
const UnknownValue = "Unknown"

// ComponentType describes the role of a component within the software it
// was declared in.
type ComponentType string

// ComponentType values.
const (
	TypeLibrary     ComponentType = "library"
	TypeApplication ComponentType = "application"
	TypeFramework   ComponentType = "framework"
	TypeUnknown     ComponentType = "unknown"
)

// Identity is the pair that identifies a component across formats and
// documents. Two components with equal name and version are the same node
// no matter where they were declared.
type Identity struct {
	Name    string
	Version string
}

// String returns the identity in name@version form.
func (i Identity) String() string {
	return i.Name + "@" + i.Version
}

// Ancestor is one entry of a component's pedigree, i.e. a previous shape
// of the component such as the upstream package a fork was cut from.
type Ancestor struct {
	Type    ComponentType
	Name    string
	Version string
	PURL    string
}

// Occurrence records where inside the scanned artifact evidence for a
// component was found.
type Occurrence struct {
	// Reference of the document entry the occurrence was attached to.
	Ref string
	// Location of the evidence, e.g. a file path inside the artifact.
	Location string
}

// Component is one software component declared by an SBOM document,
// normalized into the format-independent model. Components are treated as
// immutable once normalization has produced them.
type Component struct {
	// Name of the component, UnknownValue if the document didn't declare one.
	Name string
	// Version of the component, UnknownValue if the document didn't declare one.
	Version string
	// Type of the component. Document types outside the known set map to TypeUnknown.
	Type ComponentType
	// Group or namespace, e.g. a Maven groupId. Optional.
	Group string
	// PURL is the package-url of the component if the document declared one.
	PURL string
	// Ref is the document-local reference of the component, e.g. the
	// CycloneDX bom-ref or the SPDX element ID. Empty for documents that
	// don't use references.
	Ref string
	// CPE identifier, if declared. Optional.
	CPE string
	// Description of the component. Optional.
	Description string
	// Licenses declared for the component, in document order.
	Licenses []string
	// LicenseConcluded is the license the document author concluded after
	// inspection, kept separate from the declared licenses. SPDX only.
	LicenseConcluded string
	// Supplier that provided the component. Optional.
	Supplier string
	// DownloadLocation the component can be fetched from. SPDX only.
	DownloadLocation string
	// FilesAnalyzed reports whether the document author analyzed the
	// component's files. SPDX only.
	FilesAnalyzed bool
	// Cluster is an optional presentation attribute used to group nodes
	// into named views. Empty means unassigned.
	Cluster string
	// SourceFormat is the format tag of the document the component came
	// from, e.g. "cyclonedx" or "spdx".
	SourceFormat string
	// Ancestors lists the component's pedigree, oldest last.
	Ancestors []Ancestor
	// Occurrences lists locations where evidence of the component was found.
	Occurrences []Occurrence
	// Unresolved is set on synthetic components that stand in for
	// dependency references that matched no declared component. Their Name
	// holds the original reference string.
	Unresolved bool
}

// Identity returns the (name, version) pair that keys this component in
// the dependency graph.
func (c *Component) Identity() Identity {
	return Identity{Name: c.Name, Version: c.Version}
}
