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

// DependencyEdge is one directed "from depends on to" relation between two
// components, with both endpoints resolved to identities.
type DependencyEdge struct {
	From Identity
	To   Identity
}

// RawEdge is one dependency claim from a document's global dependency
// section. Both the source and the targets are opaque reference strings
// (names, purls or document-local refs) that still need to be resolved
// against the declared components.
type RawEdge struct {
	// Ref is the reference string of the depending component.
	Ref string
	// DependsOn lists the reference strings of the dependencies.
	DependsOn []string
}
