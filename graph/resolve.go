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
	"github.com/sbomvisor/sbomvisor/inventory"
	"github.com/sbomvisor/sbomvisor/log"
)

// Resolution is the outcome of matching raw dependency claims against the
// declared components of a document.
type Resolution struct {
	// Edges hold the dependency edges whose endpoints have been resolved
	// to component identities.
	Edges []inventory.DependencyEdge
	// Unresolved holds one synthetic component per reference that matched
	// no declared component. Synthetic components keep the reference
	// string as their name and carry an Unknown version.
	Unresolved []*inventory.Component
}

// resolver indexes declared components by the keys a raw reference may
// use to point at them.
type resolver struct {
	byPURL map[string]inventory.Identity
	byRef  map[string]inventory.Identity
	byName map[string]inventory.Identity
	// synthetic nodes created so far, keyed by the raw reference string.
	synthetic  map[string]inventory.Identity
	resolution *Resolution
}

// Resolve matches the opaque reference strings of raw dependency claims
// against declared components. Matching precedence is purl, then
// document-local ref, then component name; within one index the first
// declared component wins. References that match nothing produce a
// synthetic unresolved component instead of an error, so a malformed
// dependency section can never abort a scan.
func Resolve(components []*inventory.Component, rawEdges []inventory.RawEdge) Resolution {
	r := &resolver{
		byPURL:     make(map[string]inventory.Identity),
		byRef:      make(map[string]inventory.Identity),
		byName:     make(map[string]inventory.Identity),
		synthetic:  make(map[string]inventory.Identity),
		resolution: &Resolution{},
	}
	for _, c := range components {
		r.index(c)
	}
	for _, raw := range rawEdges {
		if raw.Ref == "" {
			continue
		}
		from := r.resolveRef(raw.Ref)
		for _, target := range raw.DependsOn {
			if target == "" {
				continue
			}
			to := r.resolveRef(target)
			r.resolution.Edges = append(r.resolution.Edges, inventory.DependencyEdge{From: from, To: to})
		}
	}
	return *r.resolution
}

func (r *resolver) index(c *inventory.Component) {
	id := c.Identity()
	if c.PURL != "" {
		addFirst(r.byPURL, c.PURL, id)
	}
	if c.Ref != "" {
		addFirst(r.byRef, c.Ref, id)
	}
	addFirst(r.byName, c.Name, id)
}

// addFirst records the identity for a key unless an earlier component
// already claimed it.
func addFirst(m map[string]inventory.Identity, key string, id inventory.Identity) {
	if prev, ok := m[key]; ok {
		if prev != id {
			log.Debugf("Key %q already maps to %s, ignoring %s", key, prev, id)
		}
		return
	}
	m[key] = id
}

func (r *resolver) resolveRef(ref string) inventory.Identity {
	if id, ok := r.byPURL[ref]; ok {
		return id
	}
	if id, ok := r.byRef[ref]; ok {
		return id
	}
	if id, ok := r.byName[ref]; ok {
		return id
	}
	if id, ok := r.synthetic[ref]; ok {
		return id
	}
	c := &inventory.Component{
		Name:       ref,
		Version:    inventory.UnknownValue,
		Type:       inventory.TypeUnknown,
		Unresolved: true,
	}
	id := c.Identity()
	r.synthetic[ref] = id
	r.resolution.Unresolved = append(r.resolution.Unresolved, c)
	log.Warnf("Reference %q matches no declared component, adding an unresolved node", ref)
	return id
}
