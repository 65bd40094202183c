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

// Package enricherlist provides methods to initialize enrichers from
// attributes like names or capabilities.
package enricherlist

import (
	"fmt"
	"maps"
	"slices"

	"github.com/sbomvisor/sbomvisor/enricher"
	"github.com/sbomvisor/sbomvisor/enricher/vulnlookup"
)

// InitFn is the enricher initializer function.
type InitFn func() enricher.Enricher

// InitMap is a map of enricher names to their initers.
type InitMap map[string][]InitFn

// VulnMatching enrichers.
var VulnMatching = InitMap{
	vulnlookup.Name: {vulnlookup.NewDefault},
}

// Default enrichers that are recommended to be enabled.
var Default = InitMap{
	vulnlookup.Name: {vulnlookup.NewDefault},
}

// All enrichers.
var All = concat(
	VulnMatching,
)

var enricherNames = concat(All, InitMap{
	"vulnmatching": vals(VulnMatching),
	"enrichers":    vals(All),
	"default":      vals(Default),
	"all":          vals(All),
})

func concat(initMaps ...InitMap) InitMap {
	result := InitMap{}
	for _, m := range initMaps {
		maps.Copy(result, m)
	}
	return result
}

func vals(initMap InitMap) []InitFn {
	return slices.Concat(slices.Collect(maps.Values(initMap))...)
}

// EnrichersFromName returns a list of enrichers from a name, which can be
// either the name of an enricher or a group of them.
func EnrichersFromName(name string) ([]enricher.Enricher, error) {
	if initers, ok := enricherNames[name]; ok {
		result := []enricher.Enricher{}
		for _, initer := range initers {
			result = append(result, initer())
		}
		return result, nil
	}
	return nil, fmt.Errorf("unknown enricher %q", name)
}
