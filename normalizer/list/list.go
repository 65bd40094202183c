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

// Package list provides a list of format normalizer plugins.
package list

import (
	"fmt"
	"maps"
	"slices"

	"github.com/sbomvisor/sbomvisor/normalizer"
	"github.com/sbomvisor/sbomvisor/normalizer/cdx"
	"github.com/sbomvisor/sbomvisor/normalizer/spdx"
)

// InitFn is the normalizer initializer function.
type InitFn func() normalizer.Normalizer

// InitMap is a map of normalizer names to their initers.
type InitMap map[string][]InitFn

// SBOM format normalizers.
var SBOM = InitMap{cdx.Name: {cdx.New}, spdx.Name: {spdx.New}}

// Default normalizers that are recommended to be enabled.
var Default = InitMap{cdx.Name: {cdx.New}, spdx.Name: {spdx.New}}

// All normalizers.
var All = concat(
	SBOM,
)

var normalizerNames = concat(All, InitMap{
	"sbom":        vals(SBOM),
	"normalizers": vals(All),
	"default":     vals(Default),
	"all":         vals(All),
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

// NormalizersFromName returns a list of normalizers from a name, which can
// be either the name of a normalizer or a group of them.
func NormalizersFromName(name string) ([]normalizer.Normalizer, error) {
	if initers, ok := normalizerNames[name]; ok {
		result := []normalizer.Normalizer{}
		for _, initer := range initers {
			result = append(result, initer())
		}
		return result, nil
	}
	return nil, fmt.Errorf("unknown normalizer %q", name)
}
