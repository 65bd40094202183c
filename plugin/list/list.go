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

// Package list provides functions for accessing sbomvisor plugins from
// their respective type-specific lists.
package list

import (
	"fmt"

	"github.com/sbomvisor/sbomvisor/enricher"
	el "github.com/sbomvisor/sbomvisor/enricher/enricherlist"
	"github.com/sbomvisor/sbomvisor/normalizer"
	nl "github.com/sbomvisor/sbomvisor/normalizer/list"
	"github.com/sbomvisor/sbomvisor/plugin"
)

// FromCapabilities returns all plugins that can run under the specified
// capabilities (e.g. network access) of the scanning environment.
func FromCapabilities(capabs *plugin.Capabilities) []plugin.Plugin {
	return plugin.FilterByCapabilities(All(), capabs)
}

// FromNames returns a deduplicated list of plugins from a list of names.
// A name can refer to a single plugin or a group like "normalizers".
func FromNames(names []string) ([]plugin.Plugin, error) {
	resultMap := make(map[string]plugin.Plugin)
	for _, name := range names {
		norm, nerr := nl.NormalizersFromName(name)
		enr, eerr := el.EnrichersFromName(name)

		// Report an error if none of the type-specific lists were able to resolve the name.
		if nerr != nil && eerr != nil {
			return nil, fmt.Errorf("unknown plugin %q", name)
		}

		for _, p := range norm {
			resultMap[p.Name()] = p
		}
		for _, p := range enr {
			resultMap[p.Name()] = p
		}
	}

	result := make([]plugin.Plugin, 0, len(resultMap))
	for _, p := range resultMap {
		result = append(result, p)
	}
	return result, nil
}

// FromName returns a single plugin based on its exact name.
func FromName(name string) (plugin.Plugin, error) {
	plugins, err := FromNames([]string{name})
	if err != nil {
		return nil, err
	}
	if len(plugins) != 1 {
		return nil, fmt.Errorf("not an exact name for a plugin: %q", name)
	}
	return plugins[0], nil
}

// All returns all plugins defined in their type-specific list files.
func All() []plugin.Plugin {
	all := []plugin.Plugin{}
	for _, initers := range nl.All {
		for _, initer := range initers {
			all = append(all, initer())
		}
	}
	for _, initers := range el.All {
		for _, initer := range initers {
			all = append(all, initer())
		}
	}
	return all
}

// Normalizers returns the plugins from a list which are Normalizers.
func Normalizers(plugins []plugin.Plugin) []normalizer.Normalizer {
	result := []normalizer.Normalizer{}
	for _, p := range plugins {
		if p, ok := p.(normalizer.Normalizer); ok {
			result = append(result, p)
		}
	}
	return result
}

// Enrichers returns the plugins from a list which are Enrichers.
func Enrichers(plugins []plugin.Plugin) []enricher.Enricher {
	result := []enricher.Enricher{}
	for _, p := range plugins {
		if p, ok := p.(enricher.Enricher); ok {
			result = append(result, p)
		}
	}
	return result
}
