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

// Package enricher provides the interface for enrichment plugins, which
// annotate the dependency graph with information from external sources.
package enricher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sbomvisor/sbomvisor/graph"
	"github.com/sbomvisor/sbomvisor/inventory"
	"github.com/sbomvisor/sbomvisor/plugin"
	"github.com/sbomvisor/sbomvisor/stats"
)

var (
	// ErrNoGraph is returned when enrichment runs before a dependency
	// graph was built.
	ErrNoGraph = errors.New("enrichment requires a dependency graph but none was built")
	// ErrPartialSuccess marks an enrichment that recorded results for
	// some identities but failed for others. The recorded results remain
	// valid.
	ErrPartialSuccess = errors.New("enrichment partially succeeded")
)

// Enricher is the interface for an enrichment plugin.
type Enricher interface {
	plugin.Plugin
	// RequiredPlugins returns a list of Plugins that need to be enabled for this Enricher to run.
	RequiredPlugins() []string
	// Enrich records results for the graph's components in the given
	// table.
	Enrich(ctx context.Context, input *ScanInput, table *inventory.VulnTable) error
}

// Config for running enrichers.
type Config struct {
	Enrichers []Enricher
	Graph     *graph.Graph
	Stats     stats.Collector
}

// ScanInput provides the enricher with the intermediate scan results.
type ScanInput struct {
	// Graph is the dependency graph built from the normalized documents.
	Graph *graph.Graph
}

// Run runs the specified enrichers and returns their statuses. A failing
// enricher never aborts the others; its failure is captured in its
// status.
func Run(ctx context.Context, config *Config, table *inventory.VulnTable) ([]*plugin.Status, error) {
	var statuses []*plugin.Status
	if len(config.Enrichers) == 0 {
		return statuses, nil
	}
	if config.Graph == nil {
		return nil, fmt.Errorf("%w: %d enrichers enabled", ErrNoGraph, len(config.Enrichers))
	}

	input := &ScanInput{Graph: config.Graph}
	for _, e := range config.Enrichers {
		start := time.Now()
		err := e.Enrich(ctx, input, table)
		if config.Stats != nil {
			config.Stats.AfterEnricherRun(e.Name(), time.Since(start), err)
		}
		partial := errors.Is(err, ErrPartialSuccess)
		statuses = append(statuses, plugin.StatusFromErr(e, partial, err))
	}
	return statuses, nil
}
