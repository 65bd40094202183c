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

// Package sbomvisor provides an interface for turning SBOM documents into a
// queryable dependency graph and enriching it with vulnerability data.
package sbomvisor

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/multierr"

	"github.com/sbomvisor/sbomvisor/document"
	"github.com/sbomvisor/sbomvisor/enricher"
	"github.com/sbomvisor/sbomvisor/graph"
	"github.com/sbomvisor/sbomvisor/inventory"
	"github.com/sbomvisor/sbomvisor/normalizer"
	"github.com/sbomvisor/sbomvisor/plugin"
	pl "github.com/sbomvisor/sbomvisor/plugin/list"
	"github.com/sbomvisor/sbomvisor/stats"
	"github.com/sbomvisor/sbomvisor/version"
)

// ErrNoDocument is returned when Scan is called without a document to scan.
var ErrNoDocument = errors.New("no SBOM document provided")

// Scanner is the main entry point of the SBOM scanner.
type Scanner struct{}

// New creates a new Scanner instance.
func New() *Scanner { return &Scanner{} }

// ScanConfig stores the config settings of a scan run such as the plugins to
// use and the document to scan.
type ScanConfig struct {
	// Plugins are the normalizers and enrichers enabled for this scan.
	Plugins []plugin.Plugin
	// Capabilities that the scanning environment satisfies, e.g. network
	// access. Plugins whose requirements exceed them fail validation.
	Capabilities *plugin.Capabilities
	// Document is the parsed SBOM document to scan.
	Document *document.Document
	// ClusterRules assign graph nodes to named clusters. Nodes that match
	// no rule end up in the default cluster.
	ClusterRules []graph.ClusterRule
	Stats        stats.Collector
	// ExplicitPlugins is true if all plugins were explicitly specified,
	// i.e. enabling a plugin's dependencies that are missing from the
	// config should cause an error.
	ExplicitPlugins bool
}

// EnableRequiredPlugins adds those plugins to the config that are required
// by the explicitly enabled plugins, e.g. a normalizer an enricher needs to
// run on the results of.
func (cfg *ScanConfig) EnableRequiredPlugins() error {
	enabledPlugins := make(map[string]bool, len(cfg.Plugins))
	for _, p := range cfg.Plugins {
		enabledPlugins[p.Name()] = true
	}

	for _, p := range cfg.Plugins {
		e, ok := p.(enricher.Enricher)
		if !ok {
			continue
		}
		for _, name := range e.RequiredPlugins() {
			if enabledPlugins[name] {
				continue
			}
			if cfg.ExplicitPlugins {
				return fmt.Errorf("enricher %q requires plugin %q to be enabled", e.Name(), name)
			}
			p, err := pl.FromName(name)
			if err != nil {
				return err
			}
			cfg.Plugins = append(cfg.Plugins, p)
			enabledPlugins[name] = true
		}
	}
	return nil
}

// ValidatePluginRequirements checks that the scanning environment's
// capabilities satisfy the requirements of all enabled plugins.
func (cfg *ScanConfig) ValidatePluginRequirements() error {
	errs := []error{}
	for _, p := range cfg.Plugins {
		if err := plugin.ValidateRequirements(p, cfg.Capabilities); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ScanResult stores the results of a scan incl. scan status, the dependency
// graph and the vulnerability lookup results.
type ScanResult struct {
	Version   string
	StartTime time.Time
	EndTime   time.Time
	// Status of the overall scan.
	Status *plugin.ScanStatus
	// Status and versions of the plugins that ran.
	PluginStatus []*plugin.Status
	// Inventory as reported by the normalizers, before graph assembly.
	Inventory inventory.Inventory
	// Graph is the deduplicated dependency graph built from the inventory.
	Graph *graph.Graph
	// View is the graph projected onto clusters.
	View *graph.ClusterView
	// Vulns holds the vulnerability lookup result per graph node.
	Vulns *inventory.VulnTable
}

// Scan executes the scan for the given config: it normalizes the document
// into an inventory, builds the dependency graph and runs the enabled
// enrichers on it.
func (Scanner) Scan(ctx context.Context, config *ScanConfig) (sr *ScanResult) {
	if config.Stats == nil {
		config.Stats = stats.NoopCollector{}
	}
	defer func() {
		config.Stats.AfterScan(time.Since(sr.StartTime), sr.Status)
	}()
	sro := &newScanResultOptions{
		StartTime: time.Now(),
		Inventory: inventory.Inventory{},
	}
	if err := config.EnableRequiredPlugins(); err != nil {
		sro.Err = err
	} else if err := config.ValidatePluginRequirements(); err != nil {
		sro.Err = err
	} else if config.Document == nil {
		sro.Err = ErrNoDocument
	}
	if sro.Err != nil {
		sro.EndTime = time.Now()
		return newScanResult(sro)
	}

	inv, normStatus, err := normalizer.Run(ctx, &normalizer.Config{
		Normalizers: pl.Normalizers(config.Plugins),
		Document:    config.Document,
		Stats:       config.Stats,
	})
	sro.PluginStatus = append(sro.PluginStatus, normStatus...)
	if err != nil {
		// Without an inventory there is nothing to build a graph from.
		sro.Err = multierr.Append(sro.Err, err)
		sro.EndTime = time.Now()
		return newScanResult(sro)
	}
	sro.Inventory = inv

	start := time.Now()
	res := graph.Resolve(inv.Components, inv.RawEdges)
	g := graph.Build(inv, res)
	config.Stats.AfterGraphBuilt(&stats.AfterGraphStats{
		Nodes:           g.NumNodes(),
		Edges:           g.NumEdges(),
		UnresolvedNodes: g.UnresolvedCount(),
		Runtime:         time.Since(start),
	})
	sro.Graph = g
	sro.View = graph.Project(g, config.ClusterRules)

	sro.Vulns = inventory.NewVulnTable()
	enrStatus, err := enricher.Run(ctx, &enricher.Config{
		Enrichers: pl.Enrichers(config.Plugins),
		Graph:     g,
		Stats:     config.Stats,
	}, sro.Vulns)
	sro.PluginStatus = append(sro.PluginStatus, enrStatus...)
	sro.Err = multierr.Append(sro.Err, err)

	sro.EndTime = time.Now()
	return newScanResult(sro)
}

type newScanResultOptions struct {
	StartTime    time.Time
	EndTime      time.Time
	PluginStatus []*plugin.Status
	Inventory    inventory.Inventory
	Graph        *graph.Graph
	View         *graph.ClusterView
	Vulns        *inventory.VulnTable
	Err          error
}

func newScanResult(options *newScanResultOptions) *ScanResult {
	status := &plugin.ScanStatus{}
	if options.Err != nil {
		status.Status = plugin.ScanStatusFailed
		status.FailureReason = options.Err.Error()
	} else {
		status.Status = plugin.ScanStatusSucceeded
		for _, s := range options.PluginStatus {
			if s.Status.Status != plugin.ScanStatusSucceeded {
				status.Status = plugin.ScanStatusPartiallySucceeded
				status.FailureReason = "not all plugins succeeded, see the plugin statuses"
				break
			}
		}
	}

	r := &ScanResult{
		Version:      version.ScannerVersion,
		StartTime:    options.StartTime,
		EndTime:      options.EndTime,
		Status:       status,
		PluginStatus: options.PluginStatus,
		Inventory:    options.Inventory,
		Graph:        options.Graph,
		View:         options.View,
		Vulns:        options.Vulns,
	}
	sortResults(r)
	return r
}

// sortResults sorts the result to make the output deterministic and
// diffable.
func sortResults(results *ScanResult) {
	slices.SortFunc(results.PluginStatus, cmpStatus)
	slices.SortFunc(results.Inventory.Components, cmpComponents)
	slices.SortFunc(results.Inventory.Edges, cmpEdges)
}

func cmpStatus(a, b *plugin.Status) int {
	return cmpString(a.Name, b.Name)
}

func cmpComponents(a, b *inventory.Component) int {
	if res := cmpString(a.Name, b.Name); res != 0 {
		return res
	}
	return cmpString(a.Version, b.Version)
}

func cmpEdges(a, b inventory.DependencyEdge) int {
	if res := cmpString(a.From.String(), b.From.String()); res != 0 {
		return res
	}
	return cmpString(a.To.String(), b.To.String())
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
