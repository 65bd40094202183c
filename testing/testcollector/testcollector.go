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

// Package testcollector provides an implementation of stats.Collector that
// stores recorded metrics for verification in tests.
package testcollector

import (
	"time"

	"github.com/sbomvisor/sbomvisor/plugin"
	"github.com/sbomvisor/sbomvisor/stats"
)

// Collector implements the stats.Collector interface and simply stores
// the recorded metrics.
type Collector struct {
	stats.NoopCollector
	normalizerStats map[string]*stats.AfterNormalizerStats
	enricherRuntime map[string]time.Duration
	enricherErr     map[string]error
	graphStats      *stats.AfterGraphStats
	scanRuntime     time.Duration
	scanStatus      *plugin.ScanStatus
}

// New returns a new test Collector with maps initialized.
func New() *Collector {
	return &Collector{
		normalizerStats: make(map[string]*stats.AfterNormalizerStats),
		enricherRuntime: make(map[string]time.Duration),
		enricherErr:     make(map[string]error),
	}
}

// AfterNormalizerRun stores the metrics of a normalization run.
func (c *Collector) AfterNormalizerRun(pluginName string, normalizerstats *stats.AfterNormalizerStats) {
	c.normalizerStats[pluginName] = normalizerstats
}

// AfterGraphBuilt stores the metrics of a graph build.
func (c *Collector) AfterGraphBuilt(graphstats *stats.AfterGraphStats) {
	c.graphStats = graphstats
}

// AfterEnricherRun stores the metrics of an enrichment run.
func (c *Collector) AfterEnricherRun(name string, runtime time.Duration, err error) {
	c.enricherRuntime[name] = runtime
	c.enricherErr[name] = err
}

// AfterScan stores the overall scan metrics.
func (c *Collector) AfterScan(runtime time.Duration, status *plugin.ScanStatus) {
	c.scanRuntime = runtime
	c.scanStatus = status
}

// NormalizerStats returns the stats recorded for a given normalizer, or
// nil if it never ran.
func (c *Collector) NormalizerStats(pluginName string) *stats.AfterNormalizerStats {
	return c.normalizerStats[pluginName]
}

// GraphStats returns the stats of the last recorded graph build.
func (c *Collector) GraphStats() *stats.AfterGraphStats {
	return c.graphStats
}

// EnricherErr returns the error recorded for a given enricher.
func (c *Collector) EnricherErr(name string) error {
	return c.enricherErr[name]
}

// EnricherRan reports whether metrics were recorded for a given enricher.
func (c *Collector) EnricherRan(name string) bool {
	_, ok := c.enricherRuntime[name]
	return ok
}

// ScanStatus returns the recorded overall scan status.
func (c *Collector) ScanStatus() *plugin.ScanStatus {
	return c.scanStatus
}
