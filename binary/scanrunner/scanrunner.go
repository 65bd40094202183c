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

// Package scanrunner provides the main function for running a scan with the sbomvisor binary.
package scanrunner

import (
	"context"

	"github.com/sbomvisor/sbomvisor"
	"github.com/sbomvisor/sbomvisor/binary/cli"
	"github.com/sbomvisor/sbomvisor/log"
	"github.com/sbomvisor/sbomvisor/plugin"
	"github.com/sbomvisor/sbomvisor/version"
)

// RunScan executes the scan with the given CLI flags
// and returns the exit code passed to os.Exit() in the main binary.
func RunScan(flags *cli.Flags) int {
	if flags.PrintVersion {
		log.Infof("sbomvisor v%s", version.ScannerVersion)
		return 0
	}

	if flags.Verbose {
		log.SetLogger(&log.DefaultLogger{Verbose: true})
	}

	cfg, err := flags.GetScanConfig()
	if err != nil {
		log.Errorf("Failed to build the scan config: %v", err)
		return 1
	}

	log.Infof("Running scan with %d plugins", len(cfg.Plugins))
	log.Infof("Input document: %s (%s)", cfg.Document.Path, cfg.Document.Format)

	ctx := context.Background()
	if flags.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.Deadline)
		defer cancel()
	}
	result := sbomvisor.New().Scan(ctx, cfg)

	log.Infof("Scan status: %v", result.Status)
	for _, p := range result.PluginStatus {
		if p.Status.Status != plugin.ScanStatusSucceeded {
			log.Warnf("Plugin '%s' did not succeed. Status: %v, Reason: %s", p.Name, p.Status, p.Status.FailureReason)
		}
	}
	if result.Graph != nil {
		log.Infof(
			"Built a graph with %d nodes, %d edges, %d unresolved references",
			result.Graph.NumNodes(),
			result.Graph.NumEdges(),
			result.Graph.UnresolvedCount(),
		)
	}

	if err := flags.WriteScanResults(result); err != nil {
		log.Errorf("Error writing scan results: %v", err)
		return 1
	}

	// Partial enrichment failures don't fail the run. Only a scan where
	// no graph could be built exits non-zero.
	if result.Graph == nil {
		log.Errorf("Scan wasn't successful: %s", result.Status.FailureReason)
		return 1
	}
	if result.Status.Status != plugin.ScanStatusSucceeded {
		log.Warnf("Scan partially succeeded: %s", result.Status.FailureReason)
	}

	return 0
}
