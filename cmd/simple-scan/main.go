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

// Package main shows the minimal library usage of sbomvisor: parse an SBOM
// file, normalize it into a dependency graph and print the graph. For the
// full CLI see binary/sbomvisor.
package main

import (
	"context"
	"fmt"
	"os"

	sbomvisor "github.com/sbomvisor/sbomvisor"
	"github.com/sbomvisor/sbomvisor/document"
	"github.com/sbomvisor/sbomvisor/log"
	pl "github.com/sbomvisor/sbomvisor/plugin/list"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if len(args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <sbom-file>\n", args[0])
		return 1
	}

	// An empty format tag lets the document content decide.
	doc, err := document.FromFile(args[1], "")
	if err != nil {
		log.Errorf("Failed to read %s: %v", args[1], err)
		return 1
	}

	plugins, err := pl.FromNames([]string{"normalizers"})
	if err != nil {
		log.Errorf("Failed to create plugins: %v", err)
		return 1
	}

	result := sbomvisor.New().Scan(context.Background(), &sbomvisor.ScanConfig{
		Plugins:  plugins,
		Document: doc,
	})
	if result.Graph == nil {
		log.Errorf("Scan failed: %s", result.Status.FailureReason)
		return 1
	}

	fmt.Printf("Scan status: %v\n", result.Status)
	fmt.Printf("Graph: %d nodes, %d edges, %d unresolved references\n",
		result.Graph.NumNodes(), result.Graph.NumEdges(), result.Graph.UnresolvedCount())
	for _, id := range result.Graph.Identities() {
		for _, to := range result.Graph.Neighbors(id) {
			fmt.Printf("  %s -> %s\n", id.String(), to.String())
		}
	}
	return 0
}
