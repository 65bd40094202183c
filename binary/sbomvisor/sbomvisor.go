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

// The sbomvisor command wraps around the sbomvisor library to create a
// standalone CLI that turns SBOM files into dependency graphs and
// vulnerability reports.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sbomvisor/sbomvisor/binary/cli"
	"github.com/sbomvisor/sbomvisor/binary/scanrunner"
	"github.com/sbomvisor/sbomvisor/log"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	// A .env file can provide the vulndb settings in dev setups.
	_ = godotenv.Load()

	var subcommand string
	if len(args) >= 2 {
		subcommand = args[1]
	}
	switch subcommand {
	case "scan":
		flags, err := parseFlags(args[2:])
		if err != nil {
			log.Errorf("Error parsing CLI args: %v", err)
			return 1
		}
		return scanrunner.RunScan(flags)
	default:
		// Assume 'scan' if subcommand is not recognized/specified.
		flags, err := parseFlags(args[1:])
		if err != nil {
			log.Errorf("Error parsing CLI args: %v", err)
			return 1
		}
		return scanrunner.RunScan(flags)
	}
}

func parseFlags(args []string) (*cli.Flags, error) {
	fs := flag.NewFlagSet("sbomvisor", flag.ExitOnError)
	filePath := fs.String("file", "", "The path of the SBOM file to scan")
	format := fs.String("format", "", `The format of the input SBOM ("cyclonedx" or "spdx"). Inferred from the content if unset.`)
	resultFile := fs.String("result", "", "The path of the output scan result file (JSON, optionally gzipped)")
	var output cli.Array
	fs.Var(&output, "o", "The path of the scanner outputs in various formats, e.g. -o dot=graph.dot -o csv=components.csv -o cdx-json=result.cyclonedx.json -o report=-")
	pluginsToRun := cli.NewStringListFlag([]string{"default"})
	fs.Var(&pluginsToRun, "plugins", "Comma-separated list of plugins to run")
	clusterRules := fs.String("cluster-rules", "", "Path of a YAML file with rules that assign components to named clusters")
	workers := fs.Int("workers", 0, "Number of concurrent vulnerability lookups. Defaults to 8.")
	lookupTimeout := fs.Duration("lookup-timeout", 0, "Timeout for each individual vulnerability lookup. Defaults to 5s.")
	deadline := fs.Duration("deadline", 0, "Deadline for the whole scan. No deadline if unset.")
	vulndbURL := fs.String("vulndb-url", os.Getenv("VULNDB_URL"), "Base URL of the vulndb server. Defaults to the public endpoint.")
	vulndbAPIKey := fs.String("vulndb-api-key", os.Getenv("VULNDB_API_KEY"), "API key for the vulndb server")
	vulndbUsername := fs.String("vulndb-username", os.Getenv("VULNDB_USERNAME"), "Username for vulndb servers behind digest auth")
	vulndbPassword := fs.String("vulndb-password", os.Getenv("VULNDB_PASSWORD"), "Password for vulndb servers behind digest auth")
	cdxComponentName := fs.String("cdx-component-name", "", "The 'metadata.component.name' field for the output CDX document")
	cdxComponentVersion := fs.String("cdx-component-version", "", "The 'metadata.component.version' field for the output CDX document")
	cdxAuthors := fs.String("cdx-authors", "", "The 'authors' field for the output CDX document. Format is --cdx-authors=author1,author2")
	verbose := fs.Bool("verbose", false, "Enable this to print debug logs")
	explicitPlugins := fs.Bool("explicit-plugins", false, "If set, the program will exit with an error if not all plugins required by enabled enrichers are explicitly enabled.")
	filterByCapabilities := fs.Bool("filter-by-capabilities", true, "If set, plugins whose requirements (e.g. network access) aren't satisfied by the scanning environment will be silently disabled instead of throwing a validation error.")
	offline := fs.Bool("offline", false, "Offline mode: Run only plugins that don't require network access")
	printVersion := fs.Bool("version", false, "Print the version of the scanner")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected positional arguments: %v", fs.Args())
	}

	flags := &cli.Flags{
		FilePath:             *filePath,
		Format:               *format,
		ResultFile:           *resultFile,
		Output:               output,
		PluginsToRun:         pluginsToRun.GetSlice(),
		ClusterRulesPath:     *clusterRules,
		Workers:              *workers,
		LookupTimeout:        *lookupTimeout,
		Deadline:             *deadline,
		VulnDBURL:            *vulndbURL,
		VulnDBAPIKey:         *vulndbAPIKey,
		VulnDBUsername:       *vulndbUsername,
		VulnDBPassword:       *vulndbPassword,
		CDXComponentName:     *cdxComponentName,
		CDXComponentVersion:  *cdxComponentVersion,
		CDXAuthors:           *cdxAuthors,
		Verbose:              *verbose,
		ExplicitPlugins:      *explicitPlugins,
		FilterByCapabilities: *filterByCapabilities,
		Offline:              *offline,
		PrintVersion:         *printVersion,
	}
	if err := cli.ValidateFlags(flags); err != nil {
		return nil, err
	}
	return flags, nil
}
