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

// Package cli defines the structures to store the CLI flags used by the scanner binary.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/sbomvisor/sbomvisor"
	"github.com/sbomvisor/sbomvisor/binary/cdx"
	"github.com/sbomvisor/sbomvisor/binary/jsonresult"
	"github.com/sbomvisor/sbomvisor/clients/vulndb"
	"github.com/sbomvisor/sbomvisor/converter"
	"github.com/sbomvisor/sbomvisor/document"
	"github.com/sbomvisor/sbomvisor/enricher/vulnlookup"
	"github.com/sbomvisor/sbomvisor/graph"
	"github.com/sbomvisor/sbomvisor/log"
	"github.com/sbomvisor/sbomvisor/plugin"
	pl "github.com/sbomvisor/sbomvisor/plugin/list"
)

// Array is a type to be passed to flag.Var that supports arrays passed as repeated flags,
// e.g. ./sbomvisor -o dot=graph.dot -o cdx-json=out.cyclonedx.json
type Array []string

func (i *Array) String() string {
	return strings.Join(*i, ",")
}

// Set gets called whenever a new instance of a flag is read during CLI arg parsing.
// For example, in the case of -o foo -o bar the library will call arr.Set("foo") then arr.Set("bar").
func (i *Array) Set(value string) error {
	*i = append(*i, strings.TrimSpace(value))
	return nil
}

// Get returns the underlying []string value stored by this flag struct.
func (i *Array) Get() any {
	return i
}

// StringListFlag is a type to be passed to flag.Var that supports list flags passed as repeated
// flags, e.g. ./sbomvisor -o a -o b,c the library will call arr.Set("a") then arr.Set("a,b").
type StringListFlag struct {
	set          bool
	value        []string
	defaultValue []string
}

// NewStringListFlag creates a new StringListFlag with the given default value.
func NewStringListFlag(defaultValue []string) StringListFlag {
	return StringListFlag{defaultValue: defaultValue}
}

// Set gets called whenever a new instance of a flag is read during CLI arg parsing.
// For example, in the case of -o foo -o bar the library will call arr.Set("foo") then arr.Set("bar").
func (s *StringListFlag) Set(x string) error {
	s.value = append(s.value, strings.Split(x, ",")...)
	s.set = true
	return nil
}

// Get returns the underlying []string value stored by this flag struct.
func (s *StringListFlag) Get() any {
	return s.GetSlice()
}

// GetSlice returns the underlying []string value stored by this flag struct.
func (s *StringListFlag) GetSlice() []string {
	if s.set {
		return s.value
	}
	return s.defaultValue
}

func (s *StringListFlag) String() string {
	if len(s.value) == 0 {
		return ""
	}
	return fmt.Sprint(s.value)
}

// Reset resets the flag to its default value.
func (s *StringListFlag) Reset() {
	s.set = false
	s.value = nil
}

// Flags contains a field for all the cli flags that can be set.
type Flags struct {
	FilePath             string
	Format               string
	ResultFile           string
	Output               Array
	PluginsToRun         []string
	ClusterRulesPath     string
	Workers              int
	LookupTimeout        time.Duration
	Deadline             time.Duration
	VulnDBURL            string
	VulnDBAPIKey         string
	VulnDBUsername       string
	VulnDBPassword       string
	CDXComponentName     string
	CDXComponentVersion  string
	CDXAuthors           string
	Verbose              bool
	ExplicitPlugins      bool
	FilterByCapabilities bool
	Offline              bool
	PrintVersion         bool
}

var supportedInputFormats = []string{
	document.FormatCycloneDX, document.FormatSPDX,
}

var supportedOutputFormats = []string{
	"cdx-json", "cdx-xml", "csv", "dot", "report",
}

// ValidateFlags validates the passed command line flags.
func ValidateFlags(flags *Flags) error {
	if flags.PrintVersion {
		// SBOM not required when the user just wants the version.
		return nil
	}
	if len(flags.FilePath) == 0 {
		return errors.New("--file needs to be set")
	}
	if len(flags.ResultFile) == 0 && len(flags.Output) == 0 {
		return errors.New("either --result or --o needs to be set")
	}
	if err := validateFormat(flags.Format); err != nil {
		return fmt.Errorf("--format %w", err)
	}
	if err := validateResultPath(flags.ResultFile); err != nil {
		return fmt.Errorf("--result %w", err)
	}
	if err := validateOutput(flags.Output); err != nil {
		return fmt.Errorf("--o %w", err)
	}
	if err := validateMultiStringArg(flags.PluginsToRun); err != nil {
		return fmt.Errorf("--plugins: %w", err)
	}
	if flags.Workers < 0 {
		return fmt.Errorf("--workers must not be negative, got %d", flags.Workers)
	}
	if flags.LookupTimeout < 0 {
		return fmt.Errorf("--lookup-timeout must not be negative, got %v", flags.LookupTimeout)
	}
	if flags.Deadline < 0 {
		return fmt.Errorf("--deadline must not be negative, got %v", flags.Deadline)
	}
	if err := validateEnricherDependency(flags.PluginsToRun, flags.ExplicitPlugins); err != nil {
		return err
	}
	return nil
}

func validateFormat(format string) error {
	// An empty format means the content decides.
	if len(format) == 0 {
		return nil
	}
	if !slices.Contains(supportedInputFormats, format) {
		return fmt.Errorf("%q not recognized, supported formats are %v", format, supportedInputFormats)
	}
	return nil
}

func validateResultPath(filePath string) error {
	if len(filePath) == 0 {
		return nil
	}
	return jsonresult.ValidExtension(filePath)
}

func validateOutput(output []string) error {
	for _, item := range output {
		o := strings.Split(item, "=")
		if len(o) != 2 {
			return errors.New("invalid output format, should follow a format like -o dot=graph.dot -o cdx-json=result.cyclonedx.json")
		}
		oFormat := o[0]
		if !slices.Contains(supportedOutputFormats, oFormat) {
			return fmt.Errorf("output format %q not recognized, supported formats are %v", oFormat, supportedOutputFormats)
		}
		if len(o[1]) == 0 {
			return fmt.Errorf("output path for format %q cannot be left empty", oFormat)
		}
	}
	return nil
}

func validateMultiStringArg(arg []string) error {
	if len(arg) == 0 {
		return nil
	}
	for _, item := range arg {
		if len(item) == 0 {
			continue
		}
		for _, item := range strings.Split(item, ",") {
			if len(item) == 0 {
				return errors.New("list item cannot be left empty")
			}
		}
	}
	return nil
}

func validateEnricherDependency(pluginNames []string, requireExplicit bool) error {
	f := &Flags{PluginsToRun: pluginNames}
	plugins, err := f.pluginsToRun()
	if err != nil {
		return err
	}
	if !requireExplicit {
		// The scanner auto-enables missing required plugins.
		return nil
	}
	enabled := make(map[string]bool)
	for _, p := range plugins {
		enabled[p.Name()] = true
	}
	for _, e := range pl.Enrichers(plugins) {
		for _, req := range e.RequiredPlugins() {
			if !enabled[req] {
				return fmt.Errorf("plugin %s must be turned on for enricher %s to run", req, e.Name())
			}
		}
	}
	return nil
}

// GetScanConfig constructs a scan config from the provided CLI flags.
func (f *Flags) GetScanConfig() (*sbomvisor.ScanConfig, error) {
	plugins, err := f.pluginsToRun()
	if err != nil {
		return nil, err
	}
	capab := f.capabilities()
	if f.FilterByCapabilities {
		plugins = plugin.FilterByCapabilities(plugins, capab)
	}

	var clusterRules []graph.ClusterRule
	if f.ClusterRulesPath != "" {
		clusterRules, err = graph.LoadClusterRules(f.ClusterRulesPath)
		if err != nil {
			return nil, err
		}
	}

	doc, err := document.FromFile(f.FilePath, f.Format)
	if err != nil {
		return nil, err
	}

	return &sbomvisor.ScanConfig{
		Plugins:         plugins,
		Capabilities:    capab,
		Document:        doc,
		ClusterRules:    clusterRules,
		ExplicitPlugins: f.ExplicitPlugins,
	}, nil
}

// GetCDXConfig creates an CDXConfig struct based on the CLI flags.
func (f *Flags) GetCDXConfig() converter.CDXConfig {
	c := converter.CDXConfig{
		ComponentName:    f.CDXComponentName,
		ComponentVersion: f.CDXComponentVersion,
	}
	if f.CDXAuthors != "" {
		c.Authors = strings.Split(f.CDXAuthors, ",")
	}
	return c
}

// WriteScanResults writes the scan results to the files specified by the
// CLI flags. The output path "-" stands for stdout.
func (f *Flags) WriteScanResults(result *sbomvisor.ScanResult) error {
	if len(f.ResultFile) > 0 {
		log.Infof("Writing scan results to %s", f.ResultFile)
		if err := jsonresult.Write(f.ResultFile, jsonresult.FromScanResult(result)); err != nil {
			return err
		}
	}
	for _, item := range f.Output {
		o := strings.Split(item, "=")
		oFormat := o[0]
		oPath := o[1]
		log.Infof("Writing scan results to %s", oPath)
		switch {
		case strings.Contains(oFormat, "cdx"):
			doc := converter.ToCDX(result, f.GetCDXConfig())
			if err := cdx.Write(doc, oPath, oFormat); err != nil {
				return err
			}
		case oFormat == "csv":
			err := writeOutput(oPath, func(w io.Writer) error {
				return converter.ToCSV(w, result.Inventory.Components)
			})
			if err != nil {
				return err
			}
		case oFormat == "dot":
			err := writeOutput(oPath, func(w io.Writer) error {
				_, err := io.WriteString(w, converter.ToDOT(result.View))
				return err
			})
			if err != nil {
				return err
			}
		case oFormat == "report":
			err := writeOutput(oPath, func(w io.Writer) error {
				return converter.WriteReport(w, result.Vulns)
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func writeOutput(path string, write func(w io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}

func (f *Flags) pluginsToRun() ([]plugin.Plugin, error) {
	plugins, err := pl.FromNames(multiStringToList(f.PluginsToRun))
	if err != nil {
		return nil, err
	}
	for i, p := range plugins {
		if p.Name() == vulnlookup.Name {
			plugins[i] = vulnlookup.New(&vulnlookup.Config{
				Client:        vulndb.NewClient(f.vulndbConfig()),
				PoolSize:      f.Workers,
				LookupTimeout: f.LookupTimeout,
			})
		}
	}
	return plugins, nil
}

func (f *Flags) vulndbConfig() *vulndb.Config {
	return &vulndb.Config{
		BaseURL:  f.VulnDBURL,
		APIKey:   f.VulnDBAPIKey,
		Username: f.VulnDBUsername,
		Password: f.VulnDBPassword,
	}
}

func multiStringToList(arg []string) []string {
	var result []string
	for _, item := range arg {
		result = append(result, strings.Split(item, ",")...)
	}
	return result
}

// Network access is enabled by default, unless it's explicitly disabled
// through the --offline flag.
func (f *Flags) capabilities() *plugin.Capabilities {
	network := plugin.NetworkOnline
	if f.Offline {
		network = plugin.NetworkOffline
	}
	return &plugin.Capabilities{Network: network}
}
