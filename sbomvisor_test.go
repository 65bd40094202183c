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

package sbomvisor_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	sbomvisor "github.com/sbomvisor/sbomvisor"
	"github.com/sbomvisor/sbomvisor/document"
	"github.com/sbomvisor/sbomvisor/enricher/vulnlookup"
	"github.com/sbomvisor/sbomvisor/enricher/vulnlookup/fakeclient"
	"github.com/sbomvisor/sbomvisor/graph"
	"github.com/sbomvisor/sbomvisor/inventory"
	"github.com/sbomvisor/sbomvisor/normalizer/cdx"
	"github.com/sbomvisor/sbomvisor/plugin"
	fen "github.com/sbomvisor/sbomvisor/testing/fakeenricher"
	"github.com/sbomvisor/sbomvisor/testing/testcollector"
	"github.com/sbomvisor/sbomvisor/version"
)

// testBOM declares three components and one dependency on a reference
// that matches nothing, which the resolver turns into a synthetic node.
const testBOM = `{
  "bomFormat": "CycloneDX",
  "specVersion": "1.5",
  "metadata": {
    "component": {"bom-ref": "root-app", "type": "application", "name": "acme-app", "version": "1.0.0"}
  },
  "components": [
    {"bom-ref": "lib-a", "type": "library", "name": "lib-a", "version": "2.3.4"},
    {"bom-ref": "lib-b", "type": "library", "name": "lib-b", "version": "5.0.1"}
  ],
  "dependencies": [
    {"ref": "root-app", "dependsOn": ["lib-a", "lib-b"]},
    {"ref": "lib-a", "dependsOn": ["ghost-lib"]}
  ]
}`

func mustDoc(t *testing.T, data string) *document.Document {
	t.Helper()
	doc, err := document.Parse([]byte(data), "sbom.cdx.json", "")
	if err != nil {
		t.Fatalf("document.Parse(): %v", err)
	}
	return doc
}

func TestScan(t *testing.T) {
	success := &plugin.ScanStatus{Status: plugin.ScanStatusSucceeded}
	partialSuccess := &plugin.ScanStatus{
		Status:        plugin.ScanStatusPartiallySucceeded,
		FailureReason: "not all plugins succeeded, see the plugin statuses",
	}
	pluginFailure := "failed to run plugin"
	enrFailure := &plugin.ScanStatus{
		Status:        plugin.ScanStatusFailed,
		FailureReason: pluginFailure,
	}
	lookupFailure := &plugin.ScanStatus{
		Status:        plugin.ScanStatusPartiallySucceeded,
		FailureReason: "enrichment partially succeeded: 1 of 3 lookups failed",
	}

	app := &inventory.Component{
		Name: "acme-app", Version: "1.0.0",
		Type: inventory.TypeApplication, Ref: "root-app",
		SourceFormat: document.FormatCycloneDX,
	}
	libA := &inventory.Component{
		Name: "lib-a", Version: "2.3.4",
		Type: inventory.TypeLibrary, Ref: "lib-a",
		SourceFormat: document.FormatCycloneDX,
	}
	libB := &inventory.Component{
		Name: "lib-b", Version: "5.0.1",
		Type: inventory.TypeLibrary, Ref: "lib-b",
		SourceFormat: document.FormatCycloneDX,
	}
	wantInventory := inventory.Inventory{
		Components: []*inventory.Component{app, libA, libB},
		RawEdges: []inventory.RawEdge{
			{Ref: "root-app", DependsOn: []string{"lib-a", "lib-b"}},
			{Ref: "lib-a", DependsOn: []string{"ghost-lib"}},
		},
	}

	appID := inventory.Identity{Name: "acme-app", Version: "1.0.0"}
	libAID := inventory.Identity{Name: "lib-a", Version: "2.3.4"}
	libBID := inventory.Identity{Name: "lib-b", Version: "5.0.1"}
	ghostID := inventory.Identity{Name: "ghost-lib", Version: inventory.UnknownValue}

	finding := &inventory.Finding{ID: "CVE-2024-1234", Severity: "HIGH", Score: 8.8}
	okClient := func() *fakeclient.Client {
		return fakeclient.New(map[string][]*inventory.Finding{
			fakeclient.Key("lib-a", "2.3.4"): {finding},
		})
	}
	flakyClient := okClient()
	flakyClient.SetErr("lib-a", "2.3.4", errors.New("vulndb: 503 Service Unavailable"))

	testCases := []struct {
		desc           string
		cfg            *sbomvisor.ScanConfig
		want           *sbomvisor.ScanResult
		wantNodes      int
		wantEdges      int
		wantUnresolved int
		wantVulns      map[inventory.Identity]inventory.VulnStatus
	}{
		{
			desc: "Successful_scan",
			cfg: &sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					cdx.New(),
					vulnlookup.NewWithClient(okClient()),
				},
				Document: mustDoc(t, testBOM),
			},
			want: &sbomvisor.ScanResult{
				Version: version.ScannerVersion,
				Status:  success,
				PluginStatus: []*plugin.Status{
					{Name: "normalizer/cdx", Version: 0, Status: success},
					{Name: "vulnlookup/vulndb", Version: 1, Status: success},
				},
				Inventory: wantInventory,
			},
			wantNodes:      4,
			wantEdges:      3,
			wantUnresolved: 1,
			wantVulns: map[inventory.Identity]inventory.VulnStatus{
				appID:   inventory.VulnStatusClean,
				libAID:  inventory.VulnStatusFindings,
				libBID:  inventory.VulnStatusClean,
				ghostID: inventory.VulnStatusUnknown,
			},
		},
		{
			desc: "Vulnerability_lookup_partially_failed",
			cfg: &sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					cdx.New(),
					vulnlookup.NewWithClient(flakyClient),
				},
				Document: mustDoc(t, testBOM),
			},
			want: &sbomvisor.ScanResult{
				Version: version.ScannerVersion,
				Status:  partialSuccess,
				PluginStatus: []*plugin.Status{
					{Name: "normalizer/cdx", Version: 0, Status: success},
					{Name: "vulnlookup/vulndb", Version: 1, Status: lookupFailure},
				},
				Inventory: wantInventory,
			},
			wantNodes:      4,
			wantEdges:      3,
			wantUnresolved: 1,
			wantVulns: map[inventory.Identity]inventory.VulnStatus{
				appID:   inventory.VulnStatusClean,
				libAID:  inventory.VulnStatusUnknown,
				libBID:  inventory.VulnStatusClean,
				ghostID: inventory.VulnStatusUnknown,
			},
		},
		{
			desc: "Enricher_plugin_failed",
			cfg: &sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					cdx.New(),
					fen.New(fen.WithName("enricher"), fen.WithVersion(1), fen.WithErr(errors.New(pluginFailure))),
				},
				Document: mustDoc(t, testBOM),
			},
			want: &sbomvisor.ScanResult{
				Version: version.ScannerVersion,
				Status:  partialSuccess,
				PluginStatus: []*plugin.Status{
					{Name: "enricher", Version: 1, Status: enrFailure},
					{Name: "normalizer/cdx", Version: 0, Status: success},
				},
				Inventory: wantInventory,
			},
			wantNodes:      4,
			wantEdges:      3,
			wantUnresolved: 1,
			wantVulns:      map[inventory.Identity]inventory.VulnStatus{},
		},
		{
			desc: "Required_normalizer_auto_enabled",
			cfg: &sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					fen.New(fen.WithName("enricher"), fen.WithVersion(1), fen.WithRequiredPlugins("normalizer/cdx")),
				},
				Document: mustDoc(t, testBOM),
			},
			want: &sbomvisor.ScanResult{
				Version: version.ScannerVersion,
				Status:  success,
				PluginStatus: []*plugin.Status{
					{Name: "enricher", Version: 1, Status: success},
					{Name: "normalizer/cdx", Version: 0, Status: success},
				},
				Inventory: wantInventory,
			},
			wantNodes:      4,
			wantEdges:      3,
			wantUnresolved: 1,
			wantVulns:      map[inventory.Identity]inventory.VulnStatus{},
		},
		{
			desc: "Missing_document_causes_error",
			cfg: &sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{cdx.New()},
			},
			want: &sbomvisor.ScanResult{
				Version: version.ScannerVersion,
				Status: &plugin.ScanStatus{
					Status:        plugin.ScanStatusFailed,
					FailureReason: "no SBOM document provided",
				},
				Inventory: inventory.Inventory{},
			},
		},
		{
			desc: "Unknown_required_plugin_causes_error",
			cfg: &sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					fen.New(fen.WithName("enricher"), fen.WithRequiredPlugins("nonexistent/plugin")),
				},
				Document: mustDoc(t, testBOM),
			},
			want: &sbomvisor.ScanResult{
				Version: version.ScannerVersion,
				Status: &plugin.ScanStatus{
					Status:        plugin.ScanStatusFailed,
					FailureReason: `unknown plugin "nonexistent/plugin"`,
				},
				Inventory: inventory.Inventory{},
			},
		},
		{
			desc: "Explicit_plugins_missing_required",
			cfg: &sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					fen.New(fen.WithName("enricher"), fen.WithRequiredPlugins("normalizer/cdx")),
				},
				Document:        mustDoc(t, testBOM),
				ExplicitPlugins: true,
			},
			want: &sbomvisor.ScanResult{
				Version: version.ScannerVersion,
				Status: &plugin.ScanStatus{
					Status:        plugin.ScanStatusFailed,
					FailureReason: `enricher "enricher" requires plugin "normalizer/cdx" to be enabled`,
				},
				Inventory: inventory.Inventory{},
			},
		},
		{
			desc: "Capability_validation_failed",
			cfg: &sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					cdx.New(),
					vulnlookup.NewWithClient(okClient()),
				},
				Capabilities: &plugin.Capabilities{Network: plugin.NetworkOffline},
				Document:     mustDoc(t, testBOM),
			},
			want: &sbomvisor.ScanResult{
				Version: version.ScannerVersion,
				Status: &plugin.ScanStatus{
					Status:        plugin.ScanStatusFailed,
					FailureReason: "plugin vulnlookup/vulndb can't be enabled: needs network access but scan environment doesn't provide it",
				},
				Inventory: inventory.Inventory{},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			got := sbomvisor.New().Scan(t.Context(), tc.cfg)

			// We can't mock the time from here so we skip it in the comparison.
			tc.want.StartTime = got.StartTime
			tc.want.EndTime = got.EndTime

			// The graph and the vuln table hide their state behind
			// accessors, so they are checked separately below.
			ignore := cmpopts.IgnoreFields(sbomvisor.ScanResult{}, "Graph", "View", "Vulns")

			if diff := cmp.Diff(tc.want, got, ignore); diff != "" {
				t.Errorf("Scan(%+v): unexpected diff (-want +got):\n%s", tc.cfg, diff)
			}

			if got.Graph == nil {
				if tc.wantNodes != 0 {
					t.Errorf("Scan(%+v) built no graph, want %d nodes", tc.cfg, tc.wantNodes)
				}
				return
			}
			if got.Graph.NumNodes() != tc.wantNodes {
				t.Errorf("Scan(%+v) graph nodes: got %d, want %d", tc.cfg, got.Graph.NumNodes(), tc.wantNodes)
			}
			if got.Graph.NumEdges() != tc.wantEdges {
				t.Errorf("Scan(%+v) graph edges: got %d, want %d", tc.cfg, got.Graph.NumEdges(), tc.wantEdges)
			}
			if got.Graph.UnresolvedCount() != tc.wantUnresolved {
				t.Errorf("Scan(%+v) unresolved nodes: got %d, want %d", tc.cfg, got.Graph.UnresolvedCount(), tc.wantUnresolved)
			}

			if got.Vulns.Len() != len(tc.wantVulns) {
				t.Errorf("Scan(%+v) recorded %d vuln results, want %d", tc.cfg, got.Vulns.Len(), len(tc.wantVulns))
			}
			for id, want := range tc.wantVulns {
				res, ok := got.Vulns.Get(id)
				if !ok {
					t.Errorf("Scan(%+v) recorded no vuln result for %v", tc.cfg, id)
					continue
				}
				if res.Status != want {
					t.Errorf("Scan(%+v) vuln status for %v: got %v, want %v", tc.cfg, id, res.Status, want)
				}
			}
		})
	}
}

func TestScanClusterRules(t *testing.T) {
	rule, err := graph.NewClusterRule("lib-*", "libs")
	if err != nil {
		t.Fatalf("graph.NewClusterRule(): %v", err)
	}
	cfg := &sbomvisor.ScanConfig{
		Plugins:      []plugin.Plugin{cdx.New()},
		ClusterRules: []graph.ClusterRule{rule},
		Document:     mustDoc(t, testBOM),
	}

	got := sbomvisor.New().Scan(t.Context(), cfg)
	if got.Status.Status != plugin.ScanStatusSucceeded {
		t.Fatalf("Scan(%+v) status: got %v, want success", cfg, got.Status)
	}

	libs := got.View.Cluster("libs")
	if libs == nil {
		t.Fatalf("Scan(%+v) view has no %q cluster", cfg, "libs")
	}
	var names []string
	for _, c := range libs.Nodes {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"lib-a", "lib-b"}, names); diff != "" {
		t.Errorf("cluster %q nodes: unexpected diff (-want +got):\n%s", "libs", diff)
	}
	// acme-app and the synthetic ghost-lib node match no rule, and all
	// three edges cross the cluster boundary.
	def := got.View.Cluster(graph.DefaultCluster)
	if def == nil || len(def.Nodes) != 2 {
		t.Errorf("default cluster: got %+v, want 2 nodes", def)
	}
	if len(got.View.CrossEdges) != 3 {
		t.Errorf("cross-cluster edges: got %d, want 3", len(got.View.CrossEdges))
	}
}

func TestScanStats(t *testing.T) {
	collector := testcollector.New()
	cfg := &sbomvisor.ScanConfig{
		Plugins: []plugin.Plugin{
			cdx.New(),
			vulnlookup.NewWithClient(fakeclient.New(nil)),
		},
		Document: mustDoc(t, testBOM),
		Stats:    collector,
	}

	sbomvisor.New().Scan(t.Context(), cfg)

	normStats := collector.NormalizerStats("normalizer/cdx")
	if normStats == nil {
		t.Fatalf("Scan(%+v) recorded no normalizer stats", cfg)
	}
	if normStats.Format != document.FormatCycloneDX {
		t.Errorf("normalizer stats format: got %q, want %q", normStats.Format, document.FormatCycloneDX)
	}
	if got := len(normStats.Inventory.Components); got != 3 {
		t.Errorf("normalizer stats components: got %d, want 3", got)
	}

	graphStats := collector.GraphStats()
	if graphStats == nil {
		t.Fatalf("Scan(%+v) recorded no graph stats", cfg)
	}
	if graphStats.Nodes != 4 || graphStats.Edges != 3 || graphStats.UnresolvedNodes != 1 {
		t.Errorf("graph stats: got %+v, want 4 nodes, 3 edges, 1 unresolved", graphStats)
	}

	if !collector.EnricherRan("vulnlookup/vulndb") {
		t.Errorf("Scan(%+v) recorded no enricher run", cfg)
	}
	if err := collector.EnricherErr("vulnlookup/vulndb"); err != nil {
		t.Errorf("enricher error: got %v, want nil", err)
	}
	if got := collector.ScanStatus(); got == nil || got.Status != plugin.ScanStatusSucceeded {
		t.Errorf("scan status: got %v, want success", got)
	}
}

func TestEnableRequiredPlugins(t *testing.T) {
	cases := []struct {
		name        string
		cfg         sbomvisor.ScanConfig
		wantPlugins []string
		wantErr     error
	}{
		{
			name: "empty",
		},
		{
			name: "no_required_plugins",
			cfg: sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					fen.New(fen.WithName("foo")),
				},
			},
			wantPlugins: []string{"foo"},
		},
		{
			name: "required_normalizer_already_enabled",
			cfg: sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					fen.New(fen.WithName("foo"), fen.WithRequiredPlugins("normalizer/cdx")),
					cdx.New(),
				},
			},
			wantPlugins: []string{"foo", "normalizer/cdx"},
		},
		{
			name: "auto-loaded_required_normalizer",
			cfg: sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					fen.New(fen.WithName("foo"), fen.WithRequiredPlugins("normalizer/cdx")),
				},
			},
			wantPlugins: []string{"foo", "normalizer/cdx"},
		},
		{
			name: "required_plugin_doesn't_exist",
			cfg: sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					fen.New(fen.WithName("foo"), fen.WithRequiredPlugins("bar/baz")),
				},
			},
			wantErr: cmpopts.AnyError,
		},
		{
			name: "explicit_plugins_enabled",
			cfg: sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					fen.New(fen.WithName("foo"), fen.WithRequiredPlugins("normalizer/cdx")),
				},
				ExplicitPlugins: true,
			},
			wantErr: cmpopts.AnyError,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.EnableRequiredPlugins(); !cmp.Equal(tc.wantErr, err, cmpopts.EquateErrors()) {
				t.Fatalf("EnableRequiredPlugins() error: %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil {
				gotPlugins := []string{}
				for _, p := range tc.cfg.Plugins {
					gotPlugins = append(gotPlugins, p.Name())
				}
				if diff := cmp.Diff(
					tc.wantPlugins,
					gotPlugins,
					cmpopts.EquateEmpty(),
					cmpopts.SortSlices(func(l, r string) bool { return l < r }),
				); diff != "" {
					t.Errorf("EnableRequiredPlugins() diff (-want, +got):\n%s", diff)
				}
			}
		})
	}
}

func TestValidatePluginRequirements(t *testing.T) {
	cases := []struct {
		desc    string
		cfg     sbomvisor.ScanConfig
		wantErr error
	}{
		{
			desc: "requirements_satisfied",
			cfg: sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					cdx.New(),
					vulnlookup.NewWithClient(fakeclient.New(nil)),
				},
				Capabilities: &plugin.Capabilities{Network: plugin.NetworkOnline},
			},
			wantErr: nil,
		},
		{
			desc: "network_requirement_unsatisfied",
			cfg: sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					cdx.New(),
					vulnlookup.NewWithClient(fakeclient.New(nil)),
				},
				Capabilities: &plugin.Capabilities{Network: plugin.NetworkOffline},
			},
			wantErr: cmpopts.AnyError,
		},
		{
			desc: "normalizers_run_offline",
			cfg: sbomvisor.ScanConfig{
				Plugins: []plugin.Plugin{
					cdx.New(),
				},
				Capabilities: &plugin.Capabilities{Network: plugin.NetworkOffline},
			},
			wantErr: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			if err := tc.cfg.ValidatePluginRequirements(); !cmp.Equal(tc.wantErr, err, cmpopts.EquateErrors()) {
				t.Fatalf("ValidatePluginRequirements() error: %v, want %v", err, tc.wantErr)
			}
		})
	}
}
