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

// Package fakeenricher provides an Enricher implementation to be used in tests.
package fakeenricher

import (
	"context"

	"github.com/sbomvisor/sbomvisor/enricher"
	"github.com/sbomvisor/sbomvisor/inventory"
	"github.com/sbomvisor/sbomvisor/plugin"
)

// fakeEnricher is an Enricher implementation to be used in tests.
// It records predefined vuln results and returns a predefined error.
type fakeEnricher struct {
	EnrName    string
	EnrVersion int
	Capab      *plugin.Capabilities
	Required   []string
	Results    map[inventory.Identity]*inventory.VulnResult
	Err        error
}

// Option is an option that can be set when creating a new fake enricher.
type Option func(*fakeEnricher)

// WithName sets the fake enricher's name.
func WithName(name string) Option {
	return func(fe *fakeEnricher) {
		fe.EnrName = name
	}
}

// WithVersion sets the fake enricher's version.
func WithVersion(version int) Option {
	return func(fe *fakeEnricher) {
		fe.EnrVersion = version
	}
}

// WithCapabilities sets the fake enricher's capability requirements.
func WithCapabilities(capab *plugin.Capabilities) Option {
	return func(fe *fakeEnricher) {
		fe.Capab = capab
	}
}

// WithRequiredPlugins sets the plugins the fake enricher depends on.
func WithRequiredPlugins(names ...string) Option {
	return func(fe *fakeEnricher) {
		fe.Required = names
	}
}

// WithResult adds a vuln result that is recorded when Enrich() is called.
func WithResult(id inventory.Identity, res *inventory.VulnResult) Option {
	return func(fe *fakeEnricher) {
		if fe.Results == nil {
			fe.Results = map[inventory.Identity]*inventory.VulnResult{}
		}
		fe.Results[id] = res
	}
}

// WithErr sets the fake enricher's error that is returned when Enrich() is called.
func WithErr(err error) Option {
	return func(fe *fakeEnricher) {
		fe.Err = err
	}
}

// New creates a new fake enricher with its properties set according to opts.
func New(opts ...Option) enricher.Enricher {
	fe := &fakeEnricher{
		EnrName:    "fake-enricher",
		EnrVersion: 1,
		Capab:      &plugin.Capabilities{},
	}
	for _, opt := range opts {
		opt(fe)
	}
	return fe
}

// Name returns the enricher's name.
func (e *fakeEnricher) Name() string { return e.EnrName }

// Version returns the enricher's version.
func (e *fakeEnricher) Version() int { return e.EnrVersion }

// Requirements returns the enricher's requirements.
func (e *fakeEnricher) Requirements() *plugin.Capabilities { return e.Capab }

// RequiredPlugins returns a list of Plugins that need to be enabled for this Enricher to run.
func (e *fakeEnricher) RequiredPlugins() []string { return e.Required }

// Enrich records the predefined results in the table and returns the
// predefined error.
func (e *fakeEnricher) Enrich(_ context.Context, _ *enricher.ScanInput, table *inventory.VulnTable) error {
	for id, res := range e.Results {
		if err := table.Resolve(id, res); err != nil {
			return err
		}
	}
	return e.Err
}
