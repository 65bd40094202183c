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

// Package vulnlookup queries the vulndb API to find known
// vulnerabilities for every distinct component identity of the
// dependency graph.
package vulnlookup

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/sbomvisor/sbomvisor/clients/vulndb"
	"github.com/sbomvisor/sbomvisor/enricher"
	"github.com/sbomvisor/sbomvisor/inventory"
	"github.com/sbomvisor/sbomvisor/log"
	"github.com/sbomvisor/sbomvisor/plugin"
	"golang.org/x/sync/errgroup"
)

const (
	// Name is the unique name of this Enricher.
	Name    = "vulnlookup/vulndb"
	version = 1

	defaultPoolSize      = 8
	defaultLookupTimeout = 5 * time.Second
)

// reasonUnresolved is recorded for synthetic nodes that stand in for
// references the resolver could not match. There is nothing meaningful
// to look up for them.
const reasonUnresolved = "component not resolved to a known package"

var _ enricher.Enricher = &Enricher{}

// Client is the lookup backend. *vulndb.Client implements it.
type Client interface {
	Vulns(ctx context.Context, name, version string) ([]*inventory.Finding, error)
}

// Config for the vulnlookup Enricher.
type Config struct {
	// Client used for lookups. Defaults to the public vulndb endpoint.
	Client Client
	// PoolSize bounds the number of concurrent lookups.
	PoolSize int
	// LookupTimeout bounds each individual lookup.
	LookupTimeout time.Duration
}

// Enricher looks up vulnerabilities for graph components through a
// bounded worker pool, one lookup per distinct identity.
type Enricher struct {
	client        Client
	poolSize      int
	lookupTimeout time.Duration
}

// New returns an Enricher for the given config. A nil config selects the
// public vulndb endpoint with default pool size and timeout.
func New(cfg *Config) enricher.Enricher {
	if cfg == nil {
		cfg = &Config{}
	}
	e := &Enricher{
		client:        cfg.Client,
		poolSize:      cfg.PoolSize,
		lookupTimeout: cfg.LookupTimeout,
	}
	if e.client == nil {
		e.client = vulndb.NewClient(nil)
	}
	if e.poolSize <= 0 {
		e.poolSize = defaultPoolSize
	}
	if e.lookupTimeout <= 0 {
		e.lookupTimeout = defaultLookupTimeout
	}
	return e
}

// NewDefault returns an Enricher for the public vulndb endpoint.
func NewDefault() enricher.Enricher {
	return New(nil)
}

// NewWithClient returns an Enricher using the specified client and
// default pool size and timeout.
func NewWithClient(c Client) enricher.Enricher {
	return New(&Config{Client: c})
}

// Name of the Enricher.
func (Enricher) Name() string { return Name }

// Version of the Enricher.
func (Enricher) Version() int { return version }

// Requirements of the Enricher. Lookups need network access.
func (Enricher) Requirements() *plugin.Capabilities {
	return &plugin.Capabilities{Network: plugin.NetworkOnline}
}

// RequiredPlugins returns the plugins required for this Enricher to run.
// It works on whatever graph the scan produced, so there are none.
func (Enricher) RequiredPlugins() []string {
	return []string{}
}

// Enrich resolves a vulnerability result for every identity in the
// graph. Failed lookups record an unknown-status result instead of
// failing the run; Enrich returns ErrPartialSuccess when at least one
// lookup failed. The table rejecting a second result for an identity is
// a bug in this enricher and does fail the run.
func (e *Enricher) Enrich(ctx context.Context, input *enricher.ScanInput, table *inventory.VulnTable) error {
	if input == nil || input.Graph == nil {
		return enricher.ErrNoGraph
	}

	// The graph is keyed by identity, so its component list is already
	// deduplicated: two document entries with the same name and version
	// get one lookup.
	var pending []inventory.Identity
	for _, c := range input.Graph.Components() {
		if c.Unresolved {
			if err := table.Resolve(c.Identity(), &inventory.VulnResult{
				Status: inventory.VulnStatusUnknown,
				Reason: reasonUnresolved,
			}); err != nil {
				return err
			}
			continue
		}
		pending = append(pending, c.Identity())
	}

	// A plain errgroup rather than WithContext: one failed lookup must
	// not cancel its siblings, every identity gets its chance.
	var g errgroup.Group
	g.SetLimit(e.poolSize)
	var failed atomic.Int64

	for _, id := range pending {
		g.Go(func() error {
			res := e.lookup(ctx, id)
			if res.Status == inventory.VulnStatusUnknown {
				failed.Add(1)
			}
			return table.Resolve(id, res)
		})
	}

	// The join barrier: results must not be read until every lookup has
	// either completed or failed. Only table misuse comes back as an
	// error here.
	if err := g.Wait(); err != nil {
		return err
	}

	if n := failed.Load(); n > 0 {
		return fmt.Errorf("%w: %d of %d lookups failed", enricher.ErrPartialSuccess, n, len(pending))
	}
	return nil
}

func (e *Enricher) lookup(ctx context.Context, id inventory.Identity) *inventory.VulnResult {
	lctx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	pkgVersion := id.Version
	if pkgVersion == inventory.UnknownValue {
		// Query by name only, the document never declared a version.
		pkgVersion = ""
	}

	findings, err := e.client.Vulns(lctx, id.Name, pkgVersion)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warnf("Vulnerability lookup for %s timed out", id)
		} else {
			log.Warnf("Vulnerability lookup for %s failed: %v", id, err)
		}
		return &inventory.VulnResult{Status: inventory.VulnStatusUnknown, Reason: err.Error()}
	}
	if len(findings) == 0 {
		return &inventory.VulnResult{Status: inventory.VulnStatusClean}
	}
	return &inventory.VulnResult{Status: inventory.VulnStatusFindings, Findings: findings}
}
