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

// Package normalizer provides the interface for SBOM format normalizers,
// the plugins that convert format-specific document models into the
// canonical component inventory.
package normalizer

import (
	"context"
	"errors"
	"time"

	"github.com/sbomvisor/sbomvisor/document"
	"github.com/sbomvisor/sbomvisor/inventory"
	"github.com/sbomvisor/sbomvisor/log"
	"github.com/sbomvisor/sbomvisor/plugin"
	"github.com/sbomvisor/sbomvisor/stats"
)

var errNoDocument = errors.New("no document to normalize")

// Normalizer converts one SBOM document family into components and
// dependency edges. Implementations must be deterministic: normalizing
// the same document twice yields the same inventory.
type Normalizer interface {
	plugin.Plugin

	// Format returns the document format tag this normalizer understands.
	Format() string
	// Normalize converts the parsed document into the canonical model.
	// Malformed entries inside a parseable document are defaulted or
	// skipped with a warning, never turned into an error.
	Normalize(ctx context.Context, doc *document.Document) (inventory.Inventory, error)
}

// Config stores the configuration for a normalization run.
type Config struct {
	Normalizers []Normalizer
	Document    *document.Document
	Stats       stats.Collector
}

// Run normalizes the document with the normalizer that recognizes its
// format tag. A format tag no configured normalizer recognizes produces
// an empty inventory and a warning, not an error; the rest of the
// pipeline proceeds on the empty result.
func Run(ctx context.Context, config *Config) (inventory.Inventory, []*plugin.Status, error) {
	inv := inventory.Inventory{}
	if config.Document == nil {
		return inv, nil, errNoDocument
	}

	n := forFormat(config.Normalizers, config.Document.Format)
	if n == nil {
		log.Warnf("No normalizer recognizes format %q, producing an empty inventory: %s", config.Document.Format, config.Document.Path)
		return inv, nil, nil
	}
	if err := ctx.Err(); err != nil {
		return inv, nil, err
	}

	start := time.Now()
	docInv, err := n.Normalize(ctx, config.Document)
	if config.Stats != nil {
		config.Stats.AfterNormalizerRun(n.Name(), &stats.AfterNormalizerStats{
			Path:      config.Document.Path,
			Format:    config.Document.Format,
			Runtime:   time.Since(start),
			Inventory: &docInv,
			Error:     err,
		})
	}
	status := []*plugin.Status{plugin.StatusFromErr(n, false, err)}
	if err != nil {
		return inv, status, err
	}
	inv.Append(docInv)
	return inv, status, nil
}

func forFormat(normalizers []Normalizer, format string) Normalizer {
	var match Normalizer
	for _, n := range normalizers {
		if n.Format() != format {
			continue
		}
		if match != nil {
			log.Debugf("Multiple normalizers recognize format %q, keeping %s", format, match.Name())
			continue
		}
		match = n
	}
	return match
}
