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

package inventory

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrDuplicateResult is returned when a vulnerability result is recorded
// twice for the same identity. A second completion is a logic error in the
// caller, not a data condition.
var ErrDuplicateResult = errors.New("vulnerability result already recorded for identity")

// VulnTable collects vulnerability lookup results keyed by component
// identity. Identities move one way from absent ("not yet resolved") to
// resolved; a recorded result never changes. The table is safe for
// concurrent use by workers resolving distinct identities.
type VulnTable struct {
	mu      sync.RWMutex
	results map[Identity]*VulnResult
}

// NewVulnTable returns an empty table.
func NewVulnTable() *VulnTable {
	return &VulnTable{results: make(map[Identity]*VulnResult)}
}

// Resolve records the lookup result for an identity. It returns
// ErrDuplicateResult if a result for the identity was already recorded.
func (t *VulnTable) Resolve(id Identity, res *VulnResult) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.results[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateResult, id)
	}
	t.results[id] = res
	return nil
}

// Get returns the recorded result for an identity, or false if the
// identity hasn't been resolved yet.
func (t *VulnTable) Get(id Identity) (*VulnResult, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	res, ok := t.results[id]
	return res, ok
}

// Len returns the number of resolved identities.
func (t *VulnTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.results)
}

// Identities returns the resolved identities sorted by name then version.
func (t *VulnTable) Identities() []Identity {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]Identity, 0, len(t.results))
	for id := range t.results {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b Identity) int {
		if a.Name != b.Name {
			if a.Name < b.Name {
				return -1
			}
			return 1
		}
		if a.Version < b.Version {
			return -1
		} else if a.Version > b.Version {
			return 1
		}
		return 0
	})
	return ids
}

// Snapshot returns a copy of the table's contents. The VulnResult values
// are shared, not copied.
func (t *VulnTable) Snapshot() map[Identity]*VulnResult {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[Identity]*VulnResult, len(t.results))
	for id, res := range t.results {
		out[id] = res
	}
	return out
}
