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

package stats

import (
	"time"

	"github.com/sbomvisor/sbomvisor/inventory"
)

// AfterNormalizerStats is a struct containing stats about the results of
// a document normalization run.
type AfterNormalizerStats struct {
	Path    string
	Format  string
	Runtime time.Duration

	Inventory *inventory.Inventory
	Error     error
}

// AfterGraphStats is a struct containing stats about a built dependency
// graph.
type AfterGraphStats struct {
	Nodes           int
	Edges           int
	UnresolvedNodes int
	Runtime         time.Duration
}
