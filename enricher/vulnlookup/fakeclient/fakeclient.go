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

// Package fakeclient contains a mock implementation of the vulndb client
// for testing purposes.
package fakeclient

import (
	"context"
	"sync"
	"time"

	"github.com/sbomvisor/sbomvisor/inventory"
)

// Client is a fake vulnlookup backend serving findings from a map.
// Packages it doesn't know yield no findings and no error, matching the
// real client's behavior for unknown packages.
type Client struct {
	findings map[string][]*inventory.Finding
	errs     map[string]error
	delays   map[string]time.Duration

	mu    sync.Mutex
	calls int
}

// Key builds the lookup key for a package name and version.
func Key(name, version string) string {
	return name + "@" + version
}

// New returns a fake client serving the given findings, keyed by
// Key(name, version).
func New(findings map[string][]*inventory.Finding) *Client {
	return &Client{
		findings: findings,
		errs:     make(map[string]error),
		delays:   make(map[string]time.Duration),
	}
}

// SetErr makes lookups for the given package fail.
func (c *Client) SetErr(name, version string, err error) {
	c.errs[Key(name, version)] = err
}

// SetDelay makes lookups for the given package block for d before
// responding, or until the lookup context expires.
func (c *Client) SetDelay(name, version string, d time.Duration) {
	c.delays[Key(name, version)] = d
}

// Calls returns the number of lookups made so far.
func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Vulns implements vulnlookup.Client.
func (c *Client) Vulns(ctx context.Context, name, version string) ([]*inventory.Finding, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	key := Key(name, version)
	if d := c.delays[key]; d > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d):
		}
	}
	if err := c.errs[key]; err != nil {
		return nil, err
	}
	return c.findings[key], nil
}
