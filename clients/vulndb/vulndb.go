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

// Package vulndb implements a client for the vulndb HTTP API, which
// serves known vulnerabilities for a package name and version.
package vulndb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/icholy/digest"
	"github.com/sbomvisor/sbomvisor/inventory"
	"github.com/sbomvisor/sbomvisor/log"
	"github.com/sbomvisor/sbomvisor/severity"
	"github.com/sbomvisor/sbomvisor/version"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the public vulndb endpoint.
const DefaultBaseURL = "https://api.vulndb.dev"

const (
	maxAttempts    = 2
	retryBaseDelay = 250 * time.Millisecond
)

// errTransient marks failures worth one more attempt: network flakes and
// server-side errors. Client-side errors and context cancellation are
// never retried.
var errTransient = errors.New("transient lookup error")

// Config configures a vulndb Client.
type Config struct {
	// BaseURL of the vulndb server. Defaults to DefaultBaseURL.
	BaseURL string
	// APIKey is sent in the X-API-Key header when set.
	APIKey string
	// Username and Password enable HTTP digest auth. Self-hosted vulndb
	// mirrors commonly sit behind it.
	Username string
	Password string
	// UserAgent overrides the default sbomvisor user agent.
	UserAgent string
	// HTTPClient overrides the default http.Client.
	HTTPClient *http.Client
}

// DefaultConfig returns the configuration for the public vulndb endpoint.
func DefaultConfig() *Config {
	return &Config{BaseURL: DefaultBaseURL}
}

// Client queries a vulndb server over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
}

// NewClient returns a Client for the given config. A nil config selects
// the public endpoint.
func NewClient(cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "sbomvisor/" + version.ScannerVersion
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Username != "" {
		// Wrap a copy so the caller's client is left untouched.
		wrapped := *httpClient
		wrapped.Transport = &digest.Transport{
			Username:  cfg.Username,
			Password:  cfg.Password,
			Transport: httpClient.Transport,
		}
		httpClient = &wrapped
	}
	return &Client{
		baseURL:    strings.TrimSuffix(base, "/"),
		apiKey:     cfg.APIKey,
		userAgent:  userAgent,
		httpClient: httpClient,
	}
}

// Vulns returns the known vulnerabilities of a package version. An empty
// version queries by name only. A package unknown to the server yields
// no findings and no error.
func (c *Client) Vulns(ctx context.Context, name, pkgVersion string) ([]*inventory.Finding, error) {
	if name == "" {
		return nil, errors.New("no package name to look up")
	}
	u := fmt.Sprintf("%s/api/v1/vulns/%s", c.baseURL, url.PathEscape(name))
	if pkgVersion != "" {
		u += "?version=" + url.QueryEscape(pkgVersion)
	}

	var body []byte
	err := withRetry(ctx, maxAttempts, retryBaseDelay, func() error {
		var err error
		body, err = c.get(ctx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	return parseFindings(body), nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return io.ReadAll(resp.Body)
	case resp.StatusCode == http.StatusNotFound:
		// Unknown package, not an error.
		return nil, nil
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s", errTransient, resp.Status)
	default:
		return nil, errors.New(resp.Status)
	}
}

func parseFindings(body []byte) []*inventory.Finding {
	if len(body) == 0 {
		return nil
	}
	var findings []*inventory.Finding
	for _, v := range gjson.ParseBytes(body).Get("vulns").Array() {
		f := &inventory.Finding{
			ID:      v.Get("id").String(),
			Summary: v.Get("summary").String(),
		}
		if f.ID == "" {
			log.Debugf("Skipping vulndb record without an id: %s", v.Raw)
			continue
		}
		vector := v.Get("severity.score").String()
		score, rating, err := severity.ScoreAndRating(vector)
		if err != nil {
			log.Warnf("Malformed severity %q on %s: %v", vector, f.ID, err)
			score, rating = -1, severity.UnknownRating
			vector = ""
		}
		f.Score = score
		f.Severity = rating
		f.CVSS = vector
		findings = append(findings, f)
	}
	slices.SortFunc(findings, func(a, b *inventory.Finding) int {
		return strings.Compare(a.ID, b.ID)
	})
	return findings
}

// withRetry runs fn up to maxAttempts times with jittered backoff,
// doubling the delay each round. Only transient failures are retried;
// everything else returns immediately.
func withRetry(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	var lastErr error
	delay := baseDelay
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, errTransient) || attempt == maxAttempts {
			break
		}
		if ctx.Err() != nil {
			return lastErr
		}
		jitter := time.Duration(rand.Int63n(int64(delay / 2)))
		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(delay + jitter):
		}
		delay *= 2
	}
	return lastErr
}
