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

// Package jsonresult serializes scan results into the JSON result file
// written by the sbomvisor binary.
package jsonresult

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sbomvisor/sbomvisor"
	"github.com/sbomvisor/sbomvisor/inventory"
	"github.com/sbomvisor/sbomvisor/log"
	"github.com/sbomvisor/sbomvisor/plugin"
)

// Result is the schema of the JSON result file. Statuses are rendered as
// strings so the file is readable without this package's enum values.
type Result struct {
	Version      string
	StartTime    time.Time
	EndTime      time.Time
	Status       Status
	PluginStatus []PluginStatus             `json:",omitempty"`
	Components   []*inventory.Component     `json:",omitempty"`
	Edges        []inventory.DependencyEdge `json:",omitempty"`
	Unresolved   []inventory.Identity       `json:",omitempty"`
	Vulns        map[string]VulnResult      `json:",omitempty"`
}

// Status describes the outcome of the scan or of a single plugin run.
type Status struct {
	Status        string
	FailureReason string `json:",omitempty"`
}

// PluginStatus is the per-plugin entry of the result file.
type PluginStatus struct {
	Name    string
	Version int
	Status  Status
}

// VulnResult is the vulnerability lookup outcome for one identity.
type VulnResult struct {
	Status   string
	Reason   string               `json:",omitempty"`
	Findings []*inventory.Finding `json:",omitempty"`
}

// FromScanResult converts a scan result into the JSON result schema. The
// graph is flattened into its sorted component and edge lists and the
// vulnerability table is keyed by name@version identity strings.
func FromScanResult(r *sbomvisor.ScanResult) *Result {
	res := &Result{
		Version:   r.Version,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Status:    toStatus(r.Status),
	}
	for _, s := range r.PluginStatus {
		res.PluginStatus = append(res.PluginStatus, PluginStatus{
			Name:    s.Name,
			Version: s.Version,
			Status:  toStatus(s.Status),
		})
	}
	if r.Graph != nil {
		res.Components = r.Graph.Components()
		res.Edges = r.Graph.Edges()
		for _, c := range res.Components {
			if c.Unresolved {
				res.Unresolved = append(res.Unresolved, c.Identity())
			}
		}
	}
	if r.Vulns != nil && r.Vulns.Len() > 0 {
		res.Vulns = make(map[string]VulnResult, r.Vulns.Len())
		for id, v := range r.Vulns.Snapshot() {
			res.Vulns[id.String()] = VulnResult{
				Status:   v.Status.String(),
				Reason:   v.Reason,
				Findings: v.Findings,
			}
		}
	}
	return res
}

func toStatus(s *plugin.ScanStatus) Status {
	if s == nil {
		return Status{}
	}
	return Status{Status: statusName(s.Status), FailureReason: s.FailureReason}
}

func statusName(s plugin.ScanStatusEnum) string {
	switch s {
	case plugin.ScanStatusSucceeded:
		return "SUCCEEDED"
	case plugin.ScanStatusPartiallySucceeded:
		return "PARTIALLY_SUCCEEDED"
	case plugin.ScanStatusFailed:
		return "FAILED"
	case plugin.ScanStatusUnspecified:
		fallthrough
	default:
		return "UNSPECIFIED"
	}
}

// ValidExtension returns an error if the path is not a supported result
// file name.
func ValidExtension(path string) error {
	return validatePath(path)
}

func validatePath(path string) error {
	ext := filepath.Ext(path)
	if ext == "" {
		return errors.New("invalid filename: Doesn't have an extension")
	}
	if ext == ".gz" {
		ext = filepath.Ext(strings.TrimSuffix(path, ext))
		if ext == "" {
			return errors.New("invalid filename: Gzipped file doesn't have an extension")
		}
	}
	if ext != ".json" {
		return errors.New("invalid filename: not a .json file")
	}
	return nil
}

// Write writes the result to a .json file. If the file name additionally
// has the .gz suffix, it's zipped before writing.
func Write(path string, res *Result) error {
	if err := validatePath(path); err != nil {
		return err
	}
	p, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}

	log.Infof("Marshaled scan result has %d bytes", len(p))

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if filepath.Ext(path) == ".gz" {
		writer := gzip.NewWriter(f)
		if _, err := writer.Write(p); err != nil {
			return err
		}
		if err := writer.Close(); err != nil {
			return err
		}
	} else if _, err := f.Write(p); err != nil {
		return err
	}
	return nil
}
