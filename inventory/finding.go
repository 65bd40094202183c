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

// VulnStatus is the outcome class of a vulnerability lookup for one
// component identity.
type VulnStatus int

// VulnStatus values.
const (
	// VulnStatusUnknown means the lookup didn't produce an answer, e.g.
	// because the source was unreachable or the lookup timed out. The
	// components are not known to be clean.
	VulnStatusUnknown VulnStatus = iota
	// VulnStatusClean means the source answered and reported no findings.
	VulnStatusClean
	// VulnStatusFindings means the source reported one or more findings.
	VulnStatusFindings
)

// String returns a human-readable name for the status.
func (s VulnStatus) String() string {
	switch s {
	case VulnStatusClean:
		return "CLEAN"
	case VulnStatusFindings:
		return "FINDINGS"
	case VulnStatusUnknown:
		fallthrough
	default:
		return "UNKNOWN"
	}
}

// Finding is one security advisory reported for a component identity.
type Finding struct {
	// ID of the advisory, e.g. a CVE or GHSA identifier.
	ID string
	// Severity is the normalized rating: CRITICAL, HIGH, MEDIUM, LOW,
	// NONE or UNKNOWN.
	Severity string
	// Score is the CVSS base score the rating was computed from, -1 if the
	// source didn't report a usable vector.
	Score float64
	// CVSS is the raw CVSS vector string as reported by the source.
	CVSS string
	// Summary is a short description of the advisory.
	Summary string
}

// VulnResult is the recorded outcome of the vulnerability lookup for one
// component identity.
type VulnResult struct {
	Status VulnStatus
	// Findings reported by the source. Only set for VulnStatusFindings.
	Findings []*Finding
	// Reason describes why no answer was obtained. Only set for
	// VulnStatusUnknown.
	Reason string
}
