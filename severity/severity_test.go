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

package severity_test

import (
	"math"
	"testing"

	"github.com/sbomvisor/sbomvisor/severity"
)

func TestScoreAndRating(t *testing.T) {
	tests := []struct {
		name       string
		vector     string
		want       float64
		wantRating string
	}{
		{
			name:       "empty vector",
			vector:     "",
			want:       -1,
			wantRating: "UNKNOWN",
		},
		{
			name:       "CVSS v2.0",
			vector:     "AV:L/AC:M/Au:N/C:N/I:P/A:C/E:H/RL:U/RC:C/CDP:LM/TD:M/CR:L/IR:M/AR:H",
			want:       5.4,
			wantRating: "MEDIUM",
		},
		{
			name:       "CVSS v3.0",
			vector:     "CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:C/C:H/I:H/A:H",
			want:       10.0,
			wantRating: "CRITICAL",
		},
		{
			name:       "CVSS v3.1",
			vector:     "CVSS:3.1/AV:N/AC:L/PR:N/UI:R/S:U/C:H/I:H/A:H",
			want:       8.8,
			wantRating: "HIGH",
		},
		{
			name:       "CVSS v4.0",
			vector:     "CVSS:4.0/AV:N/AC:L/AT:N/PR:N/UI:N/VC:H/VI:H/VA:H/SC:N/SI:N/SA:N",
			want:       9.3,
			wantRating: "CRITICAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rating, err := severity.ScoreAndRating(tt.vector)
			if err != nil {
				t.Fatalf("ScoreAndRating(%q) error: %v", tt.vector, err)
			}
			// CVSS scores are only supposed to be to 1 decimal place.
			// Multiply and round to get around potential precision issues.
			if math.Round(10*got) != math.Round(10*tt.want) {
				t.Errorf("ScoreAndRating(%q) = %.1f, want %.1f", tt.vector, got, tt.want)
			}
			if rating != tt.wantRating {
				t.Errorf("ScoreAndRating(%q) rating = %q, want %q", tt.vector, rating, tt.wantRating)
			}
		})
	}
}

func TestScoreAndRatingErrors(t *testing.T) {
	tests := []struct {
		name   string
		vector string
	}{
		{
			name:   "unsupported version",
			vector: "CVSS:9.9/AV:N",
		},
		{
			name:   "garbage vector",
			vector: "not-a-vector",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := severity.ScoreAndRating(tt.vector); err == nil {
				t.Errorf("ScoreAndRating(%q) returned no error, want one", tt.vector)
			}
		})
	}
}
