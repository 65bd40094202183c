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

// Package severity computes numeric scores and ratings from CVSS vector
// strings. The CVSS version is taken from the vector prefix; vectors
// without one are treated as CVSS 2.0, which never carried a prefix.
package severity

import (
	"fmt"
	"strings"

	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"
)

// UnknownRating is returned when a score has no defined rating.
const UnknownRating = "UNKNOWN"

// ScoreAndRating returns the base score (0.0 - 10.0) and the rating
// (e.g. "CRITICAL") for a CVSS vector.
//
// Returns (-1.0, "UNKNOWN", nil) for an empty vector.
// Returns (-1.0, "", error) if the vector is malformed or its version is
// not supported.
func ScoreAndRating(vector string) (float64, string, error) {
	if vector == "" {
		return -1.0, UnknownRating, nil
	}

	switch {
	case strings.HasPrefix(vector, "CVSS:3.0/"):
		vec, err := gocvss30.ParseVector(vector)
		if err != nil {
			return -1.0, "", err
		}
		score := vec.BaseScore()
		rating, err := gocvss30.Rating(score)
		if err != nil {
			rating = UnknownRating
		}
		return score, rating, nil
	case strings.HasPrefix(vector, "CVSS:3.1/"):
		vec, err := gocvss31.ParseVector(vector)
		if err != nil {
			return -1.0, "", err
		}
		score := vec.BaseScore()
		rating, err := gocvss31.Rating(score)
		if err != nil {
			rating = UnknownRating
		}
		return score, rating, nil
	case strings.HasPrefix(vector, "CVSS:4.0/"):
		vec, err := gocvss40.ParseVector(vector)
		if err != nil {
			return -1.0, "", err
		}
		score := vec.Score()
		rating, err := gocvss40.Rating(score)
		if err != nil {
			rating = UnknownRating
		}
		return score, rating, nil
	case strings.HasPrefix(vector, "CVSS:"):
		return -1.0, "", fmt.Errorf("unsupported CVSS version: %s", vector)
	default:
		vec, err := gocvss20.ParseVector(vector)
		if err != nil {
			return -1.0, "", err
		}
		score := vec.BaseScore()
		// CVSS 2.0 does not define ratings. Use the CVSS 3.0 rating instead.
		rating, err := gocvss30.Rating(score)
		if err != nil {
			rating = UnknownRating
		}
		return score, rating, nil
	}
}

// Score returns the base score for a CVSS vector.
//
// Returns (-1.0, nil) for an empty vector.
// Returns (-1.0, error) if the vector is malformed.
func Score(vector string) (float64, error) {
	score, _, err := ScoreAndRating(vector)
	return score, err
}
