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

package converter

import (
	"fmt"
	"io"
	"strings"

	"github.com/sbomvisor/sbomvisor/inventory"
)

// WriteReport writes a human-readable vulnerability report, one line per
// looked-up identity plus a line per finding, followed by a summary count.
func WriteReport(w io.Writer, table *inventory.VulnTable) error {
	if table == nil {
		table = inventory.NewVulnTable()
	}
	var b strings.Builder
	b.WriteString("Vulnerabilities Report:\n\n")

	var clean, unknown, withFindings int
	for _, id := range table.Identities() {
		res, ok := table.Get(id)
		if !ok {
			continue
		}
		switch res.Status {
		case inventory.VulnStatusClean:
			clean++
			fmt.Fprintf(&b, "%s: %s\n", id, res.Status)
		case inventory.VulnStatusFindings:
			withFindings++
			fmt.Fprintf(&b, "%s: %s\n", id, res.Status)
			for _, f := range res.Findings {
				fmt.Fprintf(&b, "  - %s (%s)", f.ID, f.Severity)
				if f.Summary != "" {
					fmt.Fprintf(&b, ": %s", f.Summary)
				}
				b.WriteString("\n")
			}
		default:
			unknown++
			fmt.Fprintf(&b, "%s: %s", id, res.Status)
			if res.Reason != "" {
				fmt.Fprintf(&b, " (%s)", res.Reason)
			}
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\n%d components: %d with findings, %d clean, %d unknown\n",
		clean+unknown+withFindings, withFindings, clean, unknown)

	_, err := io.WriteString(w, b.String())
	return err
}
