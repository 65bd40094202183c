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
	"encoding/csv"
	"io"
	"strings"

	"bitbucket.org/creachadair/stringset"
	"github.com/sbomvisor/sbomvisor/inventory"
)

var csvHeader = []string{"Name", "Version", "Type", "Group", "PURL", "Licenses", "Supplier", "Source Format"}

// ToCSV writes one row per component. Multi-valued cells like licenses
// are joined with ";".
func ToCSV(w io.Writer, components []*inventory.Component) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, c := range components {
		row := []string{
			c.Name,
			c.Version,
			string(c.Type),
			c.Group,
			c.PURL,
			licenseCell(c.Licenses),
			c.Supplier,
			c.SourceFormat,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func licenseCell(licenses []string) string {
	return strings.Join(stringset.New(licenses...).Elements(), ";")
}
