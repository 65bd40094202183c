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

// Package document reads SBOM files from disk and deserializes them into
// their format-specific object models. Parse failures here are the only
// fatal errors in the pipeline; everything downstream degrades instead of
// aborting.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unicode"

	"github.com/CycloneDX/cyclonedx-go"
	"github.com/sbomvisor/sbomvisor/log"
	"github.com/spdx/tools-golang/json"
	"github.com/spdx/tools-golang/spdx"
	"github.com/spdx/tools-golang/tagvalue"
	"github.com/tidwall/gjson"
)

// Format tags of the supported document families.
const (
	// FormatCycloneDX marks CycloneDX documents (JSON or XML encoding).
	FormatCycloneDX = "cyclonedx"
	// FormatSPDX marks SPDX documents (JSON or tag-value encoding).
	FormatSPDX = "spdx"
)

var errUnrecognizedContent = errors.New("unrecognized document content")

// Document is one deserialized SBOM. Exactly one of the format-specific
// payloads is set, matching the format the content was parsed as. Format
// holds the caller-declared tag, which normalizer dispatch runs on; it can
// differ from the parsed payload if the caller declared a tag we don't
// recognize.
type Document struct {
	// Path the document was read from, for logging and occurrence records.
	Path string
	// Format is the declared format tag, or the detected one if the caller
	// left it empty.
	Format string

	CDX  *cyclonedx.BOM
	SPDX *spdx.Document
}

// FromFile reads and parses the SBOM file at the given path. An empty
// format makes the content decide.
func FromFile(path string, format string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, path, format)
}

// Parse deserializes raw SBOM content. The declared format selects the
// decoder; an empty or unrecognized format falls back to content
// detection, keeping the declared tag on the returned Document. Content
// that parses as no supported format is a fatal parse error.
func Parse(data []byte, path string, format string) (*Document, error) {
	doc := &Document{Path: path, Format: format}

	parseAs := format
	if parseAs != FormatCycloneDX && parseAs != FormatSPDX {
		detected := Detect(data)
		if detected == "" {
			return nil, fmt.Errorf("parsing %s: %w", path, errUnrecognizedContent)
		}
		if format != "" {
			log.Warnf("Declared format %q is not recognized, content looks like %s: %s", format, detected, path)
		} else {
			doc.Format = detected
		}
		parseAs = detected
	}

	var err error
	switch parseAs {
	case FormatCycloneDX:
		doc.CDX, err = parseCycloneDX(data)
	case FormatSPDX:
		doc.SPDX, err = parseSPDX(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Detect inspects raw content and returns the format tag it looks like,
// or "" if it matches no supported format.
func Detect(data []byte) string {
	trimmed := bytes.TrimLeftFunc(data, unicode.IsSpace)
	switch {
	case len(trimmed) == 0:
		return ""
	case trimmed[0] == '{':
		parsed := gjson.ParseBytes(data)
		if parsed.Get("bomFormat").String() == "CycloneDX" {
			return FormatCycloneDX
		}
		if parsed.Get("spdxVersion").Exists() {
			return FormatSPDX
		}
		// Older CycloneDX JSON exports don't always carry bomFormat.
		if parsed.Get("components").Exists() || parsed.Get("dependencies").Exists() {
			return FormatCycloneDX
		}
	case trimmed[0] == '<':
		if bytes.Contains(data, []byte("<bom")) {
			return FormatCycloneDX
		}
	case bytes.HasPrefix(trimmed, []byte("SPDXVersion:")):
		return FormatSPDX
	}
	return ""
}

func parseCycloneDX(data []byte) (*cyclonedx.BOM, error) {
	encoding := cyclonedx.BOMFileFormatJSON
	trimmed := bytes.TrimLeftFunc(data, unicode.IsSpace)
	if len(trimmed) > 0 && trimmed[0] == '<' {
		encoding = cyclonedx.BOMFileFormatXML
	}
	var bom cyclonedx.BOM
	if err := cyclonedx.NewBOMDecoder(bytes.NewReader(data), encoding).Decode(&bom); err != nil {
		return nil, err
	}
	return &bom, nil
}

func parseSPDX(data []byte) (*spdx.Document, error) {
	trimmed := bytes.TrimLeftFunc(data, unicode.IsSpace)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return json.Read(bytes.NewReader(data))
	}
	return tagvalue.Read(bytes.NewReader(data))
}
