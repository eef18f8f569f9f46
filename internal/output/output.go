// Package output writes scan results as text, JSON or YAML.
package output

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/sectionscan/internal/scan"
	"github.com/dshills/sectionscan/internal/sections"
)

// ErrUnknownFormat indicates an output format no encoder handles.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Header kinds.
const (
	KindRegion = "region"
	KindMark   = "mark"
)

// Encoder writes a batch of scan results.
type Encoder interface {
	Encode(w io.Writer, results []scan.FileResult) error
}

var encoders = map[string]Encoder{
	FormatText: TextEncoder{},
	FormatJSON: JSONEncoder{Indent: "  "},
	FormatYAML: YAMLEncoder{},
}

// ForFormat returns the encoder for name.
func ForFormat(name string) (Encoder, error) {
	enc, ok := encoders[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, name, strings.Join(Formats(), ", "))
	}
	return enc, nil
}

// Formats returns the supported format names in sorted order.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Kind returns the kind of h. Only mark headers are expected inside
// comments.
func Kind(h sections.SectionHeader) string {
	if h.ShouldBeInComments {
		return KindMark
	}
	return KindRegion
}

// TextEncoder writes one grep-like line per header:
//
//	path:line:col: [kind] label
//
// Headers with a separator line have their label prefixed with "- ".
// Failed files produce a "path: error: ..." line.
type TextEncoder struct{}

// Encode implements Encoder.
func (TextEncoder) Encode(w io.Writer, results []scan.FileResult) error {
	bw := bufio.NewWriter(w)
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(bw, "%s: error: %v\n", res.Path, res.Err)
			continue
		}
		for _, h := range res.Headers {
			label := h.Text
			if h.HasSeparatorLine {
				label = strings.TrimSpace("- " + label)
			}
			fmt.Fprintf(bw, "%s:%d:%d: [%s] %s\n",
				res.Path, h.Range.StartLineNumber, h.Range.StartColumn, Kind(h), label)
		}
	}
	return bw.Flush()
}

// document is the structured form shared by the JSON and YAML encoders.
type document struct {
	Path     string   `json:"path" yaml:"path"`
	Language string   `json:"language,omitempty" yaml:"language,omitempty"`
	Headers  []header `json:"headers" yaml:"headers"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type header struct {
	Kind                   string `json:"kind" yaml:"kind"`
	sections.SectionHeader `yaml:",inline"`
}

func documents(results []scan.FileResult) []document {
	docs := make([]document, len(results))
	for i, res := range results {
		doc := document{
			Path:     res.Path,
			Language: res.Language,
			Headers:  make([]header, len(res.Headers)),
		}
		if res.Err != nil {
			doc.Error = res.Err.Error()
		}
		for j, h := range res.Headers {
			doc.Headers[j] = header{Kind: Kind(h), SectionHeader: h}
		}
		docs[i] = doc
	}
	return docs
}

// JSONEncoder writes results as a JSON array.
type JSONEncoder struct {
	// Indent is the per-level indentation; empty writes compact JSON.
	Indent string
}

// Encode implements Encoder.
func (e JSONEncoder) Encode(w io.Writer, results []scan.FileResult) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if e.Indent != "" {
		enc.SetIndent("", e.Indent)
	}
	if err := enc.Encode(documents(results)); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// YAMLEncoder writes results as a YAML sequence.
type YAMLEncoder struct{}

// Encode implements Encoder.
func (YAMLEncoder) Encode(w io.Writer, results []scan.FileResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(documents(results)); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return nil
}
