package sections

// DefaultMarkSectionHeaderRegex matches "MARK: label" comments with an
// optional leading "-" separator.
const DefaultMarkSectionHeaderRegex = `\bMARK:\s*(?<separator>-?)\s*(?<label>.*)$`

// TextModel is the line oriented view of a document the collectors scan.
type TextModel interface {
	// LineCount returns the number of lines in the document.
	LineCount() int
	// LineContent returns the text of a 1-based line without its line ending.
	LineContent(lineNumber int) string
}

// Range is a 1-based rectangle over a text buffer. Columns count runes.
type Range struct {
	StartLineNumber int `json:"startLineNumber" yaml:"startLineNumber"`
	StartColumn     int `json:"startColumn" yaml:"startColumn"`
	EndLineNumber   int `json:"endLineNumber" yaml:"endLineNumber"`
	EndColumn       int `json:"endColumn" yaml:"endColumn"`
}

// IsSingleLine reports whether the range starts and ends on the same line.
func (r Range) IsSingleLine() bool {
	return r.StartLineNumber == r.EndLineNumber
}

// Valid reports whether the range is ordered.
func (r Range) Valid() bool {
	if r.StartLineNumber < 1 || r.StartColumn < 1 {
		return false
	}
	if r.EndLineNumber != r.StartLineNumber {
		return r.EndLineNumber > r.StartLineNumber
	}
	return r.EndColumn >= r.StartColumn
}

// SectionHeader is one detected header. Values are created fresh on every
// scan and are never shared between calls.
type SectionHeader struct {
	// Range covers the header label (region headers) or the whole match
	// (mark headers).
	Range Range `json:"range" yaml:"range"`

	// Text is the label. It may be empty when HasSeparatorLine is set.
	Text string `json:"text" yaml:"text"`

	// HasSeparatorLine is set when the header carries a decorative
	// separator such as a leading "-".
	HasSeparatorLine bool `json:"hasSeparatorLine" yaml:"hasSeparatorLine"`

	// ShouldBeInComments tells consumers the match is only meaningful inside
	// a comment. It is false for region headers and true for mark headers;
	// checking comment tokens is left to the consumer.
	ShouldBeInComments bool `json:"shouldBeInComments" yaml:"shouldBeInComments"`
}

// FoldingMarkers are a language's region markers.
type FoldingMarkers struct {
	Start Pattern
	End   Pattern
}

// FoldingRules holds the folding configuration of a language.
type FoldingRules struct {
	Markers *FoldingMarkers
}

// Options selects which collectors run and how they are configured.
type Options struct {
	// FindRegionSectionHeaders enables region headers. It has no effect
	// unless FoldingRules has start markers.
	FindRegionSectionHeaders bool

	// FindMarkSectionHeaders enables mark headers.
	FindMarkSectionHeaders bool

	// FoldingRules supplies the region start marker.
	FoldingRules *FoldingRules

	// MarkSectionHeaderRegex is the user pattern for mark headers. It should
	// contain a "label" group and may contain a "separator" group.
	MarkSectionHeaderRegex string
}

func (o Options) regionMarker() Pattern {
	if o.FoldingRules == nil || o.FoldingRules.Markers == nil {
		return nil
	}
	return o.FoldingRules.Markers.Start
}
