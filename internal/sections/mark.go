package sections

import (
	"strings"
	"unicode/utf8"
)

const (
	// ChunkSize is the number of lines joined for one regex pass.
	ChunkSize = 100

	// MaxSectionLines is the tallest header the chunk overlap guarantees to
	// see whole. Consecutive chunks share this many lines.
	MaxSectionLines = 5
)

// Group names read from mark matches.
const (
	LabelGroup     = "label"
	SeparatorGroup = "separator"
)

// collectMarkHeaders runs pattern over model in overlapping chunks. Any
// match error aborts the scan and discards everything found so far.
func collectMarkHeaders(model TextModel, pattern Pattern) ([]SectionHeader, error) {
	var headers []SectionHeader
	lineCount := model.LineCount()

	for startLine := 1; startLine <= lineCount; startLine += ChunkSize - MaxSectionLines {
		endLine := min(startLine+ChunkSize-1, lineCount)
		text := joinLines(model, startLine, endLine)

		cursor := 0
		for cursor <= len(text) {
			m, err := pattern.FindNext(text, cursor)
			if err != nil {
				return nil, err
			}
			if m == nil {
				break
			}

			h, ok := markHeader(text, startLine, m)
			if ok && (len(headers) == 0 || headers[len(headers)-1].Range.EndLineNumber < h.Range.StartLineNumber) {
				headers = append(headers, h)
			}

			cursor = nextCursor(text, m)
		}
	}
	return headers, nil
}

func joinLines(model TextModel, startLine, endLine int) string {
	var b strings.Builder
	for i := startLine; i <= endLine; i++ {
		if i > startLine {
			b.WriteByte('\n')
		}
		b.WriteString(model.LineContent(i))
	}
	return b.String()
}

// markHeader translates a match inside a chunk that begins at document line
// startLine. ok is false when the match has neither label nor separator.
func markHeader(text string, startLine int, m *Match) (SectionHeader, bool) {
	preceding := text[:m.Start]
	matched := text[m.Start:m.End]

	lineNumber := startLine + strings.Count(preceding, "\n")
	matchLines := strings.Split(matched, "\n")
	matchHeight := len(matchLines)

	lineStart := strings.LastIndexByte(preceding, '\n') + 1
	startColumn := utf8.RuneCountInString(preceding[lineStart:]) + 1

	var endColumn int
	if matchHeight == 1 {
		endColumn = startColumn + utf8.RuneCountInString(matched)
	} else {
		endColumn = utf8.RuneCountInString(matchLines[matchHeight-1]) + 1
	}

	label, _ := m.Group(LabelGroup)
	sep, _ := m.Group(SeparatorGroup)

	h := SectionHeader{
		Range: Range{
			StartLineNumber: lineNumber,
			StartColumn:     startColumn,
			EndLineNumber:   lineNumber + matchHeight - 1,
			EndColumn:       endColumn,
		},
		Text:               label,
		HasSeparatorLine:   sep != "",
		ShouldBeInComments: true,
	}
	return h, h.Text != "" || h.HasSeparatorLine
}
