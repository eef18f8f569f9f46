package sections

import "unicode/utf8"

// CollectRegionHeaders scans each line of model for the start marker and
// returns a header for the text following the marker. Lines whose marker
// consumes the whole line, or whose remaining text normalizes to nothing
// without a separator, are skipped.
//
// A marker that fails to run on a line is treated as not matching.
func CollectRegionHeaders(model TextModel, start Pattern) []SectionHeader {
	if start == nil {
		return nil
	}

	var headers []SectionHeader
	lineCount := model.LineCount()
	for lineNumber := 1; lineNumber <= lineCount; lineNumber++ {
		line := model.LineContent(lineNumber)
		m, err := start.FindNext(line, 0)
		if err != nil || m == nil {
			continue
		}

		r := Range{
			StartLineNumber: lineNumber,
			StartColumn:     utf8.RuneCountInString(line[:m.End]) + 1,
			EndLineNumber:   lineNumber,
			EndColumn:       utf8.RuneCountInString(line) + 1,
		}
		if r.EndColumn <= r.StartColumn {
			continue
		}

		text, sep := NormalizeHeaderText(line[m.End:])
		if text == "" && !sep {
			continue
		}
		headers = append(headers, SectionHeader{
			Range:              r,
			Text:               text,
			HasSeparatorLine:   sep,
			ShouldBeInComments: false,
		})
	}
	return headers
}
