package buffer

// lineIndex records the byte offset where each line starts. Entry 0 is
// always 0, so an empty text still has one line.
type lineIndex []int

// computeLineIndex scans s once and records every line start.
func computeLineIndex(s string) lineIndex {
	n := 1
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
		}
	}

	idx := make(lineIndex, 1, n)
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			idx = append(idx, i+1)
		}
	}
	return idx
}

func (idx lineIndex) count() int {
	if len(idx) == 0 {
		return 1
	}
	return len(idx)
}

// bounds returns the byte range of 0-based line within a text of length
// textLen, excluding the newline.
func (idx lineIndex) bounds(line, textLen int) (start, end int, ok bool) {
	if len(idx) == 0 {
		return 0, 0, line == 0
	}
	if line < 0 || line >= len(idx) {
		return 0, 0, false
	}

	start = idx[line]
	if line+1 < len(idx) {
		end = idx[line+1] - 1
	} else {
		end = textLen
	}
	return start, end, true
}
