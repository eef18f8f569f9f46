package buffer

import (
	"fmt"
	"io"
	"strings"
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingLF:
		return "\\n"
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Name returns the configuration name of the line ending.
func (le LineEnding) Name() string {
	switch le {
	case LineEndingCRLF:
		return "crlf"
	case LineEndingCR:
		return "cr"
	default:
		return "lf"
	}
}

// Buffer is an immutable document split into lines.
type Buffer struct {
	text       string
	lines      lineIndex
	lineEnding LineEnding
	maxSize    int64
}

// NewBufferFromString creates a buffer with the given content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := newBuffer(opts...)
	b.lineEnding = DetectLineEnding(s)
	b.text = normalizeLineEndings(s)
	b.lines = computeLineIndex(b.text)
	return b
}

// NewBufferFromReader reads r to the end and creates a buffer from it.
// With WithMaxSize, reading stops with ErrTooLarge once the limit is passed.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	b := newBuffer(opts...)

	if b.maxSize > 0 {
		r = io.LimitReader(r, b.maxSize+1)
	}

	// Read all content first so CRLF pairs split across reads are
	// normalized correctly.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading buffer: %w", err)
	}
	if b.maxSize > 0 && int64(len(data)) > b.maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, b.maxSize)
	}

	text := string(data)
	b.lineEnding = DetectLineEnding(text)
	b.text = normalizeLineEndings(text)
	b.lines = computeLineIndex(b.text)
	return b, nil
}

func newBuffer(opts ...Option) *Buffer {
	b := &Buffer{lineEnding: LineEndingLF}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// normalizeLineEndings converts CRLF and CR to LF.
func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Text returns the normalized content.
func (b *Buffer) Text() string {
	return b.text
}

// Len returns the length of the normalized content in bytes.
func (b *Buffer) Len() int {
	return len(b.text)
}

// IsEmpty returns true if the buffer has no content.
func (b *Buffer) IsEmpty() bool {
	return len(b.text) == 0
}

// LineEnding returns the line ending detected in the original content.
func (b *Buffer) LineEnding() LineEnding {
	return b.lineEnding
}

// LineCount returns the number of lines. An empty buffer has one line, and
// a trailing newline starts a final empty line.
func (b *Buffer) LineCount() int {
	return b.lines.count()
}

// LineContent returns the text of a 1-based line without its newline.
// Out of range lines return "".
func (b *Buffer) LineContent(lineNumber int) string {
	start, end, ok := b.lines.bounds(lineNumber-1, len(b.text))
	if !ok {
		return ""
	}
	return b.text[start:end]
}

// Lines returns all lines. It allocates; prefer LineContent in scans.
func (b *Buffer) Lines() []string {
	return strings.Split(b.text, "\n")
}
