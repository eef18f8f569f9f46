package buffer

import "errors"

// ErrTooLarge is returned when input exceeds the configured maximum size.
var ErrTooLarge = errors.New("buffer too large")

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithMaxSize limits how many bytes NewBufferFromReader accepts.
// Zero or negative means no limit.
func WithMaxSize(n int64) Option {
	return func(b *Buffer) {
		b.maxSize = n
	}
}

// DetectLineEnding returns the most common line ending in text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				crlfCount++
				i++
			} else {
				crCount++
			}
		case '\n':
			lfCount++
		}
	}

	switch {
	case crlfCount > 0 && crlfCount >= lfCount && crlfCount >= crCount:
		return LineEndingCRLF
	case crCount > 0 && crCount >= lfCount:
		return LineEndingCR
	default:
		return LineEndingLF
	}
}
