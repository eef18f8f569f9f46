package sections

import (
	"errors"
	"unicode/utf8"
)

// Errors returned by engines.
var (
	// ErrInvalidPattern indicates a pattern failed to compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrMatchFailed indicates the engine gave up while matching, for
	// example because a match timeout expired.
	ErrMatchFailed = errors.New("match failed")
)

// Flags modify how a pattern is compiled.
type Flags uint8

const (
	// FlagMultiline makes ^ and $ match at line boundaries.
	FlagMultiline Flags = 1 << iota
	// FlagDotAll makes . match newlines.
	FlagDotAll
)

// Has reports whether all bits of f2 are set.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// Engine compiles pattern source into a Pattern.
type Engine interface {
	// Name identifies the engine in configuration and logs.
	Name() string
	// Compile compiles source with the given flags. Errors wrap
	// ErrInvalidPattern.
	Compile(source string, flags Flags) (Pattern, error)
}

// Pattern is a compiled expression. Implementations keep no scan state and
// are safe for concurrent use.
type Pattern interface {
	// Source returns the pattern as written by the user.
	Source() string

	// FindNext returns the leftmost match in text starting at or after the
	// byte offset cursor, or nil if there is none. Anchors see the text
	// before cursor, so ^ does not match mid-line just because the search
	// resumed there. Errors wrap ErrMatchFailed.
	FindNext(text string, cursor int) (*Match, error)
}

// MatchGroups looks up named capture groups.
type MatchGroups interface {
	// Group returns the text captured by name. ok is false when the group
	// does not exist or did not participate in the match.
	Group(name string) (value string, ok bool)
}

// Match is a single match. Start and End are byte offsets into the
// searched text.
type Match struct {
	Start  int
	End    int
	Groups MatchGroups
}

// Len returns the match length in bytes.
func (m *Match) Len() int {
	return m.End - m.Start
}

// Group is a nil-safe shortcut for m.Groups.Group.
func (m *Match) Group(name string) (string, bool) {
	if m.Groups == nil {
		return "", false
	}
	return m.Groups.Group(name)
}

// noGroups is used by engines for matches without named groups.
type noGroups struct{}

func (noGroups) Group(string) (string, bool) { return "", false }

// MultilineClassifier decides whether a pattern is meant to span lines.
type MultilineClassifier interface {
	IsMultilineSource(source string) bool
}

// MultilineClassifierFunc adapts a function to MultilineClassifier.
type MultilineClassifierFunc func(source string) bool

// IsMultilineSource calls f(source).
func (f MultilineClassifierFunc) IsMultilineSource(source string) bool {
	return f(source)
}

// SourceClassifier treats a pattern as multi-line when its source contains a
// literal line feed or one of the escapes \n, \r or \W.
type SourceClassifier struct{}

// IsMultilineSource implements MultilineClassifier.
func (SourceClassifier) IsMultilineSource(source string) bool {
	for i := 0; i < len(source); i++ {
		switch source[i] {
		case '\n':
			return true
		case '\\':
			i++
			if i >= len(source) {
				return false
			}
			switch source[i] {
			case 'n', 'r', 'W':
				return true
			}
		}
	}
	return false
}

// LoopValidator rejects patterns that would stall a global match loop.
type LoopValidator interface {
	LeadsToEndlessLoop(p Pattern) bool
}

// LoopValidatorFunc adapts a function to LoopValidator.
type LoopValidatorFunc func(p Pattern) bool

// LeadsToEndlessLoop calls f(p).
func (f LoopValidatorFunc) LeadsToEndlessLoop(p Pattern) bool {
	return f(p)
}

// EmptyMatchValidator rejects any pattern that matches the empty string.
// A pattern that fails to run against "" is rejected as well.
type EmptyMatchValidator struct{}

// LeadsToEndlessLoop implements LoopValidator.
func (EmptyMatchValidator) LeadsToEndlessLoop(p Pattern) bool {
	m, err := p.FindNext("", 0)
	return err != nil || m != nil
}

// nextCursor returns where the search resumes after m. A zero-width match
// moves the cursor one rune forward.
func nextCursor(text string, m *Match) int {
	if m.End > m.Start {
		return m.End
	}
	if m.End >= len(text) {
		return len(text) + 1
	}
	_, size := utf8.DecodeRuneInString(text[m.End:])
	return m.End + size
}
