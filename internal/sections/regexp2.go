package sections

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// DefaultMatchTimeout bounds a single regexp2 match attempt.
const DefaultMatchTimeout = time.Second

// Regexp2Engine compiles patterns with github.com/dlclark/regexp2.
type Regexp2Engine struct {
	// MatchTimeout bounds each match attempt. Zero means DefaultMatchTimeout;
	// a negative value disables the timeout.
	MatchTimeout time.Duration
}

// Name implements Engine.
func (Regexp2Engine) Name() string { return "regexp2" }

// Compile implements Engine.
func (e Regexp2Engine) Compile(source string, flags Flags) (Pattern, error) {
	opts := regexp2.None
	if flags.Has(FlagMultiline) {
		opts |= regexp2.Multiline
	}
	if flags.Has(FlagDotAll) {
		opts |= regexp2.Singleline
	}

	re, err := regexp2.Compile(source, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}

	switch {
	case e.MatchTimeout == 0:
		re.MatchTimeout = DefaultMatchTimeout
	case e.MatchTimeout > 0:
		re.MatchTimeout = e.MatchTimeout
	}

	return &regexp2Pattern{re: re, source: source}, nil
}

type regexp2Pattern struct {
	re     *regexp2.Regexp
	source string
}

func (p *regexp2Pattern) Source() string { return p.source }

// FindNext implements Pattern. regexp2 indexes by rune, so offsets are
// converted on the way in and out.
func (p *regexp2Pattern) FindNext(text string, cursor int) (*Match, error) {
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(text) {
		return nil, nil
	}

	runeCursor := utf8.RuneCountInString(text[:cursor])
	m, err := p.re.FindStringMatchStartingAt(text, runeCursor)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMatchFailed, err)
	}
	if m == nil {
		return nil, nil
	}

	start := advanceRunes(text, cursor, m.Index-runeCursor)
	end := advanceRunes(text, start, m.Length)
	return &Match{Start: start, End: end, Groups: regexp2Groups{m: m}}, nil
}

type regexp2Groups struct {
	m *regexp2.Match
}

func (g regexp2Groups) Group(name string) (string, bool) {
	grp := g.m.GroupByName(name)
	if grp == nil || len(grp.Captures) == 0 {
		return "", false
	}
	return grp.String(), true
}

// advanceRunes returns the byte offset n runes after from.
func advanceRunes(s string, from, n int) int {
	i := from
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}
