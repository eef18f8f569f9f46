package sections

import (
	"fmt"
	"regexp"
)

// StdEngine compiles patterns with the standard library regexp package.
// Matching is linear in the input, so it needs no timeout.
type StdEngine struct{}

// Name implements Engine.
func (StdEngine) Name() string { return "std" }

// Compile implements Engine.
func (StdEngine) Compile(source string, flags Flags) (Pattern, error) {
	prefix := ""
	switch {
	case flags.Has(FlagMultiline | FlagDotAll):
		prefix = "(?ms)"
	case flags.Has(FlagMultiline):
		prefix = "(?m)"
	case flags.Has(FlagDotAll):
		prefix = "(?s)"
	}

	re, err := regexp.Compile(prefix + source)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return &stdPattern{re: re, source: source}, nil
}

type stdPattern struct {
	re     *regexp.Regexp
	source string
}

func (p *stdPattern) Source() string { return p.source }

// FindNext implements Pattern. regexp cannot resume a search with the
// preceding context visible to ^ and \b, so the text is matched from the
// start and the first match at or after cursor is returned.
func (p *stdPattern) FindNext(text string, cursor int) (*Match, error) {
	if cursor > len(text) {
		return nil, nil
	}
	for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] >= cursor {
			return &Match{Start: loc[0], End: loc[1], Groups: stdGroups{re: p.re, text: text, loc: loc}}, nil
		}
	}
	return nil, nil
}

type stdGroups struct {
	re   *regexp.Regexp
	text string
	loc  []int
}

func (g stdGroups) Group(name string) (string, bool) {
	idx := g.re.SubexpIndex(name)
	if idx < 0 || 2*idx+1 >= len(g.loc) || g.loc[2*idx] < 0 {
		return "", false
	}
	return g.text[g.loc[2*idx]:g.loc[2*idx+1]], true
}
