package sections

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engines() []Engine {
	return []Engine{Regexp2Engine{}, StdEngine{}}
}

func TestSourceClassifier(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{`MARK:\s*(?<label>.*)$`, false},
		{`^// =+\n^// (?<label>.+)`, true},
		{`a\rb`, true},
		{`\W+`, true},
		{`\w+`, false},
		{"literal\nnewline", true},
		{`\\n`, false},
		{`trailing\`, false},
		{"", false},
	}

	var c SourceClassifier
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.IsMultilineSource(tt.source), "IsMultilineSource(%q)", tt.source)
	}
}

func TestEmptyMatchValidator(t *testing.T) {
	tests := []struct {
		source string
		want   bool
	}{
		{`MARK:(?<label>.*)`, false},
		{`a*`, true},
		{`^`, true},
		{`(?<label>.*)`, true},
		{`\bfoo`, false},
	}

	var v EmptyMatchValidator
	for _, e := range engines() {
		for _, tt := range tests {
			p, err := e.Compile(tt.source, FlagMultiline)
			require.NoError(t, err, "%s: Compile(%q)", e.Name(), tt.source)
			assert.Equal(t, tt.want, v.LeadsToEndlessLoop(p), "%s: LeadsToEndlessLoop(%q)", e.Name(), tt.source)
		}
	}
}

func TestEngineCompileInvalid(t *testing.T) {
	for _, e := range engines() {
		_, err := e.Compile(`(unclosed`, FlagMultiline)
		assert.ErrorIs(t, err, ErrInvalidPattern, e.Name())
	}
}

func TestPatternFindNextKeepsAnchors(t *testing.T) {
	text := "xx MARK\nMARK"
	for _, e := range engines() {
		p, err := e.Compile(`^MARK`, FlagMultiline)
		require.NoError(t, err)

		// Resuming mid-line must not make ^ match there.
		m, err := p.FindNext(text, 3)
		require.NoError(t, err)
		require.NotNil(t, m, e.Name())
		assert.Equal(t, 8, m.Start, e.Name())
		assert.Equal(t, 12, m.End, e.Name())

		m, err = p.FindNext(text, m.End)
		require.NoError(t, err)
		assert.Nil(t, m, e.Name())
	}
}

func TestPatternFindNextPastEnd(t *testing.T) {
	for _, e := range engines() {
		p, err := e.Compile(`a`, 0)
		require.NoError(t, err)
		m, err := p.FindNext("a", 5)
		require.NoError(t, err)
		assert.Nil(t, m, e.Name())
	}
}

func TestPatternGroups(t *testing.T) {
	for _, e := range engines() {
		p, err := e.Compile(`MARK:\s*(?<separator>-?)\s*(?<label>.*)$|(?<other>z)`, FlagMultiline)
		require.NoError(t, err)

		m, err := p.FindNext("// MARK: -Setup", 0)
		require.NoError(t, err)
		require.NotNil(t, m)

		label, ok := m.Group("label")
		assert.True(t, ok, e.Name())
		assert.Equal(t, "Setup", label, e.Name())

		sep, ok := m.Group("separator")
		assert.True(t, ok, e.Name())
		assert.Equal(t, "-", sep, e.Name())

		_, ok = m.Group("other")
		assert.False(t, ok, "%s: non-participating group", e.Name())

		_, ok = m.Group("missing")
		assert.False(t, ok, "%s: unknown group", e.Name())
	}
}

func TestPatternUnicodeOffsets(t *testing.T) {
	text := "héllo wörld"
	for _, e := range engines() {
		p, err := e.Compile(`w\S+`, 0)
		require.NoError(t, err)
		m, err := p.FindNext(text, 0)
		require.NoError(t, err)
		require.NotNil(t, m)
		assert.Equal(t, "wörld", text[m.Start:m.End], e.Name())
	}
}

func TestPatternDotAll(t *testing.T) {
	for _, e := range engines() {
		single, err := e.Compile(`a.b`, FlagMultiline)
		require.NoError(t, err)
		m, err := single.FindNext("a\nb", 0)
		require.NoError(t, err)
		assert.Nil(t, m, e.Name())

		multi, err := e.Compile(`a.b`, FlagMultiline|FlagDotAll)
		require.NoError(t, err)
		m, err = multi.FindNext("a\nb", 0)
		require.NoError(t, err)
		assert.NotNil(t, m, e.Name())
	}
}

func TestRegexp2MatchTimeout(t *testing.T) {
	e := Regexp2Engine{MatchTimeout: 10 * time.Millisecond}
	p, err := e.Compile(`^(a+)+$`, FlagMultiline)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := p.FindNext(strings.Repeat("a", 40)+"!", 0)
		done <- err
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrMatchFailed)
	case <-time.After(10 * time.Second):
		t.Fatal("match did not time out")
	}
}

func TestNextCursor(t *testing.T) {
	text := "aé"
	assert.Equal(t, 1, nextCursor(text, &Match{Start: 0, End: 1}))
	assert.Equal(t, 1, nextCursor(text, &Match{Start: 0, End: 0}))
	assert.Equal(t, 3, nextCursor(text, &Match{Start: 1, End: 1}))
	assert.Equal(t, 4, nextCursor(text, &Match{Start: 3, End: 3}))
}
