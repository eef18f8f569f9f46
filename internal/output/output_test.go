package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dshills/sectionscan/internal/scan"
	"github.com/dshills/sectionscan/internal/sections"
)

func sampleResults() []scan.FileResult {
	return []scan.FileResult{
		{
			Path:     "main.go",
			Language: "go",
			Headers: []sections.SectionHeader{
				{
					Range: sections.Range{StartLineNumber: 3, StartColumn: 12, EndLineNumber: 3, EndColumn: 18},
					Text:  "Setup",
				},
				{
					Range:              sections.Range{StartLineNumber: 7, StartColumn: 4, EndLineNumber: 7, EndColumn: 19},
					Text:               "Helpers",
					HasSeparatorLine:   true,
					ShouldBeInComments: true,
				},
				{
					Range:              sections.Range{StartLineNumber: 9, StartColumn: 4, EndLineNumber: 9, EndColumn: 12},
					HasSeparatorLine:   true,
					ShouldBeInComments: true,
				},
			},
		},
		{Path: "gone.go", Err: errors.New("no such file")},
	}
}

func TestForFormat(t *testing.T) {
	for _, name := range []string{"text", "JSON", " yaml "} {
		enc, err := ForFormat(name)
		require.NoError(t, err, name)
		assert.NotNil(t, enc)
	}

	_, err := ForFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Contains(t, err.Error(), "json, text, yaml")
}

func TestTextEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextEncoder{}.Encode(&buf, sampleResults()))

	want := "main.go:3:12: [region] Setup\n" +
		"main.go:7:4: [mark] - Helpers\n" +
		"main.go:9:4: [mark] -\n" +
		"gone.go: error: no such file\n"
	assert.Equal(t, want, buf.String())
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONEncoder{}.Encode(&buf, sampleResults()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	assert.Equal(t, "main.go", got[0]["path"])
	assert.Equal(t, "go", got[0]["language"])
	assert.NotContains(t, got[0], "error")

	headers := got[0]["headers"].([]any)
	require.Len(t, headers, 3)
	first := headers[0].(map[string]any)
	assert.Equal(t, "region", first["kind"])
	assert.Equal(t, "Setup", first["text"])
	assert.Equal(t, map[string]any{
		"startLineNumber": float64(3),
		"startColumn":     float64(12),
		"endLineNumber":   float64(3),
		"endColumn":       float64(18),
	}, first["range"])

	assert.Equal(t, "no such file", got[1]["error"])
	assert.Equal(t, []any{}, got[1]["headers"])
}

func TestYAMLEncoder(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAMLEncoder{}.Encode(&buf, sampleResults()))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	headers := got[0]["headers"].([]any)
	second := headers[1].(map[string]any)
	assert.Equal(t, "mark", second["kind"])
	assert.Equal(t, "Helpers", second["text"])
	assert.Equal(t, true, second["hasSeparatorLine"])
	assert.Equal(t, 7, second["range"].(map[string]any)["startLineNumber"])
	assert.Equal(t, "no such file", got[1]["error"])
}

func TestKind(t *testing.T) {
	assert.Equal(t, KindMark, Kind(sections.SectionHeader{ShouldBeInComments: true}))
	assert.Equal(t, KindRegion, Kind(sections.SectionHeader{}))
}
