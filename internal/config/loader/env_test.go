package loader

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnvLoader(env ...string) *EnvLoader {
	l := NewEnvLoader(EnvPrefix)
	l.environ = func() []string { return env }
	return l
}

func TestEnvLoader_Load(t *testing.T) {
	l := newTestEnvLoader(
		"SECTIONSCAN_LOG_LEVEL=debug",
		"SECTIONSCAN_JOBS=8",
		"SECTIONSCAN_MATCH_TIMEOUT=250ms",
		"SECTIONSCAN_MARK_REGEX=1",
		"UNRELATED=x",
	)

	config, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", config["log"].(map[string]any)["level"])
	assert.Equal(t, int64(8), config["scan"].(map[string]any)["jobs"])
	assert.Equal(t, 250*time.Millisecond, config["scan"].(map[string]any)["matchTimeout"])
	assert.Equal(t, "1", config["sections"].(map[string]any)["markRegex"], "patterns stay strings")
	assert.NotContains(t, config, "unrelated")
}

func TestEnvLoader_LoadUnmapped(t *testing.T) {
	l := newTestEnvLoader("SECTIONSCAN_SECTIONS_FIND_REGION_HEADERS=false")

	config, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, false, config["sections"].(map[string]any)["findRegionHeaders"])
}

func TestEnvLoader_AddMapping(t *testing.T) {
	l := newTestEnvLoader("SCAN_WORKERS=3")
	l.AddMapping("SCAN_WORKERS", "scan.jobs")

	config, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(3), config["scan"].(map[string]any)["jobs"])
}

func TestEnvLoader_envToPath(t *testing.T) {
	l := NewEnvLoader(EnvPrefix)

	tests := []struct {
		env  string
		want string
	}{
		{"SECTIONSCAN_SCAN_JOBS", "scan.jobs"},
		{"SECTIONSCAN_SCAN_MATCH_TIMEOUT", "scan.matchTimeout"},
		{"SECTIONSCAN_SECTIONS_FIND_MARK_HEADERS", "sections.findMarkHeaders"},
		{"SECTIONSCAN_DEBUG", "debug"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.envToPath(tt.env), tt.env)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"", ""},
		{"true", true},
		{"OFF", false},
		{"42", int64(42)},
		{"1.5", 1.5},
		{"2s", 2 * time.Second},
		{`["a","b"]`, []any{"a", "b"}},
		{"[not json", "[not json"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseValue(tt.in), "parseValue(%q)", tt.in)
	}
}
