package loader

import (
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

func TestTOMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/sectionscan.toml", `
[sections]
findRegionHeaders = false
markRegex = '\bMARK:\s*(?<label>.*)$'

[scan]
jobs = 8
`)

	config, err := NewTOMLLoaderWithFS(memfs, "/sectionscan.toml").Load()
	require.NoError(t, err)

	sections, ok := config["sections"].(map[string]any)
	require.True(t, ok, "sections should be a map")
	assert.Equal(t, false, sections["findRegionHeaders"])
	assert.Equal(t, `\bMARK:\s*(?<label>.*)$`, sections["markRegex"])

	scan, ok := config["scan"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, int64(8), scan["jobs"])
}

func TestTOMLLoader_Missing(t *testing.T) {
	config, err := NewTOMLLoaderWithFS(NewMemFS(), "/nope.toml").Load()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestTOMLLoader_ParseError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[sections]\njobs = = 3\n")

	_, err := NewTOMLLoaderWithFS(memfs, "/bad.toml").Load()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "/bad.toml", perr.Path)
	assert.Equal(t, 2, perr.Line)
	assert.Contains(t, perr.Error(), "line 2")
}

func TestTOMLLoader_LoadFromReader(t *testing.T) {
	config, err := NewTOMLLoader("").LoadFromReader(strings.NewReader(`log = { level = "debug" }`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"level": "debug"}, config["log"])
}

func TestYAMLLoader_Load(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/sectionscan.yaml", `
sections:
  engine: std
languages:
  go:
    extensions: [".go", ".gotmpl"]
`)

	config, err := NewYAMLLoaderWithFS(memfs, "/sectionscan.yaml").Load()
	require.NoError(t, err)

	sections := config["sections"].(map[string]any)
	assert.Equal(t, "std", sections["engine"])

	langs := config["languages"].(map[string]any)
	goLang := langs["go"].(map[string]any)
	assert.Equal(t, []any{".go", ".gotmpl"}, goLang["extensions"])
}

func TestYAMLLoader_Empty(t *testing.T) {
	config, err := NewYAMLLoader("").LoadFromReader(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, config)
}

func TestYAMLLoader_ParseError(t *testing.T) {
	_, err := NewYAMLLoader("").LoadFromReader(strings.NewReader("sections: [unclosed"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "<reader>", perr.Path)
}

func TestForPath(t *testing.T) {
	l, err := ForPath(nil, "a.TOML")
	require.NoError(t, err)
	assert.IsType(t, &TOMLLoader{}, l)

	l, err = ForPath(nil, "a.yml")
	require.NoError(t, err)
	assert.IsType(t, &YAMLLoader{}, l)

	_, err = ForPath(nil, "a.ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadWithIncludes(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/cfg/main.toml", `
"@include" = ["base.yaml"]

[scan]
jobs = 2
`)
	memfs.AddFile("/cfg/base.yaml", `
scan:
  jobs: 16
  matchTimeout: 250ms
log:
  level: debug
`)

	config, err := LoadWithIncludes(memfs, "/cfg/main.toml", 5)
	require.NoError(t, err)

	_, hasInclude := config["@include"]
	assert.False(t, hasInclude)

	scan := config["scan"].(map[string]any)
	assert.Equal(t, int64(2), scan["jobs"], "main file overrides include")
	assert.Equal(t, "250ms", scan["matchTimeout"])
	assert.Equal(t, "debug", config["log"].(map[string]any)["level"])
}

func TestLoadWithIncludesCycle(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = "b.toml"`)
	memfs.AddFile("/b.toml", `"@include" = "a.toml"`)

	_, err := LoadWithIncludes(memfs, "/a.toml", 3)
	assert.ErrorIs(t, err, ErrIncludeDepthExceeded)
}

func TestLoadWithIncludesBadDirective(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `"@include" = 3`)

	_, err := LoadWithIncludes(memfs, "/a.toml", 3)
	assert.Error(t, err)
}

func TestDeepMerge(t *testing.T) {
	dst := map[string]any{
		"scan": map[string]any{"jobs": 4, "matchTimeout": "1s"},
		"log":  map[string]any{"level": "info"},
	}
	src := map[string]any{
		"scan": map[string]any{"jobs": 8},
		"log":  "flat",
	}

	got := DeepMerge(dst, src)
	assert.Equal(t, map[string]any{"jobs": 8, "matchTimeout": "1s"}, got["scan"])
	assert.Equal(t, "flat", got["log"])

	assert.Equal(t, map[string]any{"a": 1}, DeepMerge(nil, map[string]any{"a": 1}))
}

func TestClone(t *testing.T) {
	src := map[string]any{
		"languages": map[string]any{"go": map[string]any{"extensions": []any{".go"}}},
	}
	dst := Clone(src)

	dst["languages"].(map[string]any)["go"].(map[string]any)["extensions"].([]any)[0] = ".changed"
	assert.Equal(t, ".go", src["languages"].(map[string]any)["go"].(map[string]any)["extensions"].([]any)[0])
	assert.Nil(t, Clone(nil))
}
