package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dshills/sectionscan/internal/config/loader"
)

// maxIncludeDepth limits nested "@include" directives.
const maxIncludeDepth = 5

// Layer names, lowest priority first.
const (
	LayerDefaults = "defaults"
	LayerFile     = "file"
	LayerEnv      = "environment"
	LayerFlags    = "flags"
)

var layerOrder = []string{LayerDefaults, LayerFile, LayerEnv, LayerFlags}

// Config provides unified access to the sectionscan configuration.
// It is safe for concurrent use.
type Config struct {
	mu sync.RWMutex

	layers map[string]map[string]any
	merged map[string]any

	path string
	fs   loader.FileSystem
	env  *loader.EnvLoader

	// configErrors stores errors encountered during typed access.
	configErrors map[string]error
}

// Option configures a Config instance.
type Option func(*Config)

// WithFileSystem sets the file system config files are read from.
func WithFileSystem(fsys loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fsys
	}
}

// WithEnvLoader replaces the environment loader. A nil loader disables the
// environment layer.
func WithEnvLoader(l *loader.EnvLoader) Option {
	return func(c *Config) {
		c.env = l
	}
}

// New creates a Config holding only the built-in defaults.
func New(opts ...Option) *Config {
	c := &Config{
		layers: map[string]map[string]any{
			LayerDefaults: defaultConfig(),
		},
		fs:  loader.DefaultFS(),
		env: loader.NewEnvLoader(loader.EnvPrefix),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load creates a Config from the defaults, the file at path and the
// environment. An empty path skips the file layer.
func Load(path string, opts ...Option) (*Config, error) {
	c := New(opts...)
	if err := c.Load(path); err != nil {
		return nil, err
	}
	return c, nil
}

// Load (re)reads the file and environment layers. Layers set with Set are
// kept.
func (c *Config) Load(path string) error {
	var fileData map[string]any
	if path != "" {
		if _, err := c.fs.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return fmt.Errorf("reading config file %s: %w", path, err)
		}
		data, err := loader.LoadWithIncludes(c.fs, path, maxIncludeDepth)
		if err != nil {
			return err
		}
		fileData = data
	}

	var envData map[string]any
	if c.env != nil {
		data, err := c.env.Load()
		if err != nil {
			return fmt.Errorf("loading environment: %w", err)
		}
		envData = data
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.path = path
	c.setLayer(LayerFile, fileData)
	c.setLayer(LayerEnv, envData)
	c.configErrors = nil
	return nil
}

// Path returns the config file path given to Load.
func (c *Config) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.path
}

func (c *Config) setLayer(name string, data map[string]any) {
	if len(data) == 0 {
		delete(c.layers, name)
	} else {
		c.layers[name] = data
	}
	c.merged = nil
}

// mergedLocked returns the merged configuration. The caller must hold mu.
func (c *Config) mergedLocked() map[string]any {
	if c.merged != nil {
		return c.merged
	}
	merged := make(map[string]any)
	for _, name := range layerOrder {
		if data, ok := c.layers[name]; ok {
			merged = loader.DeepMerge(merged, loader.Clone(data))
		}
	}
	c.merged = merged
	return merged
}

// Merged returns a copy of the fully merged configuration.
func (c *Config) Merged() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return loader.Clone(c.mergedLocked())
}

// Get returns the value at the given path from the merged configuration.
func (c *Config) Get(path string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return getPath(c.mergedLocked(), path)
}

// Set sets a value at the given path in the flags layer.
func (c *Config) Set(path string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	flags := c.layers[LayerFlags]
	if flags == nil {
		flags = make(map[string]any)
	}
	if err := setPath(flags, path, value); err != nil {
		return err
	}
	c.setLayer(LayerFlags, flags)
	return nil
}

// GetString returns a string value at the given path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", ErrSettingNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", &TypeError{Path: path, Expected: "string", Actual: typeName(v)}
	}
	return s, nil
}

// GetInt returns an integer value at the given path.
func (c *Config) GetInt(path string) (int, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case uint64:
		return int(val), nil
	case float64:
		return int(val), nil
	default:
		return 0, &TypeError{Path: path, Expected: "int", Actual: typeName(v)}
	}
}

// GetBool returns a boolean value at the given path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, ErrSettingNotFound
	}
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Path: path, Expected: "bool", Actual: typeName(v)}
	}
	return b, nil
}

// GetDuration returns a duration at the given path. Strings are parsed with
// time.ParseDuration; plain integers are milliseconds.
func (c *Config) GetDuration(path string) (time.Duration, error) {
	v, ok := c.Get(path)
	if !ok {
		return 0, ErrSettingNotFound
	}
	switch val := v.(type) {
	case time.Duration:
		return val, nil
	case string:
		if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
			return time.Duration(ms) * time.Millisecond, nil
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return 0, &TypeError{Path: path, Expected: "duration", Actual: strconv.Quote(val)}
		}
		return d, nil
	case int:
		return time.Duration(val) * time.Millisecond, nil
	case int64:
		return time.Duration(val) * time.Millisecond, nil
	default:
		return 0, &TypeError{Path: path, Expected: "duration", Actual: typeName(v)}
	}
}

// GetStringSlice returns a string slice at the given path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, ErrSettingNotFound
	}

	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...), nil
	case []any:
		result := make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
			}
			result[i] = s
		}
		return result, nil
	default:
		return nil, &TypeError{Path: path, Expected: "[]string", Actual: typeName(v)}
	}
}

// defaultConfig returns the default configuration values.
func defaultConfig() map[string]any {
	return map[string]any{
		"sections": map[string]any{
			"findRegionHeaders": true,
			"findMarkHeaders":   true,
			"markRegex":         defaultMarkRegex,
			"engine":            EngineRegexp2,
		},
		"scan": map[string]any{
			"jobs":         4,
			"matchTimeout": "1s",
			"maxFileSize":  int64(DefaultMaxFileSize),
		},
		"watch": map[string]any{
			"debounce": "100ms",
		},
		"log": map[string]any{
			"level":  "info",
			"format": "text",
		},
	}
}

// getPath retrieves a value from a nested map using a dot-separated path.
func getPath(m map[string]any, path string) (any, bool) {
	parts := splitPath(path)
	if len(parts) == 0 {
		return nil, false
	}

	current := any(m)
	for _, part := range parts {
		cm, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = cm[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// setPath sets a value in a nested map using a dot-separated path.
func setPath(m map[string]any, path string, value any) error {
	parts := splitPath(path)
	if len(parts) == 0 {
		return ErrInvalidPath
	}

	current := m
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part]
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		nextMap, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s is not a table", ErrInvalidPath, part)
		}
		current = nextMap
	}

	current[parts[len(parts)-1]] = value
	return nil
}

// splitPath splits a dot-separated path into non-empty parts.
func splitPath(path string) []string {
	var parts []string
	for _, p := range strings.Split(path, ".") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// typeName returns the type name for error messages.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	switch v.(type) {
	case string:
		return "string"
	case int, int64, uint64:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case time.Duration:
		return "duration"
	case []string:
		return "[]string"
	case []any:
		return "[]any"
	case map[string]any:
		return "map"
	default:
		return fmt.Sprintf("%T", v)
	}
}
