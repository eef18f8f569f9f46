package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is the prefix of sectionscan environment variables.
const EnvPrefix = "SECTIONSCAN_"

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix   string            // Environment variable prefix (e.g., "SECTIONSCAN_")
	mapping  map[string]string // Env var -> config path
	rawPaths map[string]bool   // Config paths whose values are never converted
	environ  func() []string
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "SECTIONSCAN_").
func NewEnvLoader(prefix string) *EnvLoader {
	return NewEnvLoaderWithMapping(prefix, defaultEnvMapping())
}

// NewEnvLoaderWithMapping creates a loader with custom environment variable mappings.
func NewEnvLoaderWithMapping(prefix string, mapping map[string]string) *EnvLoader {
	return &EnvLoader{
		prefix:   prefix,
		mapping:  mapping,
		rawPaths: defaultRawPaths(),
		environ:  os.Environ,
	}
}

// defaultEnvMapping returns the default environment variable mappings.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"SECTIONSCAN_LOG_LEVEL":      "log.level",
		"SECTIONSCAN_LOG_FORMAT":     "log.format",
		"SECTIONSCAN_MARK_REGEX":     "sections.markRegex",
		"SECTIONSCAN_ENGINE":         "sections.engine",
		"SECTIONSCAN_JOBS":           "scan.jobs",
		"SECTIONSCAN_MATCH_TIMEOUT":  "scan.matchTimeout",
		"SECTIONSCAN_MAX_FILE_SIZE":  "scan.maxFileSize",
		"SECTIONSCAN_WATCH_DEBOUNCE": "watch.debounce",
	}
}

// defaultRawPaths lists settings that hold patterns, which must not be
// turned into numbers, booleans or JSON.
func defaultRawPaths() map[string]bool {
	return map[string]bool{
		"sections.markRegex": true,
	}
}

// Load reads environment variables and returns a configuration map.
// Note: Empty string values are treated as valid values, not as unset.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)
	env := make(map[string]string)
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if ok {
			env[name] = value
		}
	}

	// First, load explicitly mapped variables
	for name, path := range l.mapping {
		if val, ok := env[name]; ok {
			setByPath(config, path, l.value(path, val))
		}
	}

	// Then, scan for additional prefixed variables not in mapping
	for name, value := range env {
		if !strings.HasPrefix(name, l.prefix) {
			continue
		}
		if _, ok := l.mapping[name]; ok {
			continue
		}

		// Convert SECTIONSCAN_SECTIONS_FIND_MARK_HEADERS to sections.findMarkHeaders
		path := l.envToPath(name)
		setByPath(config, path, l.value(path, value))
	}

	return config, nil
}

// AddMapping adds a custom environment variable mapping.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	if l.mapping == nil {
		l.mapping = make(map[string]string)
	}
	l.mapping[envVar] = configPath
}

func (l *EnvLoader) value(path, raw string) any {
	if l.rawPaths[path] {
		return raw
	}
	return parseValue(raw)
}

// envToPath converts SECTIONSCAN_SCAN_MATCH_TIMEOUT to scan.matchTimeout.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	parts := strings.Split(name, "_")

	// First part is the section, remaining parts form the setting name in
	// camelCase.
	section := strings.ToLower(parts[0])
	if len(parts) == 1 {
		return section
	}

	settingName := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if len(part) > 0 {
			settingName += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}
	return section + "." + settingName
}

// parseValue attempts to parse the string value into an appropriate type.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	lower := strings.ToLower(s)
	if lower == "true" || lower == "yes" || lower == "on" {
		return true
	}
	if lower == "false" || lower == "no" || lower == "off" {
		return false
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	// Try float (only if it contains a decimal point to avoid misinterpreting ints)
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}

	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			next := make(map[string]any)
			current[part] = next
			current = next
		}
	}

	current[parts[len(parts)-1]] = value
}
