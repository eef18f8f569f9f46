package config

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dshills/sectionscan/internal/language"
	"github.com/dshills/sectionscan/internal/log"
	"github.com/dshills/sectionscan/internal/sections"
)

// Section accessor methods return snapshot structs. Mutating the returned
// struct does not modify the underlying configuration. Use Config.Set()
// to update configuration values.

// Engine names accepted by sections.engine.
const (
	EngineRegexp2 = "regexp2"
	EngineStd     = "std"
)

// DefaultMaxFileSize is the default upper bound on scanned file size.
const DefaultMaxFileSize = 16 << 20

const defaultMarkRegex = sections.DefaultMarkSectionHeaderRegex

// SectionsConfig controls header detection.
type SectionsConfig struct {
	// FindRegionHeaders enables headers on folding region start markers.
	FindRegionHeaders bool

	// FindMarkHeaders enables MARK-style comment headers.
	FindMarkHeaders bool

	// MarkRegex is the mark header pattern. It should define the named
	// groups "label" and "separator".
	MarkRegex string

	// Engine selects the regular expression engine ("regexp2" or "std").
	Engine string
}

// ScanConfig controls file scanning.
type ScanConfig struct {
	// Jobs is the number of files scanned concurrently.
	Jobs int

	// MatchTimeout bounds a single regexp2 match attempt.
	MatchTimeout time.Duration

	// MaxFileSize is the largest file in bytes that is scanned.
	MaxFileSize int64
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	// Debounce coalesces bursts of change events per file.
	Debounce time.Duration
}

// LogConfig controls logging.
type LogConfig struct {
	// Level is the minimum log level (error, warn, info, debug).
	Level string

	// Format is the log output format (text, json).
	Format string
}

// LanguageOverride adds a language or replaces parts of a built-in one.
// Empty fields keep the built-in value.
type LanguageOverride struct {
	Extensions  []string
	RegionStart string
	RegionEnd   string
}

// Sections returns type-safe access to header detection settings.
func (c *Config) Sections() SectionsConfig {
	return SectionsConfig{
		FindRegionHeaders: c.getBoolOr("sections.findRegionHeaders", true),
		FindMarkHeaders:   c.getBoolOr("sections.findMarkHeaders", true),
		MarkRegex:         c.getStringOr("sections.markRegex", defaultMarkRegex),
		Engine:            c.getStringOr("sections.engine", EngineRegexp2),
	}
}

// Scan returns type-safe access to scan settings.
func (c *Config) Scan() ScanConfig {
	return ScanConfig{
		Jobs:         c.getIntOr("scan.jobs", 4),
		MatchTimeout: c.getDurationOr("scan.matchTimeout", sections.DefaultMatchTimeout),
		MaxFileSize:  int64(c.getIntOr("scan.maxFileSize", DefaultMaxFileSize)),
	}
}

// Watch returns type-safe access to watch settings.
func (c *Config) Watch() WatchConfig {
	return WatchConfig{
		Debounce: c.getDurationOr("watch.debounce", 100*time.Millisecond),
	}
}

// Log returns type-safe access to logging settings.
func (c *Config) Log() LogConfig {
	return LogConfig{
		Level:  c.getStringOr("log.level", "info"),
		Format: c.getStringOr("log.format", "text"),
	}
}

// Languages returns the configured language overrides keyed by id.
func (c *Config) Languages() map[string]LanguageOverride {
	v, ok := c.Get("languages")
	if !ok {
		return nil
	}
	table, ok := v.(map[string]any)
	if !ok {
		c.recordConfigError("languages", &TypeError{Path: "languages", Expected: "map", Actual: typeName(v)})
		return nil
	}

	result := make(map[string]LanguageOverride, len(table))
	for id := range table {
		prefix := "languages." + id + "."
		result[id] = LanguageOverride{
			Extensions:  c.getStringSliceOr(prefix+"extensions", nil),
			RegionStart: c.getStringOr(prefix+"regionStart", ""),
			RegionEnd:   c.getStringOr(prefix+"regionEnd", ""),
		}
	}
	return result
}

// Validate checks every setting and returns all problems joined.
func (c *Config) Validate() error {
	c.mu.Lock()
	c.configErrors = nil
	c.mu.Unlock()

	s := c.Sections()
	scan := c.Scan()
	watch := c.Watch()
	logCfg := c.Log()
	langs := c.Languages()

	var errs []error
	typeErrs := c.ConfigErrors()
	for _, path := range sortedKeys(typeErrs) {
		v, _ := c.Get(path)
		errs = append(errs, &ValidationError{
			Path:    path,
			Message: typeErrs[path].Error(),
			Value:   v,
			Code:    ErrCodeTypeMismatch,
		})
	}

	if s.Engine != EngineRegexp2 && s.Engine != EngineStd {
		errs = append(errs, &ValidationError{
			Path:    "sections.engine",
			Message: fmt.Sprintf("must be %q or %q", EngineRegexp2, EngineStd),
			Value:   s.Engine,
			Code:    ErrCodeInvalidEnum,
		})
	} else if strings.TrimSpace(s.MarkRegex) != "" {
		if _, err := c.Engine().Compile(s.MarkRegex, sections.FlagMultiline); err != nil {
			errs = append(errs, &ValidationError{
				Path:    "sections.markRegex",
				Message: err.Error(),
				Value:   s.MarkRegex,
				Code:    ErrCodePatternMismatch,
			})
		}
	}

	if scan.Jobs < 1 {
		errs = append(errs, &ValidationError{
			Path: "scan.jobs", Message: "must be at least 1", Value: scan.Jobs, Code: ErrCodeOutOfRange,
		})
	}
	if scan.MatchTimeout < 0 {
		errs = append(errs, &ValidationError{
			Path: "scan.matchTimeout", Message: "must not be negative", Value: scan.MatchTimeout, Code: ErrCodeOutOfRange,
		})
	}
	if scan.MaxFileSize < 0 {
		errs = append(errs, &ValidationError{
			Path: "scan.maxFileSize", Message: "must not be negative", Value: scan.MaxFileSize, Code: ErrCodeOutOfRange,
		})
	}
	if watch.Debounce < 0 {
		errs = append(errs, &ValidationError{
			Path: "watch.debounce", Message: "must not be negative", Value: watch.Debounce, Code: ErrCodeOutOfRange,
		})
	}

	if _, err := log.GetLevel(logCfg.Level); err != nil {
		errs = append(errs, &ValidationError{
			Path: "log.level", Message: err.Error(), Value: logCfg.Level, Code: ErrCodeInvalidEnum,
		})
	}
	if _, err := log.GetFormat(logCfg.Format); err != nil {
		errs = append(errs, &ValidationError{
			Path: "log.format", Message: err.Error(), Value: logCfg.Format, Code: ErrCodeInvalidEnum,
		})
	}

	if len(langs) > 0 {
		reg := language.NewDefaultRegistry()
		engine := c.Engine()
		for _, id := range sortedKeys(langs) {
			err := reg.Register(overrideLanguage(reg, id, langs[id]))
			if err == nil {
				_, err = reg.FoldingRules(id, engine)
			}
			if err != nil {
				errs = append(errs, &ValidationError{
					Path: "languages." + id, Message: err.Error(), Value: langs[id], Code: ErrCodePatternMismatch,
				})
			}
		}
	}

	return errors.Join(errs...)
}

// SectionOptions builds the header detection options for one file.
func (c *Config) SectionOptions(rules *sections.FoldingRules) sections.Options {
	s := c.Sections()
	return sections.Options{
		FindRegionSectionHeaders: s.FindRegionHeaders,
		FindMarkSectionHeaders:   s.FindMarkHeaders,
		FoldingRules:             rules,
		MarkSectionHeaderRegex:   s.MarkRegex,
	}
}

// Engine returns the configured regular expression engine. Unknown names
// fall back to regexp2; Validate reports them.
func (c *Config) Engine() sections.Engine {
	if c.Sections().Engine == EngineStd {
		return sections.StdEngine{}
	}
	return sections.Regexp2Engine{MatchTimeout: c.Scan().MatchTimeout}
}

// ApplyLanguages registers the configured language overrides in reg.
func (c *Config) ApplyLanguages(reg *language.Registry) error {
	langs := c.Languages()
	var errs []error
	for _, id := range sortedKeys(langs) {
		lang := overrideLanguage(reg, id, langs[id])
		if err := reg.Register(lang); err != nil {
			errs = append(errs, fmt.Errorf("languages.%s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// overrideLanguage applies o on top of the language id in reg, if any.
func overrideLanguage(reg *language.Registry, id string, o LanguageOverride) language.Language {
	lang := language.Language{ID: id}
	if reg != nil {
		if base, ok := reg.Lookup(id); ok {
			lang = base
		}
	}
	if o.Extensions != nil {
		lang.Extensions = slices.Clone(o.Extensions)
	}
	if o.RegionStart != "" {
		lang.RegionStart = o.RegionStart
	}
	if o.RegionEnd != "" {
		lang.RegionEnd = o.RegionEnd
	}
	return lang
}

// These methods only return the default for ErrSettingNotFound.
// Type errors are recorded and return the default to avoid breaking callers.

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getStringSliceOr(path string, defaultValue []string) []string {
	v, err := c.GetStringSlice(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return slices.Clone(defaultValue)
	}
	return v
}

// recordConfigError stores configuration errors for later retrieval.
// Only the first error for each path is recorded.
func (c *Config) recordConfigError(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.configErrors == nil {
		c.configErrors = make(map[string]error)
	}
	if _, exists := c.configErrors[path]; !exists {
		c.configErrors[path] = err
	}
}

// ConfigErrors returns any configuration errors encountered during access.
func (c *Config) ConfigErrors() map[string]error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.configErrors == nil {
		return nil
	}
	result := make(map[string]error, len(c.configErrors))
	for k, v := range c.configErrors {
		result[k] = v
	}
	return result
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
