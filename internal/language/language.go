// Package language maps files to languages and supplies each language's
// folding region markers.
package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/sectionscan/internal/sections"
)

// Errors returned by the registry.
var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrInvalidLanguage = errors.New("invalid language")
)

// Language describes one language's file extensions and region markers.
type Language struct {
	// ID is the language identifier, for example "go".
	ID string

	// Extensions are file name suffixes including the dot, for example ".go".
	// Entries without a leading dot match whole base names ("Makefile").
	Extensions []string

	// RegionStart is the folding region start marker. Empty means the
	// language has no region headers.
	RegionStart string

	// RegionEnd is the folding region end marker.
	RegionEnd string
}

// Registry holds languages and caches their compiled markers.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	languages map[string]Language
	byExt     map[string]string
	compiled  map[rulesKey]*sections.FoldingRules
}

type rulesKey struct {
	id     string
	engine string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		languages: make(map[string]Language),
		byExt:     make(map[string]string),
		compiled:  make(map[rulesKey]*sections.FoldingRules),
	}
}

// NewDefaultRegistry creates a registry holding Defaults.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, lang := range Defaults() {
		// Defaults are known to be valid.
		_ = r.Register(lang)
	}
	return r
}

// Register adds or replaces a language. Replacing a language drops its
// extensions from the previous definition.
func (r *Registry) Register(lang Language) error {
	lang.ID = strings.TrimSpace(lang.ID)
	if lang.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidLanguage)
	}
	if lang.RegionEnd != "" && lang.RegionStart == "" {
		return fmt.Errorf("%w: %s has an end marker without a start marker", ErrInvalidLanguage, lang.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.languages[lang.ID]; ok {
		for _, ext := range old.Extensions {
			if r.byExt[normalizeExt(ext)] == lang.ID {
				delete(r.byExt, normalizeExt(ext))
			}
		}
	}

	r.languages[lang.ID] = lang
	for _, ext := range lang.Extensions {
		r.byExt[normalizeExt(ext)] = lang.ID
	}
	for key := range r.compiled {
		if key.id == lang.ID {
			delete(r.compiled, key)
		}
	}
	return nil
}

// Lookup returns the language with the given id.
func (r *Registry) Lookup(id string) (Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lang, ok := r.languages[id]
	return lang, ok
}

// IDs returns the registered language ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.languages))
	for id := range r.languages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Detect returns the language id for path, matching the base name first and
// then the extension. It returns "" when nothing matches.
func (r *Registry) Detect(path string) string {
	base := filepath.Base(path)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if id, ok := r.byExt[strings.ToLower(base)]; ok {
		return id
	}
	if ext := filepath.Ext(base); ext != "" {
		if id, ok := r.byExt[strings.ToLower(ext)]; ok {
			return id
		}
	}
	return ""
}

// FoldingRules compiles the markers of language id with engine. It returns
// nil rules for languages without a start marker. Compiled rules are cached
// per engine.
func (r *Registry) FoldingRules(id string, engine sections.Engine) (*sections.FoldingRules, error) {
	key := rulesKey{id: id, engine: engine.Name()}

	r.mu.RLock()
	lang, ok := r.languages[id]
	rules, cached := r.compiled[key]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, id)
	}
	if cached {
		return rules, nil
	}
	if lang.RegionStart == "" {
		return nil, nil
	}

	markers := &sections.FoldingMarkers{}
	start, err := engine.Compile(lang.RegionStart, 0)
	if err != nil {
		return nil, fmt.Errorf("compiling %s region start: %w", id, err)
	}
	markers.Start = start

	if lang.RegionEnd != "" {
		end, err := engine.Compile(lang.RegionEnd, 0)
		if err != nil {
			return nil, fmt.Errorf("compiling %s region end: %w", id, err)
		}
		markers.End = end
	}

	rules = &sections.FoldingRules{Markers: markers}

	r.mu.Lock()
	r.compiled[key] = rules
	r.mu.Unlock()

	return rules, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimSpace(ext))
}
