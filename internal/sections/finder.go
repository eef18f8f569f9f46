package sections

import (
	"log/slog"
	"strings"
)

// Finder runs the enabled collectors. A Finder holds only configuration and
// may be used from several goroutines.
type Finder struct {
	engine     Engine
	classifier MultilineClassifier
	validator  LoopValidator
	logger     *slog.Logger
}

// Option configures a Finder.
type Option func(*Finder)

// WithEngine sets the engine used to compile mark patterns.
func WithEngine(e Engine) Option {
	return func(f *Finder) {
		if e != nil {
			f.engine = e
		}
	}
}

// WithMultilineClassifier replaces the multi-line heuristic.
func WithMultilineClassifier(c MultilineClassifier) Option {
	return func(f *Finder) {
		if c != nil {
			f.classifier = c
		}
	}
}

// WithLoopValidator replaces the endless loop check.
func WithLoopValidator(v LoopValidator) Option {
	return func(f *Finder) {
		if v != nil {
			f.validator = v
		}
	}
}

// WithLogger sets the logger for rejected patterns and aborted scans.
func WithLogger(l *slog.Logger) Option {
	return func(f *Finder) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFinder creates a Finder. Without options it uses Regexp2Engine,
// SourceClassifier and EmptyMatchValidator, and discards logs.
func NewFinder(opts ...Option) *Finder {
	f := &Finder{
		engine:     Regexp2Engine{},
		classifier: SourceClassifier{},
		validator:  EmptyMatchValidator{},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Engine returns the engine used for mark patterns.
func (f *Finder) Engine() Engine {
	return f.engine
}

var defaultFinder = NewFinder()

// FindSectionHeaders runs the default Finder.
func FindSectionHeaders(model TextModel, opts Options) []SectionHeader {
	return defaultFinder.Find(model, opts)
}

// Find returns region headers followed by mark headers. It never fails;
// missing configuration and unusable patterns produce no headers.
func (f *Finder) Find(model TextModel, opts Options) []SectionHeader {
	var headers []SectionHeader

	if opts.FindRegionSectionHeaders {
		if start := opts.regionMarker(); start != nil {
			headers = append(headers, CollectRegionHeaders(model, start)...)
		}
	}

	if opts.FindMarkSectionHeaders {
		headers = append(headers, f.collectMarks(model, opts.MarkSectionHeaderRegex)...)
	}

	return headers
}

// CompileMarkPattern compiles source the way mark headers are scanned.
// ok is false when the source is blank, does not compile or would loop
// forever.
func (f *Finder) CompileMarkPattern(source string) (Pattern, bool) {
	if strings.TrimSpace(source) == "" {
		return nil, false
	}

	flags := FlagMultiline
	if f.classifier.IsMultilineSource(source) {
		flags |= FlagDotAll
	}

	p, err := f.engine.Compile(source, flags)
	if err != nil {
		f.logger.Debug("mark pattern rejected", "pattern", source, "engine", f.engine.Name(), "error", err)
		return nil, false
	}
	if f.validator.LeadsToEndlessLoop(p) {
		f.logger.Debug("mark pattern rejected", "pattern", source, "reason", "matches empty input")
		return nil, false
	}
	return p, true
}

func (f *Finder) collectMarks(model TextModel, source string) []SectionHeader {
	p, ok := f.CompileMarkPattern(source)
	if !ok {
		return nil
	}

	headers, err := collectMarkHeaders(model, p)
	if err != nil {
		f.logger.Warn("mark scan aborted", "pattern", source, "error", err)
		return nil
	}
	return headers
}
