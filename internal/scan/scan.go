// Package scan finds section headers in files, one or many at a time.
package scan

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/sectionscan/internal/engine/buffer"
	"github.com/dshills/sectionscan/internal/language"
	"github.com/dshills/sectionscan/internal/sections"
)

var _ sections.TextModel = (*buffer.Buffer)(nil)

// FileResult holds the headers found in one file.
type FileResult struct {
	// Path is the scanned file, or the name given to ScanReader.
	Path string `json:"path" yaml:"path"`

	// Language is the detected or requested language id; empty if unknown.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`

	// Headers are region headers followed by mark headers.
	Headers []sections.SectionHeader `json:"headers" yaml:"headers"`

	// Err is the error that stopped the file from being scanned.
	Err error `json:"-" yaml:"-"`
}

// Scanner reads files and finds their section headers. A Scanner may be
// used from several goroutines.
type Scanner struct {
	engine      sections.Engine
	finder      *sections.Finder
	registry    *language.Registry
	options     sections.Options
	logger      *slog.Logger
	jobs        int
	maxFileSize int64
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithEngine sets the engine for mark patterns and folding markers.
func WithEngine(e sections.Engine) Option {
	return func(s *Scanner) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithRegistry sets the language registry.
func WithRegistry(r *language.Registry) Option {
	return func(s *Scanner) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithOptions sets the detection options applied to every file. The
// FoldingRules field is replaced per file by the file's language rules.
func WithOptions(opts sections.Options) Option {
	return func(s *Scanner) {
		s.options = opts
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithJobs sets how many files ScanFiles reads at once. Zero or negative
// means GOMAXPROCS.
func WithJobs(n int) Option {
	return func(s *Scanner) {
		s.jobs = n
	}
}

// WithMaxFileSize limits the size of scanned files. Zero means no limit.
func WithMaxFileSize(n int64) Option {
	return func(s *Scanner) {
		s.maxFileSize = n
	}
}

// New creates a Scanner. By default it uses the regexp2 engine, the built-in
// languages and both header kinds with the default mark pattern.
func New(opts ...Option) *Scanner {
	s := &Scanner{
		engine:   sections.Regexp2Engine{},
		registry: language.NewDefaultRegistry(),
		options: sections.Options{
			FindRegionSectionHeaders: true,
			FindMarkSectionHeaders:   true,
			MarkSectionHeaderRegex:   sections.DefaultMarkSectionHeaderRegex,
		},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.jobs <= 0 {
		s.jobs = runtime.GOMAXPROCS(0)
	}
	s.finder = sections.NewFinder(sections.WithEngine(s.engine), sections.WithLogger(s.logger))
	return s
}

// ScanFile scans the file at path. Problems with the file itself are
// reported in FileResult.Err; the returned error is only set when ctx is
// done.
func (s *Scanner) ScanFile(ctx context.Context, path string) (FileResult, error) {
	if err := ctx.Err(); err != nil {
		return FileResult{Path: path}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return FileResult{Path: path, Err: err}, nil
	}
	defer f.Close()

	return s.ScanReader(ctx, path, f, "")
}

// ScanReader scans the content of r. An empty lang is detected from name.
func (s *Scanner) ScanReader(ctx context.Context, name string, r io.Reader, lang string) (FileResult, error) {
	if err := ctx.Err(); err != nil {
		return FileResult{Path: name}, err
	}
	if lang == "" {
		lang = s.registry.Detect(name)
	}
	result := FileResult{Path: name, Language: lang}

	started := time.Now()
	buf, err := buffer.NewBufferFromReader(r, buffer.WithMaxSize(s.maxFileSize))
	if err != nil {
		result.Err = fmt.Errorf("reading %s: %w", name, err)
		return result, nil
	}

	opts := s.options
	opts.FoldingRules = nil
	if lang != "" {
		rules, err := s.registry.FoldingRules(lang, s.engine)
		if err != nil {
			result.Err = err
			return result, nil
		}
		opts.FoldingRules = rules
	}

	result.Headers = s.finder.Find(buf, opts)
	s.logger.Debug("scanned file",
		slog.String("path", name),
		slog.String("language", lang),
		slog.Int("lines", buf.LineCount()),
		slog.Int("headers", len(result.Headers)),
		slog.Duration("took", time.Since(started)),
	)
	return result, nil
}

// ScanFiles scans paths concurrently and returns one result per path in
// input order. It stops early only when ctx is done.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	results := make([]FileResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	// Each goroutine writes only its own index.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(s.jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			res, err := s.ScanFile(gctx, path)
			if err != nil {
				return err
			}
			if res.Err != nil {
				s.logger.Warn("scan failed", slog.String("path", path), slog.Any("error", res.Err))
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
