// Package main is the entry point for sectionscan, which lists the section
// headers (folding region labels and MARK comments) of source files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/sectionscan/internal/config"
	"github.com/dshills/sectionscan/internal/language"
	"github.com/dshills/sectionscan/internal/log"
	"github.com/dshills/sectionscan/internal/output"
	"github.com/dshills/sectionscan/internal/scan"
	"github.com/dshills/sectionscan/internal/watcher"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const stdinName = "<stdin>"

type options struct {
	configPath  string
	format      string
	language    string
	markRegex   string
	engine      string
	noRegion    bool
	noMark      bool
	jobs        int
	watch       bool
	showVersion bool
	log         log.Flags
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "sectionscan [flags] <file>...",
		Short: "List section headers of source files",
		Long: `sectionscan finds the section headers an editor shows in its minimap and
folding outline: labels after folding region markers ("// #region Setup") and
MARK comments ("// MARK: - Helpers").

Use "-" to read from stdin; pass --language to get region headers for it.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				return nil
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showVersion {
				fmt.Fprintf(stdout, "sectionscan %s (commit %s, built %s)\n", version, commit, date)
				return nil
			}
			return run(cmd.Context(), opts, cmd.Flags(), args, stdin, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to a .toml or .yaml configuration file")
	flags.StringVarP(&opts.format, "format", "f", output.FormatText, "output format: text, json or yaml")
	flags.StringVarP(&opts.language, "language", "l", "", "language id for stdin input")
	flags.StringVar(&opts.markRegex, "mark-regex", "", "mark header pattern with label and separator groups")
	flags.BoolVar(&opts.noRegion, "no-region", false, "skip folding region headers")
	flags.BoolVar(&opts.noMark, "no-mark", false, "skip MARK headers")
	flags.StringVar(&opts.engine, "engine", "", "regular expression engine: regexp2 or std")
	flags.IntVarP(&opts.jobs, "jobs", "j", 0, "files scanned concurrently")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "rescan files when they change")
	flags.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	opts.log.RegisterFlags(flags)

	return cmd
}

// applyFlags copies explicitly set flags into the flags layer of cfg.
func applyFlags(cfg *config.Config, opts *options, flags *pflag.FlagSet) error {
	overrides := []struct {
		flag  string
		path  string
		value any
	}{
		{"mark-regex", "sections.markRegex", opts.markRegex},
		{"no-region", "sections.findRegionHeaders", !opts.noRegion},
		{"no-mark", "sections.findMarkHeaders", !opts.noMark},
		{"engine", "sections.engine", opts.engine},
		{"jobs", "scan.jobs", opts.jobs},
		{"log-level", "log.level", opts.log.Level},
		{"log-format", "log.format", opts.log.Format},
	}
	for _, o := range overrides {
		if !flags.Changed(o.flag) {
			continue
		}
		if err := cfg.Set(o.path, o.value); err != nil {
			return fmt.Errorf("--%s: %w", o.flag, err)
		}
	}
	return nil
}

func run(ctx context.Context, opts *options, flags *pflag.FlagSet, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, opts, flags); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := cfg.Log()
	logger, err := log.New(stderr, logCfg.Level, logCfg.Format)
	if err != nil {
		return err
	}

	registry := language.NewDefaultRegistry()
	if err := cfg.ApplyLanguages(registry); err != nil {
		return err
	}
	if opts.language != "" {
		if _, ok := registry.Lookup(opts.language); !ok {
			return fmt.Errorf("%w: %q", language.ErrUnknownLanguage, opts.language)
		}
	}

	enc, err := output.ForFormat(opts.format)
	if err != nil {
		return err
	}

	scanCfg := cfg.Scan()
	scanner := scan.New(
		scan.WithEngine(cfg.Engine()),
		scan.WithRegistry(registry),
		scan.WithOptions(cfg.SectionOptions(nil)),
		scan.WithLogger(logger),
		scan.WithJobs(scanCfg.Jobs),
		scan.WithMaxFileSize(scanCfg.MaxFileSize),
	)

	results, err := scanArgs(ctx, scanner, args, stdin, opts.language)
	if err != nil {
		return err
	}
	if err := enc.Encode(stdout, results); err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}

	if opts.watch {
		return watch(ctx, cfg, scanner, enc, args, stdout, logger)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d inputs failed", failed, len(results))
	}
	return nil
}

// scanArgs scans every argument, reading "-" from stdin, and returns the
// results in argument order.
func scanArgs(ctx context.Context, scanner *scan.Scanner, args []string, stdin io.Reader, lang string) ([]scan.FileResult, error) {
	var files []string
	stdinAt := -1
	for i, arg := range args {
		if arg != "-" {
			files = append(files, arg)
			continue
		}
		if stdinAt >= 0 {
			return nil, errors.New("stdin (-) given more than once")
		}
		stdinAt = i
	}

	results, err := scanner.ScanFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	if stdinAt < 0 {
		return results, nil
	}

	res, err := scanner.ScanReader(ctx, stdinName, stdin, lang)
	if err != nil {
		return nil, err
	}
	results = append(results, scan.FileResult{})
	copy(results[stdinAt+1:], results[stdinAt:])
	results[stdinAt] = res
	return results, nil
}

// watch rescans files as they change until ctx is done.
func watch(ctx context.Context, cfg *config.Config, scanner *scan.Scanner, enc output.Encoder, args []string, stdout io.Writer, logger *slog.Logger) error {
	display := make(map[string]string, len(args))
	var files []string
	for _, arg := range args {
		if arg == "-" {
			return errors.New("--watch cannot be used with stdin")
		}
		abs, err := filepath.Abs(arg)
		if err != nil {
			return err
		}
		display[abs] = arg
		files = append(files, arg)
	}

	w, err := watcher.New(files, watcher.WithDebounce(cfg.Watch().Debounce), watcher.WithLogger(logger))
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("watching files", slog.Int("count", len(files)))

	err = w.Run(ctx, func(e watcher.Event) {
		path := display[e.Path]
		if path == "" {
			path = e.Path
		}
		res, err := scanner.ScanFile(ctx, path)
		if err != nil {
			return
		}
		if err := enc.Encode(stdout, []scan.FileResult{res}); err != nil {
			logger.Error("writing results", slog.Any("error", err))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
