// Package log builds the slog handlers used by the sectionscan binary.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// Format represents the log output format.
type Format string

const (
	// FormatText outputs logs in logfmt style text.
	FormatText Format = "text"
	// FormatJSON outputs logs as JSON objects.
	FormatJSON Format = "json"
)

var (
	// ErrUnknownLogLevel indicates an unrecognized log level string.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrUnknownLogFormat indicates an unrecognized log format string.
	ErrUnknownLogFormat = errors.New("unknown log format")
)

var levelNames = []string{"error", "warn", "info", "debug"}

// NewHandler creates a [slog.Handler] from level and format strings.
func NewHandler(w io.Writer, level, format string) (slog.Handler, error) {
	lvl, err := GetLevel(level)
	if err != nil {
		return nil, err
	}

	logFmt, err := GetFormat(format)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if lvl == slog.LevelDebug {
		opts.AddSource = true
	}

	if logFmt == FormatJSON {
		return slog.NewJSONHandler(w, opts), nil
	}
	return slog.NewTextHandler(w, opts), nil
}

// New creates a logger from level and format strings.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	h, err := NewHandler(w, level, format)
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}

// GetLevel parses a log level string and returns the corresponding
// [slog.Level].
func GetLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLogLevel, level)
}

// GetFormat parses a log format string and returns the corresponding [Format].
func GetFormat(format string) (Format, error) {
	logFmt := Format(strings.ToLower(strings.TrimSpace(format)))
	if logFmt == "" || logFmt == "logfmt" {
		return FormatText, nil
	}
	if slices.Contains([]Format{FormatJSON, FormatText}, logFmt) {
		return logFmt, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownLogFormat, format)
}

// Flags holds log flag values bound to a [pflag.FlagSet].
type Flags struct {
	Level  string
	Format string
}

// RegisterFlags adds --log-level and --log-format to flags.
func (f *Flags) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&f.Level, "log-level", "",
		fmt.Sprintf("log level, one of: %s", strings.Join(levelNames, ", ")))
	flags.StringVar(&f.Format, "log-format", "",
		fmt.Sprintf("log format, one of: %s, %s", FormatText, FormatJSON))
}
