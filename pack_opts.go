package ziptree

import (
	"log/slog"

	"github.com/meigma/ziptree/internal/ziptype"
)

// PatternPolicy decides what Pack does with exclude globs that fail to compile.
type PatternPolicy = ziptype.PatternPolicy

const (
	// PatternsIgnoreInvalid drops malformed globs; they never match. This is the default.
	PatternsIgnoreInvalid = ziptype.PatternsIgnoreInvalid

	// PatternsRejectInvalid fails Pack with ErrInvalidPattern before any output is created.
	PatternsRejectInvalid = ziptype.PatternsRejectInvalid
)

// SymlinkPolicy decides what Pack does with symbolic links beneath the source
// directory. A source directory that is itself a link is always resolved.
type SymlinkPolicy = ziptype.SymlinkPolicy

const (
	// SymlinksFollow archives a link to a file as that file's content and
	// mode, and a link to a directory as a directory marker without its
	// contents. Dangling links are skipped. This is the default.
	SymlinksFollow = ziptype.SymlinksFollow

	// SymlinksSkip leaves every link out of the archive.
	SymlinksSkip = ziptype.SymlinksSkip
)

// packConfig holds configuration for Pack.
type packConfig struct {
	level    int
	exclude  []string
	patterns PatternPolicy
	symlinks SymlinkPolicy
	logger   *slog.Logger
	progress ProgressFunc
}

// PackOption configures Pack.
type PackOption func(*packConfig)

// PackWithLevel sets the deflate level. Valid levels are MinLevel through
// MaxLevel; 0 stores data in uncompressed deflate blocks. Default: DefaultLevel.
func PackWithLevel(level int) PackOption {
	return func(cfg *packConfig) {
		cfg.level = level
	}
}

// PackWithExclude adds shell-style globs matched against slash-separated
// paths relative to the source directory. Matching entries are skipped.
func PackWithExclude(patterns ...string) PackOption {
	return func(cfg *packConfig) {
		cfg.exclude = append(cfg.exclude, patterns...)
	}
}

// PackWithPatternPolicy sets how malformed exclude globs are handled.
func PackWithPatternPolicy(p PatternPolicy) PackOption {
	return func(cfg *packConfig) {
		cfg.patterns = p
	}
}

// PackWithRejectInvalidPatterns makes malformed exclude globs an error.
// It is shorthand for PackWithPatternPolicy(PatternsRejectInvalid).
func PackWithRejectInvalidPatterns() PackOption {
	return PackWithPatternPolicy(PatternsRejectInvalid)
}

// PackWithSymlinkPolicy sets how symbolic links beneath the source are handled.
// Default: SymlinksFollow.
func PackWithSymlinkPolicy(p SymlinkPolicy) PackOption {
	return func(cfg *packConfig) {
		cfg.symlinks = p
	}
}

// PackWithLogger sets the logger. By default logs are discarded.
func PackWithLogger(logger *slog.Logger) PackOption {
	return func(cfg *packConfig) {
		cfg.logger = logger
	}
}

// PackWithProgress sets a callback invoked after each file entry and once
// before the archive is finalized.
func PackWithProgress(fn ProgressFunc) PackOption {
	return func(cfg *packConfig) {
		cfg.progress = fn
	}
}

// PackWithArchiveOptions applies a decoded ArchiveOptions value.
// A nil Level keeps the current level; Exclude patterns are appended.
func PackWithArchiveOptions(o ArchiveOptions) PackOption {
	return func(cfg *packConfig) {
		if o.Level != nil {
			cfg.level = *o.Level
		}
		cfg.exclude = append(cfg.exclude, o.Exclude...)
	}
}
