package ziptree

import (
	"github.com/meigma/ziptree/internal/archiver"
	"github.com/meigma/ziptree/internal/extractor"
	"github.com/meigma/ziptree/internal/platform"
	"github.com/meigma/ziptree/internal/ziptype"
)

// Compression level bounds and the level used when none is given.
const (
	MinLevel     = ziptype.MinLevel
	MaxLevel     = ziptype.MaxLevel
	DefaultLevel = ziptype.DefaultLevel
)

// ValidateLevel returns ErrInvalidLevel if level is outside [MinLevel, MaxLevel].
func ValidateLevel(level int) error {
	return ziptype.ValidateLevel(level)
}

// SupportsPermissionBits reports whether this host exposes POSIX permission
// bits. When it returns false, Pack records no Unix modes and Unpack leaves
// default permissions.
func SupportsPermissionBits() bool {
	return platform.SupportsPermissionBits()
}

// Pack writes every non-excluded file and directory beneath sourceDir into a
// new ZIP archive at outputPath, overwriting any existing file, and returns
// the number of file entries written. Directories are archived as marker
// entries but not counted.
//
// The compression level is validated before outputPath is touched. Any later
// failure aborts the operation and leaves the partial archive on disk.
func Pack(sourceDir, outputPath string, opts ...PackOption) (int, error) {
	cfg := packConfig{level: DefaultLevel}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := ValidateLevel(cfg.level); err != nil {
		return 0, err
	}

	return archiver.Archive(sourceDir, outputPath, archiver.Config{
		Level:    cfg.level,
		Exclude:  cfg.exclude,
		Patterns: cfg.patterns,
		Symlinks: cfg.symlinks,
		Logger:   cfg.logger,
		Progress: cfg.progress,
	})
}

// Unpack extracts the ZIP archive at archivePath into outputDir, creating it
// as needed. Entries are processed in stored order; a later entry with the
// same name overwrites an earlier one.
//
// Extraction stops at the first failure. Entries already written stay on disk.
func Unpack(archivePath, outputDir string, opts ...UnpackOption) error {
	cfg := unpackConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return extractor.Extract(archivePath, outputDir, extractor.Config{
		UnsafePaths: cfg.unsafePaths,
		Logger:      cfg.logger,
		Progress:    cfg.progress,
	})
}
