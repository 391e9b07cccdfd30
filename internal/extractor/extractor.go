// Package extractor unpacks a ZIP archive into a directory tree.
package extractor

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/klauspost/compress/zip"

	"github.com/meigma/ziptree/internal/pathutil"
	"github.com/meigma/ziptree/internal/platform"
	"github.com/meigma/ziptree/internal/ziptype"
)

// "Version made by" host systems.
const (
	creatorFAT  = 0
	creatorUnix = 3
)

// MS-DOS external attribute bits.
const (
	dosReadOnly  = 0x01
	dosDirectory = 0x10
)

// Config configures a single Extract call.
type Config struct {
	// UnsafePaths decides what happens to entries whose names would escape
	// the output directory. The zero value skips them.
	UnsafePaths ziptype.UnsafePathPolicy

	// Logger receives operation logs. Nil discards them.
	Logger *slog.Logger

	// Progress, if set, is called after each materialized entry.
	Progress ziptype.ProgressFunc

	// PermissionBits reports whether stored Unix modes should be restored.
	// Nil uses platform.SupportsPermissionBits.
	PermissionBits func() bool
}

// Extract unpacks every entry of the archive at archivePath beneath
// outputDir, in stored order. outputDir and missing ancestors are created.
//
// Extraction stops at the first failure; entries already written stay on disk.
func Extract(archivePath, outputDir string, cfg Config) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ziptype.ErrOpenArchive, archivePath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w %s: %w", ziptype.ErrOpenArchive, archivePath, err)
	}
	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return fmt.Errorf("%w %s: %w", ziptype.ErrInvalidArchive, archivePath, err)
	}

	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return fmt.Errorf("%w %s: %w", ziptype.ErrCreateDir, outputDir, err)
	}
	root, err := os.OpenRoot(outputDir)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ziptype.ErrCreateDir, outputDir, err)
	}
	defer root.Close()

	x := &extractor{
		cfg:      cfg,
		sink:     newSink(root, outputDir),
		permBits: supportsPermissionBits(cfg.PermissionBits),
	}
	x.log().Info("extracting archive", "archive", archivePath, "output", outputDir, "entries", len(zr.File))

	for _, zf := range zr.File {
		if err := x.extract(zf); err != nil {
			return err
		}
	}

	x.log().Info("archive extracted", "output", outputDir, "files", x.files, "skipped", x.skipped)
	return nil
}

func supportsPermissionBits(fn func() bool) bool {
	if fn == nil {
		return platform.SupportsPermissionBits()
	}
	return fn()
}

// extractor holds state for one extraction.
type extractor struct {
	cfg      Config
	sink     *sink
	permBits bool

	files   int
	skipped int
	bytes   uint64
}

// log returns the logger, falling back to a discard logger if nil.
func (x *extractor) log() *slog.Logger {
	if x.cfg.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return x.cfg.Logger
}

func (x *extractor) reportProgress(name string) {
	if x.cfg.Progress == nil {
		return
	}
	x.cfg.Progress(ziptype.ProgressEvent{
		Stage:     ziptype.StageExtracting,
		Path:      name,
		BytesDone: x.bytes,
		FilesDone: x.files,
	})
}

// extract materializes a single entry.
func (x *extractor) extract(zf *zip.File) error {
	rel, ok := pathutil.Enclosed(zf.Name)
	if !ok {
		if x.cfg.UnsafePaths == ziptype.UnsafePathReject {
			return fmt.Errorf("%w: %q", ziptype.ErrUnsafePath, zf.Name)
		}
		x.skipped++
		x.log().Warn("skipped unsafe entry", "name", zf.Name)
		return nil
	}

	if pathutil.IsDirName(zf.Name) {
		if err := x.sink.mkdirAll(rel); err != nil {
			return err
		}
	} else {
		rc, err := zf.Open()
		if err != nil {
			return fmt.Errorf("%w %s: %w", ziptype.ErrReadEntry, zf.Name, err)
		}
		n, err := x.sink.writeFile(rel, rc)
		rc.Close()
		if err != nil {
			return err
		}
		x.files++
		x.bytes += uint64(n) //nolint:gosec // Copy never returns a negative count
	}

	if mode, ok := storedMode(&zf.FileHeader); ok && x.permBits {
		if err := x.sink.chmod(rel, mode); err != nil {
			return err
		}
	}

	x.reportProgress(zf.Name)
	return nil
}

// storedMode returns the Unix mode recorded for an entry.
//
// Entries made on a Unix host carry it in the high external attributes; a
// zero there means no mode. Entries made on a DOS host get one derived from
// the directory and read-only attribute bits: 0775 for directories, 0664 for
// files, with write bits cleared when read-only. Other hosts carry none.
func storedMode(h *zip.FileHeader) (os.FileMode, bool) {
	switch h.CreatorVersion >> 8 {
	case creatorUnix:
		if h.ExternalAttrs>>16 == 0 {
			return 0, false
		}
		return platform.PermissionBits(h.Mode()), true
	case creatorFAT:
		if h.ExternalAttrs == 0 {
			return 0, false
		}
		mode := os.FileMode(0o664)
		if h.ExternalAttrs&dosDirectory != 0 {
			mode = 0o775
		}
		if h.ExternalAttrs&dosReadOnly != 0 {
			mode &= 0o555
		}
		return mode, true
	default:
		return 0, false
	}
}
