// Package archiver writes a directory tree into a single ZIP archive.
package archiver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"github.com/meigma/ziptree/internal/exclude"
	"github.com/meigma/ziptree/internal/ioutil"
	"github.com/meigma/ziptree/internal/pathutil"
	"github.com/meigma/ziptree/internal/platform"
	"github.com/meigma/ziptree/internal/ziptype"
)

// Config configures a single Archive call.
type Config struct {
	// Level is the deflate level in [ziptype.MinLevel, ziptype.MaxLevel].
	Level int

	// Exclude holds shell-style globs matched against slash-separated
	// relative paths. Matching entries are skipped individually.
	Exclude []string

	// Patterns decides what happens to exclusion globs that fail to compile.
	Patterns ziptype.PatternPolicy

	// Symlinks decides what happens to symbolic links beneath the source.
	// The zero value follows them.
	Symlinks ziptype.SymlinkPolicy

	// Logger receives operation logs. Nil discards them.
	Logger *slog.Logger

	// Progress, if set, is called after each file entry and before finalization.
	Progress ziptype.ProgressFunc

	// PermissionBits reports whether Unix modes should be recorded.
	// Nil uses platform.SupportsPermissionBits.
	PermissionBits func() bool
}

// Archive writes every non-excluded file and directory beneath sourceDir into
// a new ZIP archive at outputPath and returns the number of file entries
// written. Directory markers are not counted.
//
// On failure the partially written output is left on disk.
func Archive(sourceDir, outputPath string, cfg Config) (int, error) {
	if err := ziptype.ValidateLevel(cfg.Level); err != nil {
		return 0, err
	}
	matcher, err := exclude.Compile(cfg.Exclude, cfg.Patterns)
	if err != nil {
		return 0, err
	}

	a := &archiver{
		cfg:      cfg,
		matcher:  matcher,
		buf:      make([]byte, ziptype.BufferSize),
		permBits: supportsPermissionBits(cfg.PermissionBits),
	}
	for _, p := range matcher.Dropped() {
		a.log().Debug("ignoring invalid exclude pattern", "pattern", p)
	}
	return a.run(sourceDir, outputPath)
}

func supportsPermissionBits(fn func() bool) bool {
	if fn == nil {
		return platform.SupportsPermissionBits()
	}
	return fn()
}

// archiver holds state for one archive creation.
type archiver struct {
	cfg      Config
	matcher  *exclude.Matcher
	buf      []byte
	permBits bool

	zw    *zip.Writer
	root  *os.Root
	self  fs.FileInfo
	files int
	bytes uint64
}

// log returns the logger, falling back to a discard logger if nil.
func (a *archiver) log() *slog.Logger {
	if a.cfg.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.cfg.Logger
}

func (a *archiver) reportProgress(stage ziptype.ProgressStage, name string) {
	if a.cfg.Progress == nil {
		return
	}
	a.cfg.Progress(ziptype.ProgressEvent{
		Stage:     stage,
		Path:      name,
		BytesDone: a.bytes,
		FilesDone: a.files,
	})
}

func (a *archiver) run(sourceDir, outputPath string) (int, error) {
	out, err := os.Create(outputPath)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %w", ziptype.ErrCreateArchive, outputPath, err)
	}
	defer out.Close()

	a.log().Info("creating archive", "source", sourceDir, "output", outputPath,
		"level", a.cfg.Level, "exclude", a.matcher.Len(), "symlinks", a.cfg.Symlinks.String())

	bw := bufio.NewWriterSize(out, ziptype.BufferSize)
	a.zw = zip.NewWriter(bw)
	a.zw.RegisterCompressor(zip.Deflate, newDeflater(a.cfg.Level).compressor)

	// Compared by identity, so an output reached through a link is caught too.
	if a.self, err = out.Stat(); err != nil {
		return 0, fmt.Errorf("%w %s: %w", ziptype.ErrCreateArchive, outputPath, err)
	}

	// The source itself may be a link; walk the directory it names.
	base, err := filepath.EvalSymlinks(sourceDir)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %w", ziptype.ErrWalk, sourceDir, err)
	}
	root, err := os.OpenRoot(base)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %w", ziptype.ErrWalk, sourceDir, err)
	}
	defer root.Close()
	a.root = root

	if err := filepath.WalkDir(base, func(path string, d fs.DirEntry, walkErr error) error {
		return a.visit(base, path, d, walkErr)
	}); err != nil {
		return 0, err
	}

	a.reportProgress(ziptype.StageFinalizing, "")
	if err := a.zw.Close(); err != nil {
		return 0, fmt.Errorf("%w %s: %w", ziptype.ErrFinalize, outputPath, err)
	}
	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("%w %s: %w", ziptype.ErrFinalize, outputPath, err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("%w %s: %w", ziptype.ErrFinalize, outputPath, err)
	}

	a.log().Info("archive created", "output", outputPath, "files", a.files, "bytes", a.bytes)
	return a.files, nil
}

// visit handles a single filesystem object during the walk.
func (a *archiver) visit(base, path string, d fs.DirEntry, walkErr error) error {
	if walkErr != nil {
		return fmt.Errorf("%w %s: %w", ziptype.ErrWalk, path, walkErr)
	}

	rel, err := pathutil.Relative(base, path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ziptype.ErrInvalidName, path, err)
	}
	if rel == "" {
		if !d.IsDir() {
			return fmt.Errorf("%w %s: not a directory", ziptype.ErrWalk, path)
		}
		return nil
	}

	if a.matcher.Match(rel) {
		a.log().Debug("excluded", "path", rel)
		return nil
	}

	switch {
	case d.IsDir():
		info, err := d.Info()
		if err != nil {
			// Metadata is optional for markers; the entry is still written.
			a.log().Debug("directory metadata unavailable", "path", rel, "error", err)
			info = nil
		}
		return a.addDir(ziptype.Entry{AbsolutePath: path, RelativePath: rel, Kind: ziptype.KindDirectory}, info)
	case d.Type().IsRegular():
		return a.addFile(ziptype.Entry{AbsolutePath: path, RelativePath: rel, Kind: ziptype.KindFile})
	case d.Type()&fs.ModeSymlink != 0:
		return a.addLink(path, rel)
	default:
		a.log().Debug("skipped non-regular entry", "path", rel, "type", d.Type().String())
		return nil
	}
}

// addLink archives what a symbolic link points to, per the symlink policy.
// Directory targets become markers and are not descended into.
func (a *archiver) addLink(path, rel string) error {
	if a.cfg.Symlinks == ziptype.SymlinksSkip {
		a.log().Debug("skipped symlink", "path", rel)
		return nil
	}

	target, err := os.Stat(path)
	if err != nil {
		a.log().Debug("skipped dangling symlink", "path", rel, "error", err)
		return nil
	}
	switch {
	case target.IsDir():
		return a.addDir(ziptype.Entry{AbsolutePath: path, RelativePath: rel, Kind: ziptype.KindDirectory}, target)
	case target.Mode().IsRegular():
		e := ziptype.Entry{AbsolutePath: path, RelativePath: rel, Kind: ziptype.KindFile}
		f, info, err := platform.OpenFollow(path)
		if err != nil {
			if errors.Is(err, platform.ErrNotRegular) {
				a.log().Debug("skipped non-regular symlink target", "path", rel)
				return nil
			}
			return fmt.Errorf("%w %s: %w", ziptype.ErrOpenSource, path, err)
		}
		defer f.Close()
		return a.writeFile(e, f, info)
	default:
		a.log().Debug("skipped non-regular symlink target", "path", rel, "type", target.Mode().Type().String())
		return nil
	}
}

// addFile streams one regular file into a new deflate entry.
func (a *archiver) addFile(e ziptype.Entry) error {
	f, info, err := platform.OpenRegular(a.root, filepath.FromSlash(e.RelativePath))
	if err != nil {
		if errors.Is(err, platform.ErrSymlink) || errors.Is(err, platform.ErrNotRegular) {
			a.log().Debug("skipped non-regular entry", "path", e.RelativePath, "reason", err.Error())
			return nil
		}
		return fmt.Errorf("%w %s: %w", ziptype.ErrOpenSource, e.AbsolutePath, err)
	}
	defer f.Close()
	return a.writeFile(e, f, info)
}

// writeFile copies an open source file into a new entry, unless it is the
// archive being written.
func (a *archiver) writeFile(e ziptype.Entry, f *os.File, info fs.FileInfo) error {
	if a.self != nil && os.SameFile(a.self, info) {
		a.log().Debug("skipped output archive", "path", e.RelativePath)
		return nil
	}

	w, err := a.zw.CreateHeader(header(e.Name(), a.entryOptions(info)))
	if err != nil {
		return fmt.Errorf("%w %s: %w", ziptype.ErrWriteEntry, e.RelativePath, err)
	}
	n, err := ioutil.Copy(w, f, a.buf)
	if err != nil {
		var rerr *ioutil.ReadError
		if errors.As(err, &rerr) {
			return fmt.Errorf("%w %s: %w", ziptype.ErrReadSource, e.AbsolutePath, rerr.Err)
		}
		return fmt.Errorf("%w %s: %w", ziptype.ErrWriteEntry, e.RelativePath, err)
	}

	a.files++
	a.bytes += uint64(n) //nolint:gosec // Copy never returns a negative count
	a.reportProgress(ziptype.StageCompressing, e.RelativePath)
	return nil
}

// addDir writes a directory marker entry. info may be nil.
func (a *archiver) addDir(e ziptype.Entry, info fs.FileInfo) error {
	if _, err := a.zw.CreateHeader(header(e.Name(), a.entryOptions(info))); err != nil {
		return fmt.Errorf("%w %s: %w", ziptype.ErrWriteEntry, e.RelativePath, err)
	}
	return nil
}

// entryOptions derives the per-entry settings from filesystem metadata.
// info may be nil, in which case no mode or time is recorded.
func (a *archiver) entryOptions(info fs.FileInfo) ziptype.EntryOptions {
	opts := ziptype.EntryOptions{
		Method: zip.Deflate,
		Level:  a.cfg.Level,
		Zip64:  true,
	}
	if info == nil {
		return opts
	}
	opts.Modified = info.ModTime()
	if a.permBits {
		opts.Mode = info.Mode()
		opts.HasMode = true
	}
	return opts
}

// header builds the ZIP file header for an entry.
//
// Sizes are left unknown so the writer streams the entry with a data
// descriptor and switches to Zip64 records when any size or offset exceeds
// the 32-bit limits. Directory names get Store and no descriptor from the
// writer itself.
func header(name string, opts ziptype.EntryOptions) *zip.FileHeader {
	h := &zip.FileHeader{
		Name:   name,
		Method: opts.Method,
	}
	if !opts.Modified.IsZero() {
		h.Modified = opts.Modified
	}
	if opts.HasMode {
		h.SetMode(opts.Mode)
	}
	return h
}

// deflater hands out one reusable flate.Writer per archive. Entries are
// written one at a time, so a single writer reset per entry is enough.
type deflater struct {
	level int
	fw    *flate.Writer
}

func newDeflater(level int) *deflater {
	return &deflater{level: level}
}

func (d *deflater) compressor(w io.Writer) (io.WriteCloser, error) {
	if d.fw == nil {
		fw, err := flate.NewWriter(w, d.level)
		if err != nil {
			return nil, err
		}
		d.fw = fw
		return fw, nil
	}
	d.fw.Reset(w)
	return d.fw, nil
}
