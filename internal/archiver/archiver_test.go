package archiver

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/ziptree/internal/testutil"
	"github.com/meigma/ziptree/internal/ziptype"
)

func defaultConfig() Config {
	return Config{Level: ziptype.DefaultLevel}
}

func sortedNames(t *testing.T, path string) []string {
	t.Helper()
	names := testutil.ZipNames(t, path)
	sort.Strings(names)
	return names
}

func readEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(data)
	}
	return out
}

func TestArchive(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	files := map[string]string{
		"a.txt":         "content of a",
		"sub/b.txt":     "content of b",
		"sub/deep/c.go": "package main",
	}
	testutil.CreateTestFiles(t, src, files)

	out := filepath.Join(t.TempDir(), "out.zip")
	count, err := Archive(src, out, defaultConfig())
	require.NoError(t, err)

	// Three files and two subdirectories: only files are counted.
	assert.Equal(t, 3, count)
	assert.Equal(t, []string{"a.txt", "sub/", "sub/b.txt", "sub/deep/", "sub/deep/c.go"}, sortedNames(t, out))
	assert.Equal(t, files, readEntries(t, out))
}

func TestArchiveEntriesUseDeflate(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateTestFiles(t, src, map[string]string{"a.txt": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"})
	testutil.CreateTestDirs(t, src, "empty")

	out := filepath.Join(t.TempDir(), "out.zip")
	_, err := Archive(src, out, defaultConfig())
	require.NoError(t, err)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name == "empty/" {
			assert.Equal(t, zip.Store, f.Method)
			assert.Zero(t, f.UncompressedSize64)
			continue
		}
		assert.Equal(t, zip.Deflate, f.Method, f.Name)
	}
}

func TestArchiveEmptySource(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out.zip")
	count, err := Archive(t.TempDir(), out, defaultConfig())
	require.NoError(t, err)

	assert.Zero(t, count)
	assert.Empty(t, testutil.ZipNames(t, out))
}

func TestArchiveExclude(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateTestFiles(t, src, map[string]string{
		"a.tmp": "scratch",
		"a.txt": "keep",
	})

	out := filepath.Join(t.TempDir(), "out.zip")
	cfg := defaultConfig()
	cfg.Exclude = []string{"*.tmp"}
	count, err := Archive(src, out, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"a.txt"}, sortedNames(t, out))
}

func TestArchiveExcludeMatchesNestedPaths(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateTestFiles(t, src, map[string]string{
		"sub/a.tmp":  "scratch",
		"sub/a.txt":  "keep",
		"deep/x/y.z": "keep",
	})

	out := filepath.Join(t.TempDir(), "out.zip")
	cfg := defaultConfig()
	cfg.Exclude = []string{"*.tmp"}
	count, err := Archive(src, out, cfg)
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.NotContains(t, sortedNames(t, out), "sub/a.tmp")
}

func TestArchiveExcludeDoesNotPruneDirectories(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateTestFiles(t, src, map[string]string{
		"build/out.bin": "binary",
		"main.go":       "package main",
	})

	out := filepath.Join(t.TempDir(), "out.zip")
	cfg := defaultConfig()
	cfg.Exclude = []string{"build"}
	count, err := Archive(src, out, cfg)
	require.NoError(t, err)

	// The directory marker is excluded, but its children are tested on their own.
	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"build/out.bin", "main.go"}, sortedNames(t, out))
}

func TestArchiveInvalidPatterns(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateTestFiles(t, src, map[string]string{"[unclosed": "x", "a.txt": "y"})

	t.Run("ignored", func(t *testing.T) {
		t.Parallel()
		out := filepath.Join(t.TempDir(), "out.zip")
		cfg := defaultConfig()
		cfg.Exclude = []string{"[unclosed"}
		count, err := Archive(src, out, cfg)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("rejected", func(t *testing.T) {
		t.Parallel()
		out := filepath.Join(t.TempDir(), "out.zip")
		cfg := defaultConfig()
		cfg.Exclude = []string{"[unclosed"}
		cfg.Patterns = ziptype.PatternsRejectInvalid
		_, err := Archive(src, out, cfg)
		require.ErrorIs(t, err, ziptype.ErrInvalidPattern)
		assert.NoFileExists(t, out)
	})
}

func TestArchiveLevels(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateTestFiles(t, src, map[string]string{"a.txt": "hello hello hello hello"})

	for level := ziptype.MinLevel; level <= ziptype.MaxLevel; level++ {
		out := filepath.Join(t.TempDir(), "out.zip")
		count, err := Archive(src, out, Config{Level: level})
		require.NoError(t, err, "level %d", level)
		assert.Equal(t, 1, count)
		assert.Equal(t, map[string]string{"a.txt": "hello hello hello hello"}, readEntries(t, out))
	}
}

func TestArchiveRejectsInvalidLevel(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	for _, level := range []int{-1, 10} {
		out := filepath.Join(t.TempDir(), "out.zip")
		_, err := Archive(src, out, Config{Level: level})
		require.ErrorIs(t, err, ziptype.ErrInvalidLevel)
		assert.NoFileExists(t, out)
	}
}

func TestArchiveMissingSource(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "out.zip")
	_, err := Archive(filepath.Join(t.TempDir(), "missing"), out, defaultConfig())
	require.ErrorIs(t, err, ziptype.ErrWalk)

	// The output was created before the walk started and is left behind.
	assert.FileExists(t, out)
}

func TestArchiveSourceIsFile(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	_, err := Archive(src, filepath.Join(t.TempDir(), "out.zip"), defaultConfig())
	require.ErrorIs(t, err, ziptype.ErrWalk)
}

func TestArchiveCreateFails(t *testing.T) {
	t.Parallel()

	out := filepath.Join(t.TempDir(), "missing", "out.zip")
	_, err := Archive(t.TempDir(), out, defaultConfig())
	require.ErrorIs(t, err, ziptype.ErrCreateArchive)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestArchiveSkipsOwnOutput(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateTestFiles(t, src, map[string]string{"a.txt": "keep"})

	out := filepath.Join(src, "self.zip")
	count, err := Archive(src, out, defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"a.txt"}, sortedNames(t, out))
}

// symlinkTree builds a source holding a.txt, a link to a file outside the
// tree, a link to a directory outside the tree and a dangling link.
func symlinkTree(t *testing.T) string {
	t.Helper()

	outside := t.TempDir()
	testutil.CreateTestFiles(t, outside, map[string]string{
		"target.txt":     "from outside",
		"dir/nested.txt": "not descended",
	})

	src := t.TempDir()
	testutil.CreateTestFiles(t, src, map[string]string{"a.txt": "inside"})
	if err := os.Symlink(filepath.Join(outside, "target.txt"), filepath.Join(src, "link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(outside, "dir"), filepath.Join(src, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(outside, "missing"), filepath.Join(src, "dangling")))
	return src
}

func TestArchiveFollowsSymlinks(t *testing.T) {
	t.Parallel()

	src := symlinkTree(t)
	out := filepath.Join(t.TempDir(), "out.zip")
	count, err := Archive(src, out, defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"a.txt", "link.txt", "linkdir/"}, sortedNames(t, out))
	assert.Equal(t, map[string]string{"a.txt": "inside", "link.txt": "from outside"}, readEntries(t, out))
}

func TestArchiveSkipsSymlinksWhenAsked(t *testing.T) {
	t.Parallel()

	src := symlinkTree(t)
	out := filepath.Join(t.TempDir(), "out.zip")
	cfg := defaultConfig()
	cfg.Symlinks = ziptype.SymlinksSkip
	count, err := Archive(src, out, cfg)
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"a.txt"}, sortedNames(t, out))
}

func TestArchiveSymlinkedSource(t *testing.T) {
	t.Parallel()

	target := t.TempDir()
	testutil.CreateTestFiles(t, target, map[string]string{"a.txt": "x", "sub/b.txt": "y"})
	link := filepath.Join(t.TempDir(), "src")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.zip")
	count, err := Archive(link, out, defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Equal(t, []string{"a.txt", "sub/", "sub/b.txt"}, sortedNames(t, out))
}

func TestArchiveSkipsOwnOutputThroughLink(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateTestFiles(t, src, map[string]string{"a.txt": "keep"})
	link := filepath.Join(t.TempDir(), "alias")
	if err := os.Symlink(src, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	out := filepath.Join(link, "self.zip")
	count, err := Archive(src, out, defaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"a.txt"}, sortedNames(t, out))
}

func TestArchivePermissionBits(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission bits unavailable")
	}
	t.Parallel()

	src := t.TempDir()
	testutil.CreateTestFiles(t, src, map[string]string{"secret.txt": "x"})
	testutil.CreateTestDirs(t, src, "bin")
	require.NoError(t, os.Chmod(filepath.Join(src, "secret.txt"), 0o640))
	require.NoError(t, os.Chmod(filepath.Join(src, "bin"), 0o750))

	out := filepath.Join(t.TempDir(), "out.zip")
	_, err := Archive(src, out, Config{Level: 1, PermissionBits: func() bool { return true }})
	require.NoError(t, err)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	modes := make(map[string]fs.FileMode)
	for _, f := range zr.File {
		modes[f.Name] = f.Mode()
	}
	assert.Equal(t, fs.FileMode(0o640), modes["secret.txt"].Perm())
	assert.Equal(t, fs.FileMode(0o750), modes["bin/"].Perm())
	assert.True(t, modes["bin/"].IsDir())
}

func TestArchiveWithoutPermissionBits(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateTestFiles(t, src, map[string]string{"a.txt": "x"})
	testutil.CreateTestDirs(t, src, "sub")

	out := filepath.Join(t.TempDir(), "out.zip")
	_, err := Archive(src, out, Config{Level: 1, PermissionBits: func() bool { return false }})
	require.NoError(t, err)

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 2)
	for _, f := range zr.File {
		assert.Zero(t, f.ExternalAttrs, f.Name)
	}
}

func TestArchiveProgress(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.CreateTestFiles(t, src, map[string]string{
		"a.txt":     "12345",
		"sub/b.txt": "678",
	})

	var events []ziptype.ProgressEvent
	cfg := defaultConfig()
	cfg.Progress = func(ev ziptype.ProgressEvent) { events = append(events, ev) }

	_, err := Archive(src, filepath.Join(t.TempDir(), "out.zip"), cfg)
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, ziptype.StageCompressing, events[0].Stage)
	assert.Equal(t, 1, events[0].FilesDone)
	last := events[len(events)-1]
	assert.Equal(t, ziptype.StageFinalizing, last.Stage)
	assert.Equal(t, 2, last.FilesDone)
	assert.Equal(t, uint64(8), last.BytesDone)
}

func TestDeflaterReusesWriter(t *testing.T) {
	t.Parallel()

	d := newDeflater(5)
	w1, err := d.compressor(io.Discard)
	require.NoError(t, err)
	require.NoError(t, w1.Close())

	w2, err := d.compressor(io.Discard)
	require.NoError(t, err)
	assert.Same(t, w1, w2)
}

func TestHeader(t *testing.T) {
	t.Parallel()

	h := header("a.txt", ziptype.EntryOptions{Method: zip.Deflate, Level: 1, Zip64: true})
	assert.Equal(t, "a.txt", h.Name)
	assert.Equal(t, zip.Deflate, h.Method)
	assert.Zero(t, h.ExternalAttrs)

	h = header("a.txt", ziptype.EntryOptions{Method: zip.Deflate, Mode: 0o640, HasMode: true})
	assert.Equal(t, fs.FileMode(0o640), h.Mode().Perm())
}
