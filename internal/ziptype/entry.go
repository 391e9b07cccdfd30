package ziptype

import (
	"fmt"
	"io/fs"
	"time"
)

// Compression level bounds and defaults.
const (
	MinLevel     = 0
	MaxLevel     = 9
	DefaultLevel = 1
)

// BufferSize is the size of the buffered archive writer and of the reusable
// copy buffer used while streaming file content.
const BufferSize = 64 * 1024

// ValidateLevel reports ErrInvalidLevel if level is outside [MinLevel, MaxLevel].
func ValidateLevel(level int) error {
	if level < MinLevel || level > MaxLevel {
		return fmt.Errorf("%w: must be between %d and %d (got %d)", ErrInvalidLevel, MinLevel, MaxLevel, level)
	}
	return nil
}

// EntryKind distinguishes file entries from directory markers.
type EntryKind uint8

const (
	KindFile EntryKind = iota
	KindDirectory
)

// String returns the string representation of the kind.
func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Entry is a filesystem object visited during traversal.
//
// RelativePath is slash-separated and relative to the traversal root. It is
// empty only for the root itself, which is never written to an archive.
type Entry struct {
	AbsolutePath string
	RelativePath string
	Kind         EntryKind
}

// Name returns the archive entry name: RelativePath, with a trailing slash
// for directories.
func (e Entry) Name() string {
	if e.Kind == KindDirectory {
		return e.RelativePath + "/"
	}
	return e.RelativePath
}

// EntryOptions are the per-entry settings used when writing an archive entry.
type EntryOptions struct {
	// Method is the ZIP compression method. File entries always use deflate.
	Method uint16

	// Level is the deflate level in [MinLevel, MaxLevel].
	Level int

	// Zip64 is always true: Zip64 records are emitted whenever a size,
	// offset or entry count exceeds the classic ZIP limits.
	Zip64 bool

	// Mode holds the Unix permission bits. It is only meaningful when HasMode is set,
	// which happens only on platforms that expose POSIX permission bits.
	Mode    fs.FileMode
	HasMode bool

	// Modified is the entry modification time. The zero value leaves it unset.
	Modified time.Time
}
