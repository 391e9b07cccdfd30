package ziptree

import "github.com/meigma/ziptree/internal/ziptype"

// Validation errors, reported before any filesystem work.
var (
	// ErrInvalidLevel is returned when the compression level is outside [MinLevel, MaxLevel].
	ErrInvalidLevel = ziptype.ErrInvalidLevel

	// ErrInvalidPattern is returned for a malformed exclude glob under
	// PackWithRejectInvalidPatterns.
	ErrInvalidPattern = ziptype.ErrInvalidPattern
)

// Pack errors.
var (
	// ErrCreateArchive is returned when the output archive cannot be created.
	ErrCreateArchive = ziptype.ErrCreateArchive

	// ErrWalk is returned when the source tree cannot be traversed.
	ErrWalk = ziptype.ErrWalk

	// ErrInvalidName is returned when a source path cannot be made relative
	// or is not valid UTF-8.
	ErrInvalidName = ziptype.ErrInvalidName

	// ErrOpenSource is returned when a source file cannot be opened.
	ErrOpenSource = ziptype.ErrOpenSource

	// ErrReadSource is returned when reading a source file fails mid-stream.
	ErrReadSource = ziptype.ErrReadSource

	// ErrWriteEntry is returned when writing to the archive fails.
	ErrWriteEntry = ziptype.ErrWriteEntry

	// ErrFinalize is returned when the central directory cannot be written or flushed.
	ErrFinalize = ziptype.ErrFinalize
)

// Unpack errors.
var (
	// ErrOpenArchive is returned when the archive file cannot be opened.
	ErrOpenArchive = ziptype.ErrOpenArchive

	// ErrInvalidArchive is returned when the archive is not a valid ZIP container.
	ErrInvalidArchive = ziptype.ErrInvalidArchive

	// ErrReadEntry is returned when an entry cannot be read or decompressed.
	ErrReadEntry = ziptype.ErrReadEntry

	// ErrCreateDir is returned when an output directory cannot be created.
	ErrCreateDir = ziptype.ErrCreateDir

	// ErrCreateFile is returned when an output file cannot be created.
	ErrCreateFile = ziptype.ErrCreateFile

	// ErrWriteFile is returned when writing an output file fails.
	ErrWriteFile = ziptype.ErrWriteFile

	// ErrSetPermissions is returned when a stored mode cannot be applied.
	ErrSetPermissions = ziptype.ErrSetPermissions

	// ErrUnsafePath is returned for an escaping entry under UnsafePathReject.
	ErrUnsafePath = ziptype.ErrUnsafePath
)
