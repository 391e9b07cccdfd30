package ziptype

import "errors"

// Validation errors. These are reported before any filesystem work begins.
var (
	// ErrInvalidLevel is returned when a compression level is outside [MinLevel, MaxLevel].
	ErrInvalidLevel = errors.New("ziptree: invalid compression level")

	// ErrInvalidPattern is returned for a malformed exclusion glob when
	// PatternsRejectInvalid is in effect.
	ErrInvalidPattern = errors.New("ziptree: invalid exclude pattern")
)

// Archive creation errors.
var (
	ErrCreateArchive = errors.New("ziptree: create archive")
	ErrWalk          = errors.New("ziptree: walk source")
	ErrInvalidName   = errors.New("ziptree: invalid entry name")
	ErrOpenSource    = errors.New("ziptree: open source file")
	ErrReadSource    = errors.New("ziptree: read source file")
	ErrWriteEntry    = errors.New("ziptree: write entry")
	ErrFinalize      = errors.New("ziptree: finalize archive")
)

// Extraction errors.
var (
	ErrOpenArchive    = errors.New("ziptree: open archive")
	ErrInvalidArchive = errors.New("ziptree: invalid archive")
	ErrReadEntry      = errors.New("ziptree: read entry")
	ErrCreateDir      = errors.New("ziptree: create directory")
	ErrCreateFile     = errors.New("ziptree: create file")
	ErrWriteFile      = errors.New("ziptree: write file")
	ErrSetPermissions = errors.New("ziptree: set permissions")

	// ErrUnsafePath is returned for an entry whose name escapes the output
	// directory. It is only reported under UnsafePathReject.
	ErrUnsafePath = errors.New("ziptree: unsafe entry path")
)
