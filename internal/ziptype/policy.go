package ziptype

// UnsafePathPolicy decides what extraction does with an entry whose name
// would resolve outside the output directory.
type UnsafePathPolicy uint8

const (
	// UnsafePathSkip silently skips the entry and continues with the rest of
	// the archive. This is the default.
	UnsafePathSkip UnsafePathPolicy = iota

	// UnsafePathReject aborts extraction with ErrUnsafePath.
	UnsafePathReject
)

// String returns the string representation of the policy.
func (p UnsafePathPolicy) String() string {
	switch p {
	case UnsafePathSkip:
		return "skip"
	case UnsafePathReject:
		return "reject"
	default:
		return "unknown"
	}
}

// PatternPolicy decides what archive creation does with an exclusion pattern
// that fails to compile.
type PatternPolicy uint8

const (
	// PatternsIgnoreInvalid drops malformed patterns; they never match.
	// This is the default.
	PatternsIgnoreInvalid PatternPolicy = iota

	// PatternsRejectInvalid fails archive creation with ErrInvalidPattern
	// before any output is created.
	PatternsRejectInvalid
)

// String returns the string representation of the policy.
func (p PatternPolicy) String() string {
	switch p {
	case PatternsIgnoreInvalid:
		return "ignore"
	case PatternsRejectInvalid:
		return "reject"
	default:
		return "unknown"
	}
}

// SymlinkPolicy decides what archive creation does with symbolic links found
// beneath the source directory. The source directory itself is always
// resolved.
type SymlinkPolicy uint8

const (
	// SymlinksFollow archives a link to a regular file as a file entry holding
	// the target's content and mode, and a link to a directory as a directory
	// marker without descending into it. Dangling links are skipped.
	// This is the default.
	SymlinksFollow SymlinkPolicy = iota

	// SymlinksSkip leaves every link out of the archive.
	SymlinksSkip
)

// String returns the string representation of the policy.
func (p SymlinkPolicy) String() string {
	switch p {
	case SymlinksFollow:
		return "follow"
	case SymlinksSkip:
		return "skip"
	default:
		return "unknown"
	}
}
