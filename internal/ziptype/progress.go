package ziptype

// ProgressEvent represents a progress update during pack or unpack operations.
type ProgressEvent struct {
	// Stage identifies the current phase of the operation.
	Stage ProgressStage

	// Path is the slash-separated entry name currently being processed, if applicable.
	Path string

	// BytesDone is the number of uncompressed bytes completed so far.
	BytesDone uint64

	// FilesDone is the number of file entries completed so far.
	FilesDone int
}

// ProgressStage identifies the current phase of an operation.
type ProgressStage uint8

const (
	// StageCompressing indicates a file entry has been written to the archive.
	StageCompressing ProgressStage = iota

	// StageFinalizing indicates the central directory is being written.
	StageFinalizing

	// StageExtracting indicates an entry has been materialized on disk.
	StageExtracting
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageCompressing:
		return "compressing"
	case StageFinalizing:
		return "finalizing"
	case StageExtracting:
		return "extracting"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during operations.
// Operations call it synchronously from the goroutine running them.
type ProgressFunc func(ProgressEvent)
