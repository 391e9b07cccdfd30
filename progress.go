package ziptree

import "github.com/meigma/ziptree/internal/ziptype"

// Re-export progress types from internal/ziptype.
type (
	// ProgressEvent represents a progress update during Pack or Unpack.
	ProgressEvent = ziptype.ProgressEvent

	// ProgressStage identifies the current phase of an operation.
	ProgressStage = ziptype.ProgressStage

	// ProgressFunc receives progress updates. It is called synchronously
	// from the goroutine running the operation.
	ProgressFunc = ziptype.ProgressFunc
)

// Re-export progress stage constants.
const (
	// StageCompressing indicates a file entry has been written to the archive.
	StageCompressing = ziptype.StageCompressing

	// StageFinalizing indicates the archive's central directory is being written.
	StageFinalizing = ziptype.StageFinalizing

	// StageExtracting indicates an entry has been written to disk.
	StageExtracting = ziptype.StageExtracting
)
