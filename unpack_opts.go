package ziptree

import (
	"log/slog"

	"github.com/meigma/ziptree/internal/ziptype"
)

// UnsafePathPolicy decides what Unpack does with an entry whose name would
// resolve outside the output directory.
type UnsafePathPolicy = ziptype.UnsafePathPolicy

const (
	// UnsafePathSkip skips escaping entries and extracts the rest. This is the default.
	UnsafePathSkip = ziptype.UnsafePathSkip

	// UnsafePathReject fails Unpack with ErrUnsafePath at the first escaping entry.
	UnsafePathReject = ziptype.UnsafePathReject
)

// unpackConfig holds configuration for Unpack.
type unpackConfig struct {
	unsafePaths UnsafePathPolicy
	logger      *slog.Logger
	progress    ProgressFunc
}

// UnpackOption configures Unpack.
type UnpackOption func(*unpackConfig)

// UnpackWithUnsafePathPolicy sets how escaping entries are handled.
// Default: UnsafePathSkip.
func UnpackWithUnsafePathPolicy(p UnsafePathPolicy) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.unsafePaths = p
	}
}

// UnpackWithLogger sets the logger. By default logs are discarded.
func UnpackWithLogger(logger *slog.Logger) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.logger = logger
	}
}

// UnpackWithProgress sets a callback invoked after each extracted entry.
func UnpackWithProgress(fn ProgressFunc) UnpackOption {
	return func(cfg *unpackConfig) {
		cfg.progress = fn
	}
}
