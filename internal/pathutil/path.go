// Package pathutil converts between host paths and slash-separated archive
// entry names.
package pathutil

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrNotRelative is returned when a path does not lie beneath its base.
	ErrNotRelative = errors.New("path is not beneath base")

	// ErrNotText is returned when a path is not valid UTF-8.
	ErrNotText = errors.New("path is not valid UTF-8")
)

// Relative returns target relative to base as a slash-separated name.
//
// The base itself yields the empty string. Paths that cannot be expressed
// relative to base, or that are not valid UTF-8, are rejected.
func Relative(base, target string) (string, error) {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotRelative, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", ErrNotRelative
	}
	if rel == "." {
		return "", nil
	}
	if !utf8.ValidString(rel) {
		return "", ErrNotText
	}
	return filepath.ToSlash(rel), nil
}

// IsDirName reports whether an archive entry name denotes a directory.
func IsDirName(name string) bool {
	return strings.HasSuffix(name, "/")
}

// Enclosed resolves an archive entry name to a host path relative to the
// extraction root. It returns false when the name could write outside the
// root: empty names, NUL bytes, absolute or volume-qualified names, and ".."
// segments that climb above the root at any point.
//
// Backslashes are treated as separators so names produced on Windows hosts
// cannot smuggle traversal segments past this check.
//
// A name that resolves to the root itself (for example "./") yields ".".
func Enclosed(name string) (string, bool) {
	if name == "" || strings.IndexByte(name, 0) >= 0 {
		return "", false
	}
	name = strings.ReplaceAll(name, `\`, "/")
	if strings.HasPrefix(name, "/") || filepath.VolumeName(filepath.FromSlash(name)) != "" {
		return "", false
	}

	depth := 0
	for _, part := range strings.Split(name, "/") {
		switch part {
		case "", ".":
		case "..":
			if depth == 0 {
				return "", false
			}
			depth--
		default:
			depth++
		}
	}

	cleaned := path.Clean(name)
	if cleaned == "." {
		return ".", true
	}
	local := filepath.FromSlash(cleaned)
	if !filepath.IsLocal(local) {
		return "", false
	}
	return local, true
}
