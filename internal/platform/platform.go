// Package platform answers host capability questions and opens source files
// without following symbolic links.
package platform

import (
	"errors"
	"io/fs"
	"os"
	"runtime"
)

var (
	// ErrSymlink is returned when a source path is a symbolic link.
	ErrSymlink = errors.New("symbolic link")

	// ErrNotRegular is returned when a source path is not a regular file.
	ErrNotRegular = errors.New("not a regular file")
)

// SupportsPermissionBits reports whether the host filesystem exposes POSIX
// permission bits. Archive entries only carry a Unix mode, and extraction only
// restores one, when this returns true.
func SupportsPermissionBits() bool {
	switch runtime.GOOS {
	case "windows", "plan9", "js":
		return false
	default:
		return true
	}
}

// PermissionBits keeps the permission, setuid, setgid and sticky bits of mode.
func PermissionBits(mode fs.FileMode) fs.FileMode {
	return mode & (fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky)
}

// OpenFollow opens path for reading, following symbolic links, and returns the
// target's file info. It fails with ErrNotRegular unless the target is a
// regular file, and never opens anything else so a FIFO cannot block it.
func OpenFollow(path string) (*os.File, fs.FileInfo, error) {
	target, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if !target.Mode().IsRegular() {
		return nil, nil, ErrNotRegular
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() || !os.SameFile(target, info) {
		f.Close()
		return nil, nil, ErrNotRegular
	}
	return f, info, nil
}
