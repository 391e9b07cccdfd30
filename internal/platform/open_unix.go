//go:build unix

package platform

import (
	"errors"
	"io/fs"
	"os"
	"syscall"
)

// OpenRegular opens name beneath root for reading without following a final
// symbolic link, and returns its file info. It fails with ErrSymlink for links
// and ErrNotRegular for anything other than a regular file.
func OpenRegular(root *os.Root, name string) (*os.File, fs.FileInfo, error) {
	linfo, err := root.Lstat(name)
	if err != nil {
		return nil, nil, err
	}
	if linfo.Mode()&fs.ModeSymlink != 0 {
		return nil, nil, ErrSymlink
	}
	// O_NOFOLLOW catches a link swapped in after the Lstat.
	f, err := root.OpenFile(name, os.O_RDONLY|syscall.O_NOFOLLOW, 0)
	if err != nil {
		if errors.Is(err, syscall.ELOOP) {
			return nil, nil, ErrSymlink
		}
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() || !os.SameFile(linfo, info) {
		f.Close()
		return nil, nil, ErrNotRegular
	}
	return f, info, nil
}
