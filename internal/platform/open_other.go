//go:build !unix

package platform

import (
	"io/fs"
	"os"
)

// OpenRegular opens name beneath root for reading after checking it is not a
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
	f, err := root.Open(name)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegular
	}
	return f, info, nil
}
