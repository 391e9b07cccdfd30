package extractor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/meigma/ziptree/internal/ioutil"
	"github.com/meigma/ziptree/internal/ziptype"
)

const (
	dirPerm  fs.FileMode = 0o755
	filePerm fs.FileMode = 0o644
)

// sink materializes entries beneath an output root.
//
// Every operation goes through an os.Root, so a relative path that passed
// the enclosed-name check still cannot reach outside the root through a
// symbolic link already present on disk.
type sink struct {
	root    *os.Root
	destDir string
	buf     []byte
}

func newSink(root *os.Root, destDir string) *sink {
	return &sink{
		root:    root,
		destDir: destDir,
		buf:     make([]byte, ziptype.BufferSize),
	}
}

// display returns rel joined to the destination for error messages.
func (s *sink) display(rel string) string {
	return filepath.Join(s.destDir, rel)
}

// mkdirAll creates rel and any missing ancestors.
func (s *sink) mkdirAll(rel string) error {
	if err := s.root.MkdirAll(rel, dirPerm); err != nil {
		return fmt.Errorf("%w %s: %w", ziptype.ErrCreateDir, s.display(rel), err)
	}
	return nil
}

// writeFile creates or truncates rel and streams r into it.
// It returns the number of bytes written.
func (s *sink) writeFile(rel string, r io.Reader) (int64, error) {
	if parent := filepath.Dir(rel); parent != "." {
		if err := s.mkdirAll(parent); err != nil {
			return 0, err
		}
	}

	f, err := s.root.OpenFile(rel, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, filePerm)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %w", ziptype.ErrCreateFile, s.display(rel), err)
	}
	defer f.Close()

	n, err := ioutil.Copy(f, r, s.buf)
	if err != nil {
		var rerr *ioutil.ReadError
		if errors.As(err, &rerr) {
			return n, fmt.Errorf("%w %s: %w", ziptype.ErrReadEntry, rel, rerr.Err)
		}
		return n, fmt.Errorf("%w %s: %w", ziptype.ErrWriteFile, s.display(rel), err)
	}
	if err := f.Close(); err != nil {
		return n, fmt.Errorf("%w %s: %w", ziptype.ErrWriteFile, s.display(rel), err)
	}
	return n, nil
}

// chmod applies mode to rel.
func (s *sink) chmod(rel string, mode fs.FileMode) error {
	if err := s.root.Chmod(rel, mode); err != nil {
		return fmt.Errorf("%w %s: %w", ziptype.ErrSetPermissions, s.display(rel), err)
	}
	return nil
}
