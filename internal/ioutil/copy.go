// Package ioutil provides the streaming copy used to move entry content
// between files and archives.
package ioutil

import (
	"errors"
	"io"
)

// ReadError wraps a failure reported by the source of a Copy.
type ReadError struct {
	Err error
}

func (e *ReadError) Error() string { return "read: " + e.Err.Error() }

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError wraps a failure reported by the destination of a Copy.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string { return "write: " + e.Err.Error() }

func (e *WriteError) Unwrap() error { return e.Err }

// Copy streams src into dst through buf until src reports io.EOF.
//
// Unlike io.CopyBuffer it never delegates to io.WriterTo or io.ReaderFrom, so
// buf is always the staging buffer. Short reads are not errors; the loop keeps
// reading until EOF. Failures are returned as *ReadError or *WriteError so
// callers can tell a faulty source from a faulty destination.
func Copy(dst io.Writer, src io.Reader, buf []byte) (int64, error) {
	if len(buf) == 0 {
		return 0, errors.New("ioutil: empty copy buffer")
	}
	var written int64
	for {
		nr, rerr := src.Read(buf)
		if nr > 0 {
			nw, werr := dst.Write(buf[:nr])
			if nw > 0 {
				written += int64(nw)
			}
			if werr != nil {
				return written, &WriteError{Err: werr}
			}
			if nw != nr {
				return written, &WriteError{Err: io.ErrShortWrite}
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return written, nil
			}
			return written, &ReadError{Err: rerr}
		}
	}
}
