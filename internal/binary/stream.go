package binary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/simonhull/mediatag/internal/types"
)

// Stream is a read-only byte stream over a file or a memory region.
//
// Read, Seek and Tell give the sequential open/read/seek/tell/close
// contract; parsers read through SafeReader instead.
//
// A Stream is owned by the code that opened it and must be closed on every
// exit path. It is not safe for concurrent use; open one Stream per parse.
type Stream struct {
	r      io.ReaderAt
	closer io.Closer
	path   string
	size   int64
	pos    int64
	closed bool
}

// Open opens path read-only.
func Open(path string) (*Stream, error) {
	if path == "" {
		return nil, &types.OpenError{Path: path, Kind: types.BadLocator, Err: errors.New("empty path")}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &types.OpenError{Path: path, Kind: openKind(err), Err: err}
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &types.OpenError{Path: path, Kind: types.BadLocator, Err: err}
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, &types.OpenError{Path: path, Kind: types.BadLocator, Err: fmt.Errorf("not a regular file (%s)", info.Mode().Type())}
	}

	return &Stream{r: f, closer: f, path: path, size: info.Size()}, nil
}

func openKind(err error) types.Kind {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return types.NotFound
	case errors.Is(err, fs.ErrPermission):
		return types.PermissionDenied
	default:
		return types.BadLocator
	}
}

// OpenBytes wraps an in-memory buffer. name is used in error messages only.
func OpenBytes(data []byte, name string) (*Stream, error) {
	if data == nil {
		return nil, &types.OpenError{Path: name, Kind: types.BadLocator, Err: errors.New("nil buffer")}
	}
	return &Stream{r: bytes.NewReader(data), path: name, size: int64(len(data))}, nil
}

// NewStream wraps a caller-owned io.ReaderAt. Close does not close r.
func NewStream(r io.ReaderAt, size int64, name string) *Stream {
	return &Stream{r: r, path: name, size: size}
}

// Read reads up to len(p) bytes from the current position. It returns
// io.EOF only when no bytes remain.
func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, fs.ErrClosed
	}
	if s.pos >= s.size {
		return 0, io.EOF
	}
	if rem := s.size - s.pos; int64(len(p)) > rem {
		p = p[:rem]
	}
	n, err := s.r.ReadAt(p, s.pos)
	s.pos += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}

// ReadAt implements io.ReaderAt without moving the stream position.
func (s *Stream) ReadAt(p []byte, off int64) (int, error) {
	if s.closed {
		return 0, fs.ErrClosed
	}
	return s.r.ReadAt(p, off)
}

// Seek sets the position for the next Read and returns the new absolute
// offset. Positions past the end are allowed; negative ones are not.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = s.pos + offset
	case io.SeekEnd:
		abs = s.size + offset
	default:
		return s.pos, fmt.Errorf("%s: seek: invalid whence %d", s.path, whence)
	}
	if abs < 0 {
		return s.pos, fmt.Errorf("%s: seek: negative position %d", s.path, abs)
	}
	s.pos = abs
	return abs, nil
}

// Tell returns the current position.
func (s *Stream) Tell() int64 { return s.pos }

// Size returns the total length of the stream.
func (s *Stream) Size() int64 { return s.size }

// Path returns the locator the stream was opened with.
func (s *Stream) Path() string { return s.path }

// SafeReader returns a bounds-checked view of the whole stream.
func (s *Stream) SafeReader() *SafeReader {
	return NewSafeReader(s, s.size, s.path)
}

// Close releases the underlying file, if the stream owns one. Closing twice
// is a no-op.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
