// Package binary provides bounds-checked binary reading primitives and the
// byte stream every parser reads from.
package binary

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/simonhull/mediatag/internal/types"
)

// Unsigned is the set of fixed-width integers the generic readers decode.
type Unsigned interface {
	uint8 | uint16 | uint32 | uint64
}

func sizeOf[T Unsigned]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}

func decode[T Unsigned](buf []byte, order binary.ByteOrder) T {
	switch len(buf) {
	case 1:
		return T(buf[0])
	case 2:
		return T(order.Uint16(buf))
	case 4:
		return T(order.Uint32(buf))
	default:
		return T(order.Uint64(buf))
	}
}

// SafeReader wraps io.ReaderAt with bounds checking and helpful error messages.
type SafeReader struct {
	r    io.ReaderAt
	path string
	size int64
}

// NewSafeReader creates a new SafeReader.
func NewSafeReader(r io.ReaderAt, size int64, path string) *SafeReader {
	return &SafeReader{
		r:    r,
		size: size,
		path: path,
	}
}

// Path returns the file path associated with this reader.
func (sr *SafeReader) Path() string {
	return sr.path
}

// Size returns the number of readable bytes.
func (sr *SafeReader) Size() int64 {
	return sr.size
}

// ReadAt fills b from off. A read that would cross the end of the data fails
// with *types.OutOfBoundsError before touching the underlying reader.
func (sr *SafeReader) ReadAt(b []byte, off int64, what string) error {
	if off < 0 || off >= sr.size || off+int64(len(b)) > sr.size {
		return &types.OutOfBoundsError{
			Path:   sr.path,
			What:   what,
			Offset: off,
			Length: len(b),
			Size:   sr.size,
		}
	}

	n, err := sr.r.ReadAt(b, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%s: failed to read %s at offset %d: %w", sr.path, what, off, err)
	}
	if n < len(b) {
		return &types.OutOfBoundsError{
			Path:   sr.path,
			What:   what,
			Offset: off,
			Length: len(b),
			Size:   off + int64(n),
		}
	}

	return nil
}

// Bytes reads n bytes at off into a new slice.
func (sr *SafeReader) Bytes(off int64, n int, what string) ([]byte, error) {
	if n < 0 || off < 0 || int64(n) > sr.size-off {
		return nil, &types.OutOfBoundsError{Path: sr.path, What: what, Offset: off, Length: n, Size: sr.size}
	}
	buf := make([]byte, n)
	if err := sr.ReadAt(buf, off, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// Prefix reads up to n bytes from off, stopping early at the end of data.
// It never fails for a short read; probes use it to fetch scan windows.
func (sr *SafeReader) Prefix(off int64, n int) []byte {
	if off < 0 || off >= sr.size || n <= 0 {
		return nil
	}
	if rem := sr.size - off; int64(n) > rem {
		n = int(rem)
	}
	buf := make([]byte, n)
	got, _ := sr.r.ReadAt(buf, off)
	return buf[:got]
}

// Section returns an io.SectionReader over [off, off+n), clamped to the
// readable bytes. Third-party decoders that expect an io.Reader or
// io.ReadSeeker read through it.
func (sr *SafeReader) Section(off, n int64) *io.SectionReader {
	off = min(max(off, 0), sr.size)
	n = min(max(n, 0), sr.size-off)
	return io.NewSectionReader(sr.r, off, n)
}

// Read reads a big-endian value of type T from the given offset.
func Read[T Unsigned](sr *SafeReader, off int64, what string) (T, error) {
	return readOrder[T](sr, off, what, binary.BigEndian)
}

// ReadLE reads a little-endian value of type T from the given offset.
//
// Example:
//
//	fmtTag, err := binary.ReadLE[uint16](sr, offset, "wave format tag")
func ReadLE[T Unsigned](sr *SafeReader, off int64, what string) (T, error) {
	return readOrder[T](sr, off, what, binary.LittleEndian)
}

func readOrder[T Unsigned](sr *SafeReader, off int64, what string, order binary.ByteOrder) (T, error) {
	buf := make([]byte, sizeOf[T]())
	if err := sr.ReadAt(buf, off, what); err != nil {
		var zero T
		return zero, err
	}
	return decode[T](buf, order), nil
}

// Reader provides sequential reading with automatic offset tracking.
type Reader struct {
	*SafeReader
	offset int64
}

// NewReader creates a new Reader starting at the given offset.
func NewReader(sr *SafeReader, offset int64) *Reader {
	return &Reader{
		SafeReader: sr,
		offset:     offset,
	}
}

// ReadValue reads a big-endian value and advances the offset.
func ReadValue[T Unsigned](r *Reader, what string) (T, error) {
	val, err := Read[T](r.SafeReader, r.offset, what)
	if err != nil {
		var zero T
		return zero, err
	}
	r.offset += int64(sizeOf[T]())
	return val, nil
}

// ReadString reads a string of the given length and advances the offset.
func (r *Reader) ReadString(length int, what string) (string, error) {
	buf, err := r.SafeReader.Bytes(r.offset, length, what)
	if err != nil {
		return "", err
	}
	r.offset += int64(length)
	return string(buf), nil
}

// Skip advances the offset by n bytes.
func (r *Reader) Skip(n int64) {
	r.offset += n
}

// Offset returns the current offset.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ChainReader allows chaining multiple reads with deferred error checking.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader at off.
func NewChainReader(sr *SafeReader, off int64) *ChainReader {
	return &ChainReader{Reader: NewReader(sr, off)}
}

// ReadChained reads a big-endian value. After the first failure every
// further call returns the zero value without reading.
func ReadChained[T Unsigned](cr *ChainReader, what string) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadValue[T](cr.Reader, what)
	if err != nil {
		cr.err = err
	}
	return val
}

// String reads a string, accumulating any error.
func (cr *ChainReader) String(length int, what string) string {
	if cr.err != nil {
		return ""
	}

	val, err := cr.ReadString(length, what)
	if err != nil {
		cr.err = err
	}
	return val
}

// Err returns the first error encountered, if any.
func (cr *ChainReader) Err() error {
	return cr.err
}
