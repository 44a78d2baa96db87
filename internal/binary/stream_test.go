package binary

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/simonhull/mediatag/internal/types"
)

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		want types.Kind
	}{
		{"empty path", "", types.BadLocator},
		{"missing file", filepath.Join(dir, "missing.mp3"), types.NotFound},
		{"directory", dir, types.BadLocator},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := Open(tc.path)
			if err == nil {
				s.Close()
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("Open(%q) error = %v, want kind %s", tc.path, err, tc.want)
			}
		})
	}
}

func TestOpenBytes_Nil(t *testing.T) {
	if _, err := OpenBytes(nil, "mem"); !errors.Is(err, types.BadLocator) {
		t.Errorf("OpenBytes(nil) error = %v, want BadLocator", err)
	}
}

func TestStream_ReadSeekTell(t *testing.T) {
	s, err := OpenBytes([]byte("0123456789"), "mem")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	buf := make([]byte, 4)
	if n, err := s.Read(buf); n != 4 || err != nil || string(buf) != "0123" {
		t.Fatalf("Read = %d, %v, %q", n, err, buf)
	}
	if s.Tell() != 4 {
		t.Errorf("Tell() = %d, want 4", s.Tell())
	}

	pos, err := s.Seek(-3, io.SeekEnd)
	if err != nil || pos != 7 {
		t.Fatalf("Seek(-3, End) = %d, %v", pos, err)
	}

	n, err := s.Read(buf)
	if n != 3 || err != nil || string(buf[:n]) != "789" {
		t.Errorf("short Read = %d, %v, %q", n, err, buf[:n])
	}
	if n, err := s.Read(buf); n != 0 || err != io.EOF {
		t.Errorf("Read at end = %d, %v; want 0, EOF", n, err)
	}

	if _, err := s.Seek(-1, io.SeekStart); err == nil {
		t.Error("Seek to negative position succeeded")
	}
	if pos, _ := s.Seek(2, io.SeekCurrent); pos != 12 {
		t.Errorf("Seek(2, Current) = %d, want 12", pos)
	}
}

func TestStream_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.Size() != 5 || s.Path() != path {
		t.Errorf("Size() = %d, Path() = %q", s.Size(), s.Path())
	}

	got, err := s.SafeReader().Bytes(1, 3, "middle")
	if err != nil || string(got) != "ell" {
		t.Errorf("Bytes = %q, %v", got, err)
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := s.Read(make([]byte, 1)); err == nil {
		t.Error("Read after Close succeeded")
	}
}
