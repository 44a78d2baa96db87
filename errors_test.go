package mediatag

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
)

func TestErrors_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "offset beyond file size",
			err:      &OutOfBoundsError{Path: "ring.mmf", Offset: 1000, Length: 4, Size: 500, What: "MMMD chunk"},
			contains: []string{"ring.mmf", "offset 1000 out of bounds", "file size: 500", "MMMD chunk"},
		},
		{
			name:     "read would exceed file size",
			err:      &OutOfBoundsError{Path: "clip.3gp", Offset: 100, Length: 50, Size: 120, What: "box header"},
			contains: []string{"clip.3gp", "read of 50 bytes", "offset 100", "exceed file size 120", "box header"},
		},
		{
			name:     "unsupported format",
			err:      &UnsupportedFormatError{Path: "notes.txt", Reason: "no known signature"},
			contains: []string{"notes.txt", "unsupported format", "no known signature"},
		},
		{
			name:     "corrupted with element",
			err:      &CorruptedFileError{Path: "tune.mid", Element: "MThd", Offset: 0, Reason: "header length 8, want 6"},
			contains: []string{"tune.mid", "corrupted file", "(MThd)", "header length 8"},
		},
		{
			name:     "corrupted without element",
			err:      &CorruptedFileError{Path: "broken.mp4", Offset: 256, Reason: "box size below header"},
			contains: []string{"broken.mp4", "offset 256", "box size below header"},
		},
		{
			name:     "unsupported variant",
			err:      &UnsupportedVariantError{Path: "voice.amr", Variant: "multi-channel AMR"},
			contains: []string{"voice.amr", "unsupported variant", "multi-channel AMR"},
		},
		{
			name:     "out of range",
			err:      &OutOfRangeError{Path: "song.mp3", Field: "ID3v2 version", Value: 5},
			contains: []string{"song.mp3", "ID3v2 version", "5", "out of range"},
		},
		{
			name:     "open",
			err:      &OpenError{Path: "missing.amr", Kind: ErrNotFound, Err: fs.ErrNotExist},
			contains: []string{"missing.amr", "not found"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(msg, substr) {
					t.Errorf("error message %q should contain %q", msg, substr)
				}
			}
		})
	}
}

func TestErrors_Kind(t *testing.T) {
	tests := []struct {
		err  error
		kind Kind
	}{
		{&OpenError{Kind: ErrPermissionDenied, Err: fs.ErrPermission}, ErrPermissionDenied},
		{&OutOfBoundsError{}, ErrTruncated},
		{&UnsupportedFormatError{}, ErrMalformedMagic},
		{&CorruptedFileError{}, ErrMalformedStructure},
		{&UnsupportedVariantError{}, ErrUnsupportedVariant},
		{&OutOfRangeError{}, ErrOutOfRange},
	}
	all := []Kind{
		ErrNotFound, ErrPermissionDenied, ErrBadLocator, ErrTruncated,
		ErrMalformedMagic, ErrMalformedStructure, ErrUnsupportedVariant, ErrOutOfRange,
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			wrapped := fmt.Errorf("parse: %w", tt.err)
			for _, k := range all {
				if got := errors.Is(wrapped, k); got != (k == tt.kind) {
					t.Errorf("errors.Is(%T, %v) = %v", tt.err, k, got)
				}
			}
		})
	}
}

func TestOpenError_Unwrap(t *testing.T) {
	err := &OpenError{Path: "x", Kind: ErrNotFound, Err: fs.ErrNotExist}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("OpenError does not unwrap to its cause")
	}
}
