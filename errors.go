package mediatag

import (
	"github.com/simonhull/mediatag/internal/types"
)

// Kind classifies every error returned by this package. Use errors.Is with
// the Err constants below:
//
//	if errors.Is(err, mediatag.ErrTruncated) {
//		// the file ends inside a required header
//	}
type Kind = types.Kind

// Error kinds.
const (
	ErrNotFound           = types.NotFound
	ErrPermissionDenied   = types.PermissionDenied
	ErrBadLocator         = types.BadLocator
	ErrTruncated          = types.Truncated
	ErrMalformedMagic     = types.MalformedMagic
	ErrMalformedStructure = types.MalformedStructure
	ErrUnsupportedVariant = types.UnsupportedVariant
	ErrOutOfRange         = types.OutOfRange
)

// OpenError is an alias to types.OpenError.
type OpenError = types.OpenError

// OutOfBoundsError is an alias to types.OutOfBoundsError.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
type CorruptedFileError = types.CorruptedFileError

// UnsupportedVariantError is an alias to types.UnsupportedVariantError.
type UnsupportedVariantError = types.UnsupportedVariantError

// OutOfRangeError is an alias to types.OutOfRangeError.
type OutOfRangeError = types.OutOfRangeError

// Warning is an alias to types.Warning.
type Warning = types.Warning
