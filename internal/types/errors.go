package types

import "fmt"

// Kind classifies a failure independently of the concrete error type.
//
// Every error returned by this module matches exactly one Kind through
// errors.Is:
//
//	if errors.Is(err, types.Truncated) {
//		// the file ended before a required header
//	}
type Kind int

const (
	// NotFound means the path or locator does not exist.
	NotFound Kind = iota + 1
	// PermissionDenied means the locator exists but could not be opened.
	PermissionDenied
	// BadLocator means the locator itself is unusable (empty path, directory, nil buffer).
	BadLocator
	// Truncated means fewer bytes were available than a fixed header or a
	// declared size requires.
	Truncated
	// MalformedMagic means the leading bytes match no recognized signature.
	MalformedMagic
	// MalformedStructure means a structurally required element is missing or invalid.
	MalformedStructure
	// UnsupportedVariant means the input is recognized but the variant is not handled.
	UnsupportedVariant
	// OutOfRange means a numeric field is outside its valid domain.
	OutOfRange
)

var kindNames = [...]string{
	NotFound:           "not found",
	PermissionDenied:   "permission denied",
	BadLocator:         "bad locator",
	Truncated:          "truncated",
	MalformedMagic:     "malformed magic",
	MalformedStructure: "malformed structure",
	UnsupportedVariant: "unsupported variant",
	OutOfRange:         "out of range",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k <= 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Error makes Kind usable as an errors.Is target.
func (k Kind) Error() string {
	return k.String()
}

// kindOf matches target against k.
func kindOf(k Kind, target error) bool {
	t, ok := target.(Kind)
	return ok && t == k
}

// OpenError is returned when a stream cannot be opened.
type OpenError struct {
	Err  error
	Path string
	Kind Kind
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("%s: open: %s: %v", e.Path, e.Kind, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Is reports whether target is the error's Kind.
func (e *OpenError) Is(target error) bool { return kindOf(e.Kind, target) }

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// Is reports whether target is Truncated.
func (e *OutOfBoundsError) Is(target error) bool { return kindOf(Truncated, target) }

// UnsupportedFormatError is returned when no recognized signature is found.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// Is reports whether target is MalformedMagic.
func (e *UnsupportedFormatError) Is(target error) bool { return kindOf(MalformedMagic, target) }

// CorruptedFileError is returned when file structure is invalid.
type CorruptedFileError struct {
	Path    string
	Element string // box, chunk or frame identifier, if known
	Reason  string
	Offset  int64
}

func (e *CorruptedFileError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("%s: corrupted file at offset %d (%s): %s", e.Path, e.Offset, e.Element, e.Reason)
	}
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// Is reports whether target is MalformedStructure.
func (e *CorruptedFileError) Is(target error) bool { return kindOf(MalformedStructure, target) }

// UnsupportedVariantError is returned for recognized but unhandled variants
// (multi-channel AMR, SMPTE-division MIDI, ID3v2.5+).
type UnsupportedVariantError struct {
	Path    string
	Variant string
}

func (e *UnsupportedVariantError) Error() string {
	return fmt.Sprintf("%s: unsupported variant: %s", e.Path, e.Variant)
}

// Is reports whether target is UnsupportedVariant.
func (e *UnsupportedVariantError) Is(target error) bool { return kindOf(UnsupportedVariant, target) }

// OutOfRangeError is returned when a numeric field is outside its domain and
// the format rejects rather than clamps.
type OutOfRangeError struct {
	Path  string
	Field string
	Value int64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %s value %d out of range", e.Path, e.Field, e.Value)
}

// Is reports whether target is OutOfRange.
func (e *OutOfRangeError) Is(target error) bool { return kindOf(OutOfRange, target) }

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings indicate problems that don't prevent metadata extraction but
// may indicate corrupted or unusual data. Examples include:
//   - A frame whose declared size overruns the tag
//   - Invalid encoding in a tag
//   - Oversized artwork
//   - A box that could not be decoded
//
// Warnings are collected in File.Warnings during parsing.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "metadata", "technical", "artwork"

	// Element is the frame, box or chunk identifier involved, if any
	Element string

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	prefix := w.Stage
	if w.Element != "" {
		prefix += " [" + w.Element + "]"
	}
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", prefix, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, w.Message)
}
