// Package types provides the core data structures shared by every parser.
//
// It defines File, Tags, StreamInfo, Artwork, Chapter and the error taxonomy
// that the format parsers populate.
package types

import (
	"fmt"
	"time"
)

// File is the result of parsing one media file.
//
// Audio and Video are nil when the format carries no such stream or when
// its properties could not be determined. Tags is always usable; Has
// reports which fields were decoded.
type File struct {
	Tags        Tags
	Path        string
	Audio       *StreamInfo
	Video       *StreamInfo
	Chapters    []Chapter
	Warnings    []Warning
	Format      Format
	Size        int64
	Duration    time.Duration
	AudioTracks int
	VideoTracks int
}

// NewFile returns an empty File for path.
func NewFile(path string, format Format, size int64) *File {
	return &File{Path: path, Format: format, Size: size}
}

// Warn records a non-fatal problem.
func (f *File) Warn(stage, element string, offset int64, format string, args ...any) {
	f.Warnings = append(f.Warnings, Warning{
		Stage:   stage,
		Element: element,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	})
}

// SetAudio installs s as the audio stream and fills Duration when unset.
func (f *File) SetAudio(s StreamInfo) {
	s.Kind = StreamAudio
	f.Audio = &s
	if f.Duration == 0 {
		f.Duration = s.Duration
	}
}
