package mediatag

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/registry"
	"github.com/simonhull/mediatag/internal/types"
)

// File is the decoded metadata of one media file.
//
// Tags is always usable; Tags.Has reports which fields were actually
// decoded. Audio and Video are nil when the format carries no such stream
// or its properties could not be determined.
//
// Call Close when done with a File returned by Open:
//
//	file, err := mediatag.Open("ringtone.mmf")
//	if err != nil {
//		return err
//	}
//	defer file.Close()
type File struct {
	// Path is the locator the file was opened with.
	Path string

	// Format is the detected container format.
	Format Format

	// Size is the file size in bytes.
	Size int64

	// Tags holds the decoded tag fields, first writer wins.
	Tags Tags

	Audio *StreamInfo
	Video *StreamInfo

	// Duration is the play time of the whole file, or 0 when unknown.
	Duration time.Duration

	AudioTracks int
	VideoTracks int

	Chapters []Chapter

	// Warnings lists the non-fatal problems met while decoding.
	Warnings []Warning

	stream *binary.Stream
}

func newFile(parsed *types.File, s *binary.Stream) *File {
	return &File{
		Path:        parsed.Path,
		Format:      parsed.Format,
		Size:        parsed.Size,
		Tags:        parsed.Tags,
		Audio:       parsed.Audio,
		Video:       parsed.Video,
		Duration:    parsed.Duration,
		AudioTracks: parsed.AudioTracks,
		VideoTracks: parsed.VideoTracks,
		Chapters:    parsed.Chapters,
		Warnings:    parsed.Warnings,
		stream:      s,
	}
}

// Open opens path read-only, detects its format and decodes its metadata.
//
// A damaged optional element (one ID3 frame, one MP4 box) does not fail
// Open: it is skipped and reported in File.Warnings. Only a missing or
// broken required structure returns an error; use errors.Is with the Err
// kinds to classify it:
//
//	file, err := mediatag.Open("song.mp3", mediatag.WithLocaleCharset("windows-1251"))
//	if errors.Is(err, mediatag.ErrMalformedMagic) {
//		// not a format this package understands
//	}
func Open(path string, opts ...Option) (*File, error) {
	o := newOptions(opts)
	if o.err != nil {
		return nil, o.err
	}
	s, err := binary.Open(path)
	if err != nil {
		return nil, err
	}
	return openStream(s, o)
}

// OpenBytes decodes an in-memory file. name is used for extension hints
// and error messages only.
func OpenBytes(data []byte, name string, opts ...Option) (*File, error) {
	o := newOptions(opts)
	if o.err != nil {
		return nil, o.err
	}
	s, err := binary.OpenBytes(data, name)
	if err != nil {
		return nil, err
	}
	return openStream(s, o)
}

// OpenReader decodes size bytes read from r. The caller keeps ownership of
// r; File.Close does not close it.
func OpenReader(r io.ReaderAt, size int64, name string, opts ...Option) (*File, error) {
	o := newOptions(opts)
	if o.err != nil {
		return nil, o.err
	}
	if err := checkReader(r, size, name); err != nil {
		return nil, err
	}
	return openStream(binary.NewStream(r, size, name), o)
}

// OpenContext is Open with a cancellation check before the file is opened
// and after it is decoded. Parsing itself is bounded by the per-format scan
// windows and is not interrupted.
//
//	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
//	defer cancel()
//	file, err := mediatag.OpenContext(ctx, "clip.3gp")
func OpenContext(ctx context.Context, path string, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := Open(path, opts...)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		file.Close()
		return nil, err
	}
	return file, nil
}

// openStream decodes s and hands its ownership to the returned File. s is
// closed on every error path.
func openStream(s *binary.Stream, o *openOptions) (*File, error) {
	cfg := o.config()
	sr := s.SafeReader()

	format, err := detect(sr, cfg, o.extensionHint)
	if err != nil {
		s.Close()
		return nil, err
	}
	cfg.Debug("mediatag: format detected", "path", s.Path(), "format", format.String())

	parsed, err := registry.Parse(format, sr, cfg)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}

	if o.strictParsing && len(parsed.Warnings) > 0 {
		s.Close()
		w := parsed.Warnings[0]
		return nil, &CorruptedFileError{
			Path:    s.Path(),
			Element: w.Element,
			Offset:  w.Offset,
			Reason:  "strict parsing: " + w.Message,
		}
	}
	if o.ignoreWarnings {
		parsed.Warnings = nil
	}
	return newFile(parsed, s), nil
}

func checkReader(r io.ReaderAt, size int64, name string) error {
	switch {
	case r == nil:
		return &OpenError{Path: name, Kind: ErrBadLocator, Err: fmt.Errorf("nil reader")}
	case size < 0:
		return &OpenError{Path: name, Kind: ErrBadLocator, Err: fmt.Errorf("negative size %d", size)}
	}
	return nil
}

// Close releases the file handle opened by Open. It is a no-op for files
// decoded from memory or from a caller's reader, and safe to call twice.
func (f *File) Close() error {
	if f.stream == nil {
		return nil
	}
	return f.stream.Close()
}

// OpenMany opens paths concurrently with up to runtime.NumCPU() workers and
// returns the files in input order.
//
// If any file fails, or ctx is cancelled, every file already opened is
// closed and the first error is returned.
//
//	files, err := mediatag.OpenMany(ctx, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, f := range files {
//		defer f.Close()
//		fmt.Printf("%s: %s\n", f.Format, f.Tags.Title)
//	}
func OpenMany(ctx context.Context, paths ...string) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			file, err := OpenContext(ctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				file.Close()
			}
		}
		return nil, err
	}
	return results, nil
}
