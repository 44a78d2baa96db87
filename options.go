package mediatag

import (
	"log/slog"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/simonhull/mediatag/internal/types"
)

// Option configures Open and its variants.
//
//	file, err := mediatag.Open("song.mp3",
//	    mediatag.WithLocaleCharset("shift_jis"),
//	    mediatag.WithoutArtwork(),
//	)
type Option func(*openOptions)

type openOptions struct {
	logger         *slog.Logger
	charset        encoding.Encoding
	maxArtworkSize int
	probeFrames    int
	strictParsing  bool
	ignoreWarnings bool
	skipArtwork    bool
	extensionHint  bool

	// err is the first invalid option, reported by Open.
	err error
}

func newOptions(opts []Option) *openOptions {
	o := &openOptions{extensionHint: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// config flattens o into the parser configuration.
func (o *openOptions) config() *types.Config {
	return (&types.Config{
		Logger:         o.logger,
		Charset:        o.charset,
		MaxArtworkSize: o.maxArtworkSize,
		ProbeFrames:    o.probeFrames,
		SkipArtwork:    o.skipArtwork,
	}).Normalize()
}

// WithLogger sends Debug records about skipped frames, boxes and chunks to
// l. Nothing is logged by default.
func WithLogger(l *slog.Logger) Option {
	return func(o *openOptions) {
		o.logger = l
	}
}

// WithLocaleCharset sets the character set of ID3v1 text and of ID3v2
// frames declaring encoding 0. name is a WHATWG encoding label such as
// "windows-1251", "shift_jis" or "gbk". The default is ISO-8859-1.
//
// An unknown label makes Open fail with an UnsupportedVariantError.
func WithLocaleCharset(name string) Option {
	return func(o *openOptions) {
		enc, err := htmlindex.Get(name)
		if err != nil {
			if o.err == nil {
				o.err = &UnsupportedVariantError{Variant: "charset " + name}
			}
			return
		}
		o.charset = enc
	}
}

// WithStrictParsing makes Open fail with a CorruptedFileError built from
// the first warning instead of returning a partially decoded File.
//
//	file, err := mediatag.Open("song.mp3", mediatag.WithStrictParsing())
//	// err != nil if any frame was skipped
func WithStrictParsing() Option {
	return func(o *openOptions) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings discards File.Warnings.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}

// WithMaxArtworkSize skips pictures larger than n bytes. Values above the
// 2,000,000 byte hard cap, and values <= 0, select the cap.
func WithMaxArtworkSize(n int) Option {
	return func(o *openOptions) {
		o.maxArtworkSize = n
	}
}

// WithoutArtwork disables picture extraction entirely.
func WithoutArtwork() Option {
	return func(o *openOptions) {
		o.skipArtwork = true
	}
}

// WithMP3ProbeFrames sets how many consecutive valid MPEG audio frames
// identify an MP3 stream. The default is 5.
func WithMP3ProbeFrames(n int) Option {
	return func(o *openOptions) {
		o.probeFrames = n
	}
}

// WithExtensionHint controls whether the file name extension picks the
// first format to try. The hinted format is still verified by its probe.
// Enabled by default.
func WithExtensionHint(enabled bool) Option {
	return func(o *openOptions) {
		o.extensionHint = enabled
	}
}
