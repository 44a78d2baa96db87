package types

import (
	"context"
	"log/slog"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Parse limits.
const (
	// MaxArtworkSize is the largest picture payload accepted from any tag.
	MaxArtworkSize = 2_000_000
	// DefaultProbeFrames is the number of consecutive MP3 frames required
	// for a stream to be considered valid.
	DefaultProbeFrames = 5
)

// Config carries the caller's options into every parser.
type Config struct {
	// Logger receives Debug records for skipped frames and boxes. Never nil
	// after Normalize.
	Logger *slog.Logger

	// Charset decodes ID3v1 text and ID3v2 encoding-0 text. Defaults to
	// ISO-8859-1.
	Charset encoding.Encoding

	// MaxArtworkSize bounds picture payloads. Values above the package
	// constant are clamped.
	MaxArtworkSize int

	// ProbeFrames is the number of consecutive valid MP3 frames required.
	ProbeFrames int

	// SkipArtwork disables picture extraction.
	SkipArtwork bool
}

// Normalize fills zero fields with defaults and returns c.
func (c *Config) Normalize() *Config {
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if c.Charset == nil {
		c.Charset = charmap.ISO8859_1
	}
	if c.MaxArtworkSize <= 0 || c.MaxArtworkSize > MaxArtworkSize {
		c.MaxArtworkSize = MaxArtworkSize
	}
	if c.ProbeFrames <= 0 {
		c.ProbeFrames = DefaultProbeFrames
	}
	return c
}

// DefaultConfig returns a normalized configuration.
func DefaultConfig() *Config {
	return (&Config{}).Normalize()
}

// Debug logs a debug record when the logger is enabled for it.
func (c *Config) Debug(msg string, args ...any) {
	if c.Logger.Enabled(context.Background(), slog.LevelDebug) {
		c.Logger.Debug(msg, args...)
	}
}
