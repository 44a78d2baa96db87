// Package smaf reads Yamaha SMAF (MMF) ring-tone files. It checks the
// MMMD checksum, classifies the contents from the CNTI chunk, reads the
// option tags and computes the play time of the score tracks, expanding
// Huffman-compressed sequence data when present.
package smaf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	binutil "github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

// Class is the SMAF authoring generation of the contents.
type Class int

const (
	ClassUnknown Class = iota
	ClassMA1
	ClassMA2
	ClassMA3
	ClassMA5
)

func (c Class) String() string {
	switch c {
	case ClassMA1:
		return "MA-1"
	case ClassMA2:
		return "MA-2"
	case ClassMA3:
		return "MA-3"
	case ClassMA5:
		return "MA-5"
	}
	return "unknown"
}

// classify maps the CNTI contents type byte to a Class.
func classify(contentsType byte) Class {
	switch {
	case contentsType <= 0x0F:
		return ClassMA1
	case contentsType <= 0x2F:
		return ClassMA2
	case contentsType <= 0x33:
		return ClassMA3
	case contentsType <= 0x38:
		return ClassMA5
	}
	return ClassUnknown
}

const (
	crcLen     = 2
	cntiLen    = 5 // class, type, code type, copy status, copy count
	maxMMMD    = 16 << 20
	minMMMDLen = chunkHeaderLen + chunkHeaderLen + cntiLen + crcLen

	// Play time bounds.
	MinPlayTime = 20 * time.Millisecond
	MaxPlayTime = (1 << 21) * time.Millisecond
)

// load reads the MMMD chunk and verifies its trailing checksum.
func load(sr *binutil.SafeReader) ([]byte, error) {
	if string(sr.Prefix(0, 4)) != "MMMD" {
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "missing MMMD chunk"}
	}
	n, err := binutil.Read[uint32](sr, 4, "MMMD size")
	if err != nil {
		return nil, err
	}
	total := int64(n) + chunkHeaderLen
	if total > maxMMMD {
		return nil, &types.OutOfRangeError{Path: sr.Path(), Field: "MMMD size", Value: int64(n)}
	}
	if total < minMMMDLen {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "MMMD", Reason: fmt.Sprintf("chunk size %d too small", n)}
	}
	data, err := sr.Bytes(0, int(total), "MMMD chunk")
	if err != nil {
		return nil, err
	}

	body := data[:len(data)-crcLen]
	stored := binary.BigEndian.Uint16(data[len(data)-crcLen:])
	if sum := checksum(body); sum != stored {
		return nil, &types.CorruptedFileError{
			Path: sr.Path(), Element: "MMMD", Offset: total - crcLen,
			Reason: fmt.Sprintf("checksum 0x%04X, stored 0x%04X", sum, stored),
		}
	}
	return body, nil
}

// Probe reports whether sr starts with an MMMD chunk whose checksum matches.
func Probe(sr *binutil.SafeReader) bool {
	_, err := load(sr)
	return err == nil
}

// Parse validates the file and computes its play time. Audio and score
// tracks are counted; play time is the longest score track.
func Parse(sr *binutil.SafeReader, cfg *types.Config) (*types.File, error) {
	body, err := load(sr)
	if err != nil {
		return nil, err
	}
	file := types.NewFile(sr.Path(), types.FormatMMF, sr.Size())

	chunks, err := splitChunks(body[chunkHeaderLen:])
	if len(chunks) == 0 || chunks[0].id != "CNTI" {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "CNTI", Offset: chunkHeaderLen, Reason: "first chunk is not CNTI"}
	}
	if err != nil {
		file.Warn("technical", "MMMD", 0, "%v", err)
	}

	cnti := chunks[0].data
	if len(cnti) < cntiLen {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "CNTI", Offset: chunkHeaderLen, Reason: fmt.Sprintf("%d bytes", len(cnti))}
	}
	class := classify(cnti[1])
	if class == ClassUnknown {
		return nil, &types.UnsupportedVariantError{Path: sr.Path(), Variant: fmt.Sprintf("SMAF contents type 0x%02X", cnti[1])}
	}
	cfg.Debug("smaf: contents", "class", class.String(), "type", cnti[1], "code", cnti[2])
	if class != ClassMA1 {
		cntiOptions(cnti[cntiLen:], decoderFor(cnti[2], cfg), &file.Tags)
	}

	var (
		longest  time.Duration
		scores   int
		firstErr error
	)
	for _, c := range chunks[1:] {
		off := int64(chunkHeaderLen + c.off)
		switch {
		case c.id == "OPDA":
			if err := opdaOptions(c.data, cfg, &file.Tags); err != nil {
				file.Warn("metadata", "OPDA", off, "%v", err)
			}
		case c.id[:3] == "ATR":
			file.AudioTracks++
		case c.id[:3] == "MTR":
			file.AudioTracks++
			scores++
			d, err := scoreTrack(c.data)
			if err != nil {
				file.Warn("technical", printable(c.id), off, "%v", err)
				if firstErr == nil && d == 0 {
					firstErr = err
				}
			}
			longest = max(longest, d)
		default:
			cfg.Debug("smaf: skip chunk", "id", printable(c.id), "offset", off)
		}
	}

	switch {
	case scores == 0:
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "MTR", Reason: "no score track"}
	case longest == 0 && firstErr != nil:
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "MTR", Reason: firstErr.Error()}
	case longest < MinPlayTime || longest > MaxPlayTime:
		return nil, &types.OutOfRangeError{Path: sr.Path(), Field: "play time (ms)", Value: longest.Milliseconds()}
	}

	file.SetAudio(types.StreamInfo{Codec: types.CodecMMF, Duration: longest})
	return file, nil
}

// scoreTrack computes the play time of one MTR chunk.
func scoreTrack(p []byte) (time.Duration, error) {
	if len(p) < 4 {
		return 0, fmt.Errorf("score track header of %d bytes", len(p))
	}
	format := p[0]
	durationMs, ok := timebases[p[2]]
	if !ok {
		return 0, fmt.Errorf("duration timebase 0x%02X", p[2])
	}
	gateMs, ok := timebases[p[3]]
	if !ok {
		return 0, fmt.Errorf("gate timebase 0x%02X", p[3])
	}

	status := 16
	switch format {
	case formatHandyphone:
		status = 2
	case formatCompressed, formatMobile:
	default:
		return 0, fmt.Errorf("score track format 0x%02X", format)
	}
	if len(p) < 4+status {
		return 0, fmt.Errorf("score track header of %d bytes", len(p))
	}

	subs, err := splitChunks(p[4+status:])
	for _, c := range subs {
		if c.id != "Mtsq" {
			continue
		}
		seq := c.data
		if format == formatCompressed {
			if seq, err = decompress(seq); err != nil {
				return 0, fmt.Errorf("Mtsq: %w", err)
			}
		}
		return playTime(seq, format, durationMs, gateMs)
	}
	if err != nil {
		return 0, err
	}
	return 0, errors.New("no Mtsq chunk")
}
