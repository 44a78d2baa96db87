// Package flac reads FLAC stream properties, Vorbis comments, pictures and
// cue sheets from the metadata blocks in front of the audio frames.
package flac

import (
	"fmt"
	"time"

	"github.com/go-flac/flacpicture/v2"
	goflac "github.com/go-flac/go-flac/v2"

	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
	"github.com/simonhull/mediatag/internal/vorbis"
)

const (
	magic         = "fLaC"
	streamInfoLen = 34
	blockHeader   = 4
)

// Probe reports whether sr starts with "fLaC" followed by a STREAMINFO
// block of the mandatory size.
func Probe(sr *binary.SafeReader) bool {
	head := sr.Prefix(0, 8)
	if len(head) < 8 || string(head[:4]) != magic {
		return false
	}
	kind := head[4] & 0x7F
	size := int(head[5])<<16 | int(head[6])<<8 | int(head[7])
	return kind == byte(goflac.StreamInfo) && size == streamInfoLen
}

// Parse reads the metadata blocks.
func Parse(sr *binary.SafeReader, cfg *types.Config) (*types.File, error) {
	if string(sr.Prefix(0, 4)) != magic {
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "missing fLaC marker"}
	}

	end, err := scanBlocks(sr)
	if err != nil {
		return nil, err
	}
	f, err := goflac.ParseMetadata(sr.Section(0, end))
	if err != nil {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "METADATA_BLOCK", Reason: err.Error()}
	}
	info, err := f.GetStreamInfo()
	if err != nil {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "STREAMINFO", Offset: 4, Reason: err.Error()}
	}

	file := types.NewFile(sr.Path(), types.FormatFLAC, sr.Size())
	stream := types.StreamInfo{
		Codec:      types.CodecFLAC,
		SampleRate: info.SampleRate,
		Channels:   info.ChannelCount,
		BitDepth:   info.BitDepth,
	}
	if rate := int64(info.SampleRate); rate > 0 {
		n := int64(info.SampleCount)
		stream.Duration = time.Duration(n/rate)*time.Second + time.Duration(n%rate)*time.Second/time.Duration(rate)
	}

	offset := int64(len(magic))
	for _, m := range f.Meta {
		offset += blockHeader
		if err := readBlock(m, offset, stream.Duration, file, cfg); err != nil {
			file.Warn("metadata", blockName(m.Type), offset, "%v", err)
		}
		offset += int64(len(m.Data))
	}

	if audio := sr.Size() - offset; audio > 0 && stream.Duration > 0 {
		stream.BitRate = int(float64(audio*8) / stream.Duration.Seconds())
	}
	file.SetAudio(stream)
	file.AudioTracks = 1

	for _, m := range f.Meta {
		if m.Type != goflac.CueSheet || file.Chapters != nil {
			continue
		}
		cs, err := parseCueSheet(m.Data)
		if err != nil {
			file.Warn("metadata", "CUESHEET", 0, "%v", err)
			continue
		}
		file.Chapters = cs.Chapters(info.SampleRate, file.Duration)
	}
	return file, nil
}

// scanBlocks checks that the metadata block chain fits in sr and starts
// with a STREAMINFO block, and returns the offset of the first audio frame.
func scanBlocks(sr *binary.SafeReader) (int64, error) {
	off := int64(len(magic))
	for first := true; ; first = false {
		h, err := binary.Read[uint32](sr, off, "metadata block header")
		if err != nil {
			return 0, err
		}
		last := h>>31 == 1
		kind := goflac.BlockType(h >> 24 & 0x7F)
		size := int64(h & 0x00FFFFFF)
		if first && (kind != goflac.StreamInfo || size != streamInfoLen) {
			return 0, &types.CorruptedFileError{
				Path: sr.Path(), Element: "STREAMINFO", Offset: off,
				Reason: fmt.Sprintf("first block is %s of %d bytes", blockName(kind), size),
			}
		}
		off += blockHeader
		if off+size > sr.Size() {
			return 0, &types.OutOfBoundsError{Path: sr.Path(), What: blockName(kind), Offset: off, Length: int(size), Size: sr.Size()}
		}
		off += size
		if last {
			return off, nil
		}
	}
}

// readBlock decodes the tag-bearing blocks.
func readBlock(m *goflac.MetaDataBlock, offset int64, total time.Duration, file *types.File, cfg *types.Config) error {
	switch m.Type {
	case goflac.VorbisComment:
		cmt, err := vorbis.ParseBlock(m.Data)
		if err != nil {
			return err
		}
		for _, err := range vorbis.Apply(cmt.Comments, &file.Tags) {
			file.Warn("metadata", "VORBIS_COMMENT", offset, "%v", err)
		}
		file.Tags.Set(types.FieldEncoder, cmt.Vendor)
		if file.Chapters == nil {
			file.Chapters = vorbis.ParseChapters(cmt.Comments, total)
		}
	case goflac.Picture:
		if cfg.SkipArtwork {
			return nil
		}
		pic, err := flacpicture.ParseFromMetaDataBlock(*m)
		if err != nil {
			return err
		}
		art, ok := vorbis.Artwork(pic, cfg.MaxArtworkSize)
		if !ok {
			return fmt.Errorf("picture of %d bytes skipped", len(pic.ImageData))
		}
		file.Tags.SetArtwork(art)
	default:
		cfg.Debug("flac: skip block", "type", blockName(m.Type), "offset", offset, "size", len(m.Data))
	}
	return nil
}

func blockName(t goflac.BlockType) string {
	switch t {
	case goflac.StreamInfo:
		return "STREAMINFO"
	case goflac.Padding:
		return "PADDING"
	case goflac.Application:
		return "APPLICATION"
	case goflac.SeekTable:
		return "SEEKTABLE"
	case goflac.VorbisComment:
		return "VORBIS_COMMENT"
	case goflac.CueSheet:
		return "CUESHEET"
	case goflac.Picture:
		return "PICTURE"
	}
	return fmt.Sprintf("block %d", t)
}
