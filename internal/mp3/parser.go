package mp3

import (
	"errors"
	"fmt"
	"time"

	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/id3"
	"github.com/simonhull/mediatag/internal/types"
)

// Parse extracts tags and stream properties from an MP3 file.
//
// ID3v2 fields take precedence; a trailing ID3v1 tag only fills fields the
// ID3v2 tag left unset. A leading ID3v2 tag whose declared size exceeds the
// file is fatal. When no audio frames are found the file is still returned
// if it carried tags, with a warning; otherwise the input is rejected.
func Parse(sr *binary.SafeReader, cfg *types.Config) (*types.File, error) {
	file := types.NewFile(sr.Path(), types.FormatMP3, sr.Size())

	var start int64
	if hdr := sr.Prefix(0, 3); string(hdr) == "ID3" {
		n, err := id3.ReadV2(sr, 0, file, cfg)
		switch {
		case errors.Is(err, types.UnsupportedVariant):
			file.Warn("metadata", "ID3", 0, "tag skipped: %v", err)
		case err != nil:
			return nil, fmt.Errorf("read ID3v2 tag: %w", err)
		}
		start = n
	}

	if id3.HasV1(sr) {
		var v1 types.Tags
		if id3.ReadV1(sr, &v1, cfg) {
			file.Tags.Merge(&v1)
		}
	}

	off, h, ok := FindStream(sr, start, cfg.ProbeFrames)
	if !ok {
		if file.Tags.Empty() {
			return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "no MPEG audio frames found"}
		}
		file.Warn("technical", "", start, "no MPEG audio frames within %d bytes of tag end", ScanWindow)
		return file, nil
	}
	cfg.Debug("mp3: stream found", "offset", off, "bitrate", h.BitRate, "sample_rate", h.SampleRate)

	end := sr.Size()
	if id3.HasV1(sr) {
		end -= id3.V1Size
	}

	info := types.StreamInfo{
		Codec:      types.CodecMP3,
		BitRate:    h.BitRate,
		SampleRate: h.SampleRate,
		Channels:   h.Channels(),
	}

	if vbr, found := ParseVBR(sr, off, h); found && vbr.Frames > 0 && vbr.Bytes > 0 && h.SampleRate > 0 {
		audioBytes := int64(vbr.Bytes)
		ms := float64(vbr.Frames) * float64(h.SamplesPerFrame()) * 1000 / float64(h.SampleRate)
		info.Duration = msDuration(ms)
		if ms > 0 {
			info.BitRate = int(float64(audioBytes) * 8 * 1000 / ms)
		}
		info.VBR = vbr.Tag != "Info"
		cfg.Debug("mp3: vbr header", "tag", vbr.Tag, "frames", vbr.Frames, "bytes", vbr.Bytes)
	} else {
		info.Duration = cbrDuration(h, end-off)
	}

	file.SetAudio(info)
	file.AudioTracks = 1
	return file, nil
}

// cbrDuration derives the play time of audioBytes of constant-bitrate data.
func cbrDuration(h FrameHeader, audioBytes int64) time.Duration {
	frameLen := h.FrameLen()
	if frameLen == 0 || h.SampleRate == 0 || audioBytes <= 0 {
		return 0
	}
	frameMs := float64(h.SamplesPerFrame()) * 1000 / float64(h.SampleRate)
	return msDuration(float64(audioBytes) / float64(frameLen) * frameMs)
}

func msDuration(ms float64) time.Duration {
	return time.Duration(ms * float64(time.Millisecond))
}
