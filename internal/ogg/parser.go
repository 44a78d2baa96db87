package ogg

import (
	"time"

	binutil "github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
	"github.com/simonhull/mediatag/internal/vorbis"
)

// probeWindow is how much of the file Probe may read.
const probeWindow = 4096

// Probe reports whether sr starts with a well-formed beginning-of-stream
// page. When the first page ends inside the probe window, a second page
// must start right after it.
func Probe(sr *binutil.SafeReader) bool {
	buf := sr.Prefix(0, probeWindow)
	if len(buf) < pageHeaderLen || string(buf[:4]) != pageMagic || buf[4] != 0 || buf[5]&flagBOS == 0 {
		return false
	}
	nseg := int(buf[26])
	if len(buf) < pageHeaderLen+nseg {
		return false
	}
	end := pageHeaderLen + nseg
	for _, seg := range buf[pageHeaderLen:end] {
		end += int(seg)
	}
	switch {
	case int64(end) > sr.Size():
		return false
	case int64(end) == sr.Size():
		return true
	case end+4 <= len(buf):
		return string(buf[end:end+4]) == pageMagic
	}
	return true
}

// stream is the logical stream whose headers are decoded.
type stream struct {
	serial  uint32
	opus    bool
	preSkip int64
}

// Parse decodes the identification and comment headers of the first
// Vorbis or Opus stream, and the duration from the granule position of
// its last page.
func Parse(sr *binutil.SafeReader, cfg *types.Config) (*types.File, error) {
	if string(sr.Prefix(0, 4)) != pageMagic {
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "missing OggS capture pattern"}
	}
	heads, err := headPages(sr)
	if err != nil {
		return nil, err
	}
	if len(heads) == 0 {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: pageMagic, Reason: "first page does not begin a stream"}
	}

	file := types.NewFile(sr.Path(), types.FormatOGG, sr.Size())
	var sel *page
	for _, p := range heads {
		switch {
		case isVorbis(p.data), isOpus(p.data):
			file.AudioTracks++
			if sel == nil {
				sel = p
			}
		case isTheora(p.data):
			file.VideoTracks++
		default:
			cfg.Debug("ogg: skip stream", "serial", p.serial, "offset", p.offset)
		}
	}
	if sel == nil {
		return nil, &types.UnsupportedVariantError{Path: sr.Path(), Variant: "Ogg stream without Vorbis or Opus audio"}
	}

	pr := newPacketReader(sr, sel.serial)
	ident, err := pr.next()
	if err != nil {
		return nil, err
	}
	var (
		st    = stream{serial: sel.serial}
		info  types.StreamInfo
		block func([]byte) ([]byte, error)
	)
	if isOpus(ident) {
		head, err := parseOpusHead(ident)
		if err != nil {
			return nil, &types.CorruptedFileError{Path: sr.Path(), Element: opusHeadMagic, Offset: sel.offset, Reason: err.Error()}
		}
		if head.inputRate > 0 && head.inputRate != opusRate {
			cfg.Debug("ogg: opus input rate", "rate", head.inputRate)
		}
		st.opus, st.preSkip, info = true, head.preSkip, head.stream
		block = opusCommentBlock
	} else {
		info, err = parseVorbisIdent(ident)
		if err != nil {
			return nil, &types.CorruptedFileError{Path: sr.Path(), Element: vorbisMagic, Offset: sel.offset, Reason: err.Error()}
		}
		block = vorbisCommentBlock
	}

	info.Duration = duration(sr, st, info.SampleRate, file)

	var comments []string
	pkt, err := pr.next()
	if err == nil {
		pkt, err = block(pkt)
	}
	if err == nil {
		comments, err = readComments(pkt, file)
	}
	if err != nil {
		file.Warn("metadata", "comment header", pr.off, "%v", err)
	}

	if info.BitRate == 0 && info.Duration > 0 {
		if audio := sr.Size() - pr.off; audio > 0 {
			info.BitRate = int(float64(audio*8) / info.Duration.Seconds())
		}
	}
	file.SetAudio(info)

	if len(comments) > 0 {
		file.Chapters = vorbis.ParseChapters(comments, file.Duration)
		if !cfg.SkipArtwork {
			readArtwork(comments, file, cfg)
		}
	}
	return file, nil
}

func isTheora(pkt []byte) bool {
	return len(pkt) >= 7 && pkt[0] == 0x80 && string(pkt[1:7]) == "theora"
}

// duration converts the last granule position of st into time. Opus
// granules count 48 kHz samples including the pre-skip.
func duration(sr *binutil.SafeReader, st stream, rate int, file *types.File) time.Duration {
	g, err := lastGranule(sr, st.serial)
	if err != nil {
		file.Warn("technical", pageMagic, 0, "duration unavailable: %v", err)
		return 0
	}
	if st.opus {
		g -= st.preSkip
	}
	if g <= 0 || rate <= 0 {
		return 0
	}
	r := int64(rate)
	return time.Duration(g/r)*time.Second + time.Duration(g%r)*time.Second/time.Duration(r)
}

// readComments applies a comment block to file and returns its comments.
func readComments(block []byte, file *types.File) ([]string, error) {
	cmt, err := vorbis.ParseBlock(block)
	if err != nil {
		return nil, err
	}
	for _, err := range vorbis.Apply(cmt.Comments, &file.Tags) {
		file.Warn("metadata", "comment header", 0, "%v", err)
	}
	file.Tags.Set(types.FieldEncoder, cmt.Vendor)
	return cmt.Comments, nil
}
