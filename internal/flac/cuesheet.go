package flac

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/simonhull/mediatag/internal/types"
)

// CUESHEET block layout.
const (
	cueHeaderLen = 128 + 8 + 1 + 259 + 1 // catalog, lead-in, flags, reserved, track count
	cueTrackLen  = 8 + 1 + 12 + 1 + 13 + 1
	cueIndexLen  = 8 + 1 + 3
	leadOutTrack = 170
)

// CueSheet is a decoded CUESHEET metadata block.
type CueSheet struct {
	CatalogNumber string
	LeadIn        uint64
	IsCD          bool
	Tracks        []CueTrack
}

// CueTrack is one track of a cue sheet. Offset is in samples from the
// start of the audio.
type CueTrack struct {
	Offset  uint64
	Number  byte // 1-99, 170 for lead-out
	ISRC    string
	IsAudio bool
	Indices int
}

// parseCueSheet decodes the payload of a CUESHEET block.
func parseCueSheet(p []byte) (*CueSheet, error) {
	if len(p) < cueHeaderLen {
		return nil, fmt.Errorf("CUESHEET block of %d bytes, need %d", len(p), cueHeaderLen)
	}
	cs := &CueSheet{
		CatalogNumber: strings.TrimRight(string(p[:128]), "\x00"),
		LeadIn:        binary.BigEndian.Uint64(p[128:136]),
		IsCD:          p[136]&0x80 != 0,
	}
	count := int(p[cueHeaderLen-1])
	p = p[cueHeaderLen:]

	for i := range count {
		if len(p) < cueTrackLen {
			return nil, fmt.Errorf("track %d: %d bytes left", i, len(p))
		}
		t := CueTrack{
			Offset:  binary.BigEndian.Uint64(p[0:8]),
			Number:  p[8],
			ISRC:    strings.TrimRight(string(p[9:21]), "\x00"),
			IsAudio: p[21]&0x80 == 0,
			Indices: int(p[cueTrackLen-1]),
		}
		p = p[cueTrackLen:]
		need := t.Indices * cueIndexLen
		if len(p) < need {
			return nil, fmt.Errorf("track %d: %d index points need %d bytes, %d left", i, t.Indices, need, len(p))
		}
		p = p[need:]
		cs.Tracks = append(cs.Tracks, t)
	}
	return cs, nil
}

// Chapters converts the audio tracks to chapters. Each chapter ends where
// the next begins; the last ends at the lead-out, or at total when the cue
// sheet has none.
func (cs *CueSheet) Chapters(sampleRate int, total time.Duration) []types.Chapter {
	if sampleRate <= 0 {
		return nil
	}
	at := func(samples uint64) time.Duration {
		rate := uint64(sampleRate)
		return time.Duration(samples/rate)*time.Second +
			time.Duration(samples%rate*uint64(time.Second)/rate)
	}

	end := total
	var audio []CueTrack
	for _, t := range cs.Tracks {
		switch {
		case t.Number == leadOutTrack:
			end = at(t.Offset)
		case t.IsAudio:
			audio = append(audio, t)
		}
	}
	if len(audio) == 0 {
		return nil
	}

	chapters := make([]types.Chapter, len(audio))
	for i, t := range audio {
		stop := end
		if i+1 < len(audio) {
			stop = at(audio[i+1].Offset)
		}
		title := fmt.Sprintf("Track %02d", t.Number)
		if t.ISRC != "" {
			title += " (" + t.ISRC + ")"
		}
		chapters[i] = types.Chapter{
			ID:    fmt.Sprintf("TRACK%02d", t.Number),
			Title: title,
			Index: i + 1,
			Start: at(t.Offset),
			End:   stop,
		}
	}
	return chapters
}
