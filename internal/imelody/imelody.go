// Package imelody reads iMelody ring tones: the BEGIN:IMELODY text format
// with NAME, COMPOSER, BEAT and MELODY properties.
package imelody

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

const (
	beginMarker = "BEGIN:IMELODY"
	endMarker   = "END:IMELODY"

	// maxSize bounds the bytes read from one file.
	maxSize = 1 << 20

	defaultBeat    = 120
	minBeat        = 25
	maxBeat        = 900
	probeWindow    = 64
	maxRepeatDepth = 8
	maxRepeatCount = 99
)

// Probe reports whether sr starts with the iMelody begin marker, allowing a
// UTF-8 byte order mark and leading whitespace.
func Probe(sr *binary.SafeReader) bool {
	head := sr.Prefix(0, probeWindow)
	head = bytes.TrimPrefix(head, []byte("\xEF\xBB\xBF"))
	head = bytes.TrimLeft(head, " \t\r\n")
	return bytes.HasPrefix(bytes.ToUpper(head), []byte(beginMarker))
}

// Header holds the properties of an iMelody object.
type Header struct {
	Version  string
	Format   string
	Name     string
	Composer string
	Beat     int
	Melody   string
}

// ReadHeader reads the properties between the begin and end markers.
// Folded lines (continuations starting with a space or tab) are joined.
func ReadHeader(data []byte) (*Header, error) {
	h := &Header{Beat: defaultBeat}
	var (
		begun, ended bool
		key, value   string
		props        [][2]string
	)
	flush := func() {
		if key != "" {
			props = append(props, [2]string{key, value})
		}
		key, value = "", ""
	}

	sc := bufio.NewScanner(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xEF\xBB\xBF"))))
	sc.Buffer(make([]byte, 0, 4096), maxSize)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && key != "" {
			value += strings.TrimLeft(line, " \t")
			continue
		}
		flush()
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		k = strings.ToUpper(strings.TrimSpace(k))
		switch {
		case !begun:
			if k+":"+strings.ToUpper(strings.TrimSpace(v)) != beginMarker {
				return nil, fmt.Errorf("missing %s", beginMarker)
			}
			begun = true
		case k+":"+strings.ToUpper(strings.TrimSpace(v)) == endMarker:
			ended = true
		default:
			key, value = k, strings.TrimSpace(v)
		}
		if ended {
			break
		}
	}
	flush()
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !begun {
		return nil, fmt.Errorf("missing %s", beginMarker)
	}

	for _, p := range props {
		switch p[0] {
		case "VERSION":
			h.Version = p[1]
		case "FORMAT":
			h.Format = p[1]
		case "NAME":
			h.Name = p[1]
		case "COMPOSER":
			h.Composer = p[1]
		case "BEAT":
			n, err := strconv.Atoi(p[1])
			if err != nil {
				return nil, fmt.Errorf("BEAT %q: %w", p[1], err)
			}
			h.Beat = n
		case "MELODY":
			h.Melody = p[1]
		}
	}
	return h, nil
}

// Parse reads the header properties and computes the melody play time.
func Parse(sr *binary.SafeReader, cfg *types.Config) (*types.File, error) {
	if !Probe(sr) {
		return nil, &types.UnsupportedFormatError{Path: sr.Path(), Reason: "missing " + beginMarker}
	}
	file := types.NewFile(sr.Path(), types.FormatIMelody, sr.Size())

	n := sr.Size()
	if n > maxSize {
		file.Warn("metadata", "", maxSize, "reading first %d of %d bytes", maxSize, n)
		n = maxSize
	}
	data, err := sr.Bytes(0, int(n), "iMelody text")
	if err != nil {
		return nil, err
	}

	h, err := ReadHeader(data)
	if err != nil {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Reason: err.Error()}
	}
	if !bytes.Contains(bytes.ToUpper(data), []byte(endMarker)) {
		file.Warn("metadata", "", 0, "missing %s", endMarker)
	}
	if h.Beat < minBeat || h.Beat > maxBeat {
		return nil, &types.OutOfRangeError{Path: sr.Path(), Field: "BEAT", Value: int64(h.Beat)}
	}
	if h.Melody == "" {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "MELODY", Reason: "no melody"}
	}
	cfg.Debug("imelody: header", "version", h.Version, "format", h.Format, "beat", h.Beat)

	file.Tags.Set(types.FieldTitle, text(h.Name, cfg))
	file.Tags.Set(types.FieldComposer, text(h.Composer, cfg))

	d, err := PlayTime(h.Melody, h.Beat)
	if err != nil {
		return nil, &types.CorruptedFileError{Path: sr.Path(), Element: "MELODY", Reason: err.Error()}
	}
	file.SetAudio(types.StreamInfo{Codec: types.CodecIMelody, Duration: d})
	file.AudioTracks = 1
	return file, nil
}

// text decodes s with the configured charset unless it is already UTF-8.
func text(s string, cfg *types.Config) string {
	if utf8.ValidString(s) {
		return s
	}
	out, _, err := transform.String(cfg.Charset.NewDecoder(), s)
	if err != nil {
		return s
	}
	return out
}

// PlayTime computes the duration of melody at beat quarter notes per
// minute.
func PlayTime(melody string, beat int) (time.Duration, error) {
	m := &player{src: melody, quarter: 60_000 / float64(beat)}
	if err := m.run(); err != nil {
		return 0, err
	}
	return time.Duration(m.elapsed * float64(time.Millisecond)), nil
}
