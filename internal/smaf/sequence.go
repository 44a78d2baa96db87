package smaf

import (
	"errors"
	"fmt"
	"time"
)

// Score track format types.
const (
	formatHandyphone = 0x00
	formatCompressed = 0x01
	formatMobile     = 0x02
)

// timebases maps a timebase byte to milliseconds per tick.
var timebases = map[byte]int64{
	0x02: 4,
	0x03: 5,
	0x10: 10,
	0x11: 20,
	0x12: 40,
	0x13: 50,
}

var errEndOfSequence = errors.New("end of sequence")

// sequence walks sequence data and accumulates ticks.
type sequence struct {
	data []byte
	pos  int

	tick    int64 // sum of durations, in duration-timebase ticks
	noteEnd int64 // latest note end, in milliseconds

	durationMs, gateMs int64
}

func (s *sequence) byte() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, errEndOfSequence
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

func (s *sequence) skip(n int) error {
	if n > len(s.data)-s.pos {
		s.pos = len(s.data)
		return errEndOfSequence
	}
	s.pos += n
	return nil
}

// flex reads a MIDI-style variable-length value of at most 4 bytes.
func (s *sequence) flex() (int64, error) {
	var v int64
	for i := range 4 {
		b, err := s.byte()
		if err != nil {
			return 0, err
		}
		v = v<<7 | int64(b&0x7F)
		if b&0x80 == 0 {
			return v, nil
		}
		if i == 3 {
			return 0, fmt.Errorf("flex value longer than 4 bytes at %d", s.pos)
		}
	}
	return v, nil
}

// short reads a handyphone duration: one byte below 0x80, otherwise two
// bytes offset by 128.
func (s *sequence) short() (int64, error) {
	b, err := s.byte()
	if err != nil || b < 0x80 {
		return int64(b), err
	}
	lo, err := s.byte()
	if err != nil {
		return 0, err
	}
	return (int64(b&0x7F)<<7 | int64(lo)) + 128, nil
}

func (s *sequence) note(gate int64) {
	s.noteEnd = max(s.noteEnd, s.tick*s.durationMs+gate*s.gateMs)
}

// handyphone decodes one MA-1/MA-2 event with its leading duration.
func (s *sequence) handyphone() error {
	d, err := s.short()
	if err != nil {
		return err
	}
	s.tick += d

	b, err := s.byte()
	if err != nil {
		return err
	}
	switch b {
	case 0xFF:
		kind, err := s.byte()
		if err != nil {
			return err
		}
		switch kind {
		case 0x00: // nop
			return nil
		case 0xF0:
			n, err := s.byte()
			if err != nil {
				return err
			}
			return s.skip(int(n))
		}
		return fmt.Errorf("unknown event FF %02X at %d", kind, s.pos-2)
	case 0x00:
		c, err := s.byte()
		if err != nil {
			return err
		}
		if c == 0x00 {
			if end, err := s.byte(); err != nil || end == 0x00 {
				return errEndOfSequence
			}
			return fmt.Errorf("unknown event 00 00 at %d", s.pos-3)
		}
		if c&0x30 == 0x30 {
			return s.skip(1)
		}
		return nil
	}
	gate, err := s.short()
	if err != nil {
		return err
	}
	s.note(gate)
	return nil
}

// mobile decodes one MA-3/MA-5 event with its leading duration.
func (s *sequence) mobile() error {
	d, err := s.flex()
	if err != nil {
		return err
	}
	s.tick += d

	status, err := s.byte()
	if err != nil {
		return err
	}
	switch {
	case status == 0xFF:
		kind, err := s.byte()
		if err != nil {
			return err
		}
		switch kind {
		case 0x00:
			return nil
		case 0x2F:
			s.skip(1)
			return errEndOfSequence
		}
		return fmt.Errorf("unknown event FF %02X at %d", kind, s.pos-2)
	case status == 0xF0:
		n, err := s.flex()
		if err != nil {
			return err
		}
		return s.skip(int(n))
	case status < 0x80:
		return fmt.Errorf("data byte 0x%02X in status position at %d", status, s.pos-1)
	}

	switch status & 0xF0 {
	case 0x80:
		if err := s.skip(1); err != nil {
			return err
		}
	case 0x90:
		if err := s.skip(2); err != nil {
			return err
		}
	case 0xC0, 0xD0:
		return s.skip(1)
	case 0xA0, 0xB0, 0xE0:
		return s.skip(2)
	default:
		return fmt.Errorf("unknown status 0x%02X at %d", status, s.pos-1)
	}
	gate, err := s.flex()
	if err != nil {
		return err
	}
	s.note(gate)
	return nil
}

// playTime runs the sequence to its end. A malformed event ends the walk;
// the time accumulated before it is returned with the error.
func playTime(data []byte, format byte, durationMs, gateMs int64) (time.Duration, error) {
	s := &sequence{data: data, durationMs: durationMs, gateMs: gateMs}
	step := s.mobile
	if format == formatHandyphone {
		step = s.handyphone
	}

	var err error
	for err == nil {
		err = step()
	}
	ms := max(s.tick*s.durationMs, s.noteEnd)
	if errors.Is(err, errEndOfSequence) {
		err = nil
	}
	return time.Duration(ms) * time.Millisecond, err
}
