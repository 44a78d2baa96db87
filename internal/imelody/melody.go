package imelody

import (
	"fmt"
	"strings"
)

// noteLengths is the length of each duration digit in quarter notes.
var noteLengths = [6]float64{4, 2, 1, 0.5, 0.25, 0.125}

// Duration modifiers.
var modifiers = map[byte]float64{
	'.': 1.5,  // dotted
	':': 1.75, // double dotted
	';': 2.0 / 3,
}

var switches = []string{"ledon", "ledoff", "vibeon", "vibeoff", "backon", "backoff"}

// player holds the state of one play-time computation.
type player struct {
	src     string
	pos     int
	quarter float64 // milliseconds per quarter note
	elapsed float64 // milliseconds
	repeats []float64
}

func (p *player) errorf(format string, args ...any) error {
	return fmt.Errorf("melody offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *player) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *player) run() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.pos++
		case c == '(':
			if len(p.repeats) == maxRepeatDepth {
				return p.errorf("repeat nesting deeper than %d", maxRepeatDepth)
			}
			p.repeats = append(p.repeats, p.elapsed)
			p.pos++
		case c == '@':
			if err := p.repeat(); err != nil {
				return err
			}
		case c == ')':
			if len(p.repeats) == 0 {
				return p.errorf("unbalanced ')'")
			}
			p.repeats = p.repeats[:len(p.repeats)-1]
			p.pos++
		case c == '*':
			p.pos++
			if d := p.peek(); d < '0' || d > '8' {
				return p.errorf("octave %q", d)
			}
			p.pos++
		case c == '&' || c == '#':
			p.pos++
			if !strings.ContainsRune("cdefgab", rune(p.peek())) {
				return p.errorf("accidental without note")
			}
		case p.toggle():
		case strings.ContainsRune("cdefgabr", rune(c)):
			p.pos++
			if err := p.note(); err != nil {
				return err
			}
		case c == 'V':
			p.volume()
		default:
			return p.errorf("unexpected %q", c)
		}
	}
	if len(p.repeats) > 0 {
		return p.errorf("unterminated repeat")
	}
	return nil
}

// note reads the duration digit and optional modifier after a note or rest.
func (p *player) note() error {
	d := p.peek()
	if d < '0' || d > '5' {
		return p.errorf("duration %q", d)
	}
	p.pos++
	length := noteLengths[d-'0']
	if f, ok := modifiers[p.peek()]; ok {
		length *= f
		p.pos++
	}
	p.elapsed += length * p.quarter
	return nil
}

// repeat reads "@n)" and replays the enclosed block n-1 more times. A count
// of zero means forever and is played once.
func (p *player) repeat() error {
	if len(p.repeats) == 0 {
		return p.errorf("'@' outside a repeat block")
	}
	p.pos++
	start := p.pos
	for p.peek() >= '0' && p.peek() <= '9' {
		p.pos++
	}
	if start == p.pos || p.pos-start > 2 {
		return p.errorf("repeat count %q", p.src[start:p.pos])
	}
	n := 0
	for _, c := range p.src[start:p.pos] {
		n = n*10 + int(c-'0')
	}
	if p.peek() != ')' {
		return p.errorf("repeat count without ')'")
	}
	p.pos++

	top := len(p.repeats) - 1
	block := p.elapsed - p.repeats[top]
	p.repeats = p.repeats[:top]
	if n > 1 {
		p.elapsed += block * float64(min(n, maxRepeatCount)-1)
	}
	return nil
}

// volume skips "V+", "V-" or "Vn".
func (p *player) volume() {
	p.pos++
	switch c := p.peek(); {
	case c == '+' || c == '-':
		p.pos++
	default:
		for i := 0; i < 2 && p.peek() >= '0' && p.peek() <= '9'; i++ {
			p.pos++
		}
	}
}

// toggle skips a led, vibration or backlight switch.
func (p *player) toggle() bool {
	for _, s := range switches {
		if strings.HasPrefix(p.src[p.pos:], s) {
			p.pos += len(s)
			return true
		}
	}
	return false
}
