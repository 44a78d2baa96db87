package midi

import (
	"container/heap"
	"errors"
	"fmt"
	"time"

	"golang.org/x/text/transform"

	"github.com/simonhull/mediatag/internal/types"
)

const (
	defaultTempo = 500_000 // microseconds per quarter note
	maxTick      = 1<<32 - 1

	// MinPlayTime is the shortest play time accepted.
	MinPlayTime = 20 * time.Millisecond
)

// Meta event types.
const (
	metaText      = 0x01
	metaCopyright = 0x02
	metaTrackName = 0x03
	metaTitle     = 0x06
	metaEndTrack  = 0x2F
	metaTempo     = 0x51
)

var errTrackEnd = errors.New("end of track")

// cursor walks the events of one track.
type cursor struct {
	data    []byte
	pos     int
	tick    uint64 // absolute tick of the pending event
	running byte
	index   int
}

// vlq reads a variable-length quantity of at most 4 bytes.
func (c *cursor) vlq() (uint32, error) {
	var v uint32
	for i := range 4 {
		if c.pos >= len(c.data) {
			return 0, errTrackEnd
		}
		b := c.data[c.pos]
		c.pos++
		v = v<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return v, nil
		}
		if i == 3 {
			return 0, fmt.Errorf("variable-length value longer than 4 bytes at %d", c.pos)
		}
	}
	return v, nil
}

// advance reads the delta time of the next event.
func (c *cursor) advance() error {
	d, err := c.vlq()
	if err != nil {
		return err
	}
	c.tick += uint64(d)
	if c.tick > maxTick {
		return fmt.Errorf("tick %d overflows", c.tick)
	}
	return nil
}

// event is a decoded track event. Only meta events carry a payload.
type event struct {
	meta    bool
	kind    byte
	payload []byte
}

// next decodes the event at the cursor.
func (c *cursor) next() (event, error) {
	if c.pos >= len(c.data) {
		return event{}, errTrackEnd
	}
	status := c.data[c.pos]
	if status < 0x80 {
		if c.running == 0 {
			return event{}, fmt.Errorf("data byte 0x%02X without running status at %d", status, c.pos)
		}
		status = c.running
	} else {
		c.pos++
	}

	switch {
	case status == 0xFF:
		c.running = 0
		if c.pos >= len(c.data) {
			return event{}, errTrackEnd
		}
		kind := c.data[c.pos]
		c.pos++
		payload, err := c.block()
		return event{meta: true, kind: kind, payload: payload}, err
	case status == 0xF0 || status == 0xF7:
		c.running = 0
		_, err := c.block()
		return event{}, err
	case status >= 0xF8:
		return event{}, nil
	case status >= 0xF0:
		return event{}, c.skip(systemDataLen[status&0x0F])
	default:
		c.running = status
		n := 2
		if hi := status & 0xF0; hi == 0xC0 || hi == 0xD0 {
			n = 1
		}
		return event{}, c.skip(n)
	}
}

// systemDataLen is the number of data bytes after F1..F6.
var systemDataLen = [16]int{1: 1, 2: 2, 3: 1}

func (c *cursor) skip(n int) error {
	if c.pos+n > len(c.data) {
		c.pos = len(c.data)
		return errTrackEnd
	}
	c.pos += n
	return nil
}

// block reads a length-prefixed payload.
func (c *cursor) block() ([]byte, error) {
	n, err := c.vlq()
	if err != nil {
		return nil, err
	}
	if int(n) > len(c.data)-c.pos {
		c.pos = len(c.data)
		return nil, errTrackEnd
	}
	b := c.data[c.pos : c.pos+int(n)]
	c.pos += int(n)
	return b, nil
}

// queue orders active tracks by the tick of their pending event.
type queue []*cursor

func (q queue) Len() int { return len(q) }
func (q queue) Less(i, j int) bool {
	if q[i].tick != q[j].tick {
		return q[i].tick < q[j].tick
	}
	return q[i].index < q[j].index
}
func (q queue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)   { *q = append(*q, x.(*cursor)) }
func (q *queue) Pop() any {
	old := *q
	c := old[len(old)-1]
	*q = old[:len(old)-1]
	return c
}

// PlayTime merges the tracks in tick order and returns the time of the
// last event. Tempo changes take effect at their tick. The first text,
// copyright and title meta events are stored in tags.
//
// A malformed event stops its track; events already merged still count.
func (s *SMF) PlayTime(tags *types.Tags, cfg *types.Config) (time.Duration, error) {
	q := make(queue, 0, len(s.Tracks))
	for i, data := range s.Tracks {
		c := &cursor{data: data, index: i}
		if err := c.advance(); err != nil {
			if c.tick > maxTick {
				return 0, &types.OutOfRangeError{Path: s.path, Field: "tick", Value: int64(c.tick)}
			}
			continue
		}
		q = append(q, c)
	}
	heap.Init(&q)

	var (
		tempo    uint64 = defaultTempo
		lastTick uint64
		elapsed  uint64 // microseconds * division
	)
	div := uint64(s.Division)

	for q.Len() > 0 {
		c := q[0]
		elapsed += (c.tick - lastTick) * tempo
		lastTick = c.tick

		ev, err := c.next()
		if err == nil && ev.meta {
			switch ev.kind {
			case metaTempo:
				if len(ev.payload) == 3 {
					tempo = uint64(ev.payload[0])<<16 | uint64(ev.payload[1])<<8 | uint64(ev.payload[2])
				}
			case metaText:
				tags.Set(types.FieldComment, decodeText(ev.payload, cfg))
			case metaCopyright:
				tags.Set(types.FieldCopyright, decodeText(ev.payload, cfg))
			case metaTitle:
				tags.Set(types.FieldTitle, decodeText(ev.payload, cfg))
			case metaTrackName:
				if c.index == 0 {
					tags.Set(types.FieldTitle, decodeText(ev.payload, cfg))
				}
			case metaEndTrack:
				err = errTrackEnd
			}
		}
		if err == nil {
			err = c.advance()
		}

		switch {
		case err == nil:
			heap.Fix(&q, 0)
		case errors.Is(err, errTrackEnd):
			heap.Pop(&q)
		default:
			if c.tick > maxTick {
				return 0, &types.OutOfRangeError{Path: s.path, Field: "tick", Value: int64(c.tick)}
			}
			cfg.Debug("midi: track stopped", "track", c.index, "error", err)
			heap.Pop(&q)
		}
	}

	d := time.Duration(elapsed/div) * time.Microsecond
	if d < MinPlayTime {
		return 0, &types.OutOfRangeError{Path: s.path, Field: "play time (ms)", Value: d.Milliseconds()}
	}
	return d, nil
}

func decodeText(b []byte, cfg *types.Config) string {
	out, _, err := transform.Bytes(cfg.Charset.NewDecoder(), b)
	if err != nil {
		return string(b)
	}
	return string(out)
}
