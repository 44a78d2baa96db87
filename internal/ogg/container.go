// Package ogg reads Vorbis and Opus stream properties and comments from an
// Ogg container.
package ogg

import (
	"encoding/binary"
	"fmt"

	binutil "github.com/simonhull/mediatag/internal/binary"
	"github.com/simonhull/mediatag/internal/types"
)

const (
	pageMagic     = "OggS"
	pageHeaderLen = 27

	flagContinued = 0x01
	flagBOS       = 0x02

	// maxPacket bounds a reassembled header packet. Comment packets carry
	// base64 artwork, so this sits well above the artwork cap.
	maxPacket = 16 << 20

	// tailWindow is how far back from the end the last page is searched for.
	tailWindow = 64 << 10

	unsetGranule = -1
)

// page is one Ogg page.
type page struct {
	offset   int64
	flags    byte
	granule  int64 // -1 when no packet ends on this page
	serial   uint32
	sequence uint32
	segments []byte // lacing values
	data     []byte
}

// end returns the offset of the byte following the page.
func (p *page) end() int64 {
	return p.offset + pageHeaderLen + int64(len(p.segments)) + int64(len(p.data))
}

// readPage reads the page starting at off.
func readPage(sr *binutil.SafeReader, off int64) (*page, error) {
	head, err := sr.Bytes(off, pageHeaderLen, "Ogg page header")
	if err != nil {
		return nil, err
	}
	if string(head[:4]) != pageMagic {
		return nil, &types.CorruptedFileError{
			Path: sr.Path(), Element: pageMagic, Offset: off,
			Reason: "missing page capture pattern",
		}
	}
	if head[4] != 0 {
		return nil, &types.UnsupportedVariantError{
			Path: sr.Path(), Variant: fmt.Sprintf("Ogg stream structure version %d", head[4]),
		}
	}

	p := &page{
		offset:   off,
		flags:    head[5],
		granule:  int64(binary.LittleEndian.Uint64(head[6:14])),
		serial:   binary.LittleEndian.Uint32(head[14:18]),
		sequence: binary.LittleEndian.Uint32(head[18:22]),
	}
	if p.segments, err = bytesAt(sr, off+pageHeaderLen, int(head[26]), "Ogg segment table"); err != nil {
		return nil, err
	}
	n := 0
	for _, seg := range p.segments {
		n += int(seg)
	}
	if p.data, err = bytesAt(sr, off+pageHeaderLen+int64(len(p.segments)), n, "Ogg page data"); err != nil {
		return nil, err
	}
	return p, nil
}

// bytesAt is sr.Bytes that also accepts an empty read at the end of data.
func bytesAt(sr *binutil.SafeReader, off int64, n int, what string) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	return sr.Bytes(off, n, what)
}

// packetReader reassembles the packets of one logical stream from the
// segment lacing of its pages. Pages of other streams are skipped.
type packetReader struct {
	sr      *binutil.SafeReader
	off     int64
	serial  uint32
	pending []byte
	queue   [][]byte
}

func newPacketReader(sr *binutil.SafeReader, serial uint32) *packetReader {
	return &packetReader{sr: sr, serial: serial}
}

// next returns the next complete packet.
func (pr *packetReader) next() ([]byte, error) {
	for len(pr.queue) == 0 {
		p, err := readPage(pr.sr, pr.off)
		if err != nil {
			return nil, err
		}
		pr.off = p.end()
		if p.serial != pr.serial {
			continue
		}
		if err := pr.add(p); err != nil {
			return nil, err
		}
	}
	pkt := pr.queue[0]
	pr.queue = pr.queue[1:]
	return pkt, nil
}

// add splits a page into packets. A lacing value below 255 ends a packet;
// a packet still open at the end of the page continues on the next one.
func (pr *packetReader) add(p *page) error {
	if p.flags&flagContinued == 0 {
		pr.pending = nil
	}
	data := p.data
	for _, seg := range p.segments {
		pr.pending = append(pr.pending, data[:seg]...)
		data = data[seg:]
		if seg < 255 {
			pr.queue = append(pr.queue, pr.pending)
			pr.pending = nil
		}
	}
	if len(pr.pending) > maxPacket {
		return &types.CorruptedFileError{
			Path: pr.sr.Path(), Element: pageMagic, Offset: p.offset,
			Reason: fmt.Sprintf("packet exceeds %d bytes", maxPacket),
		}
	}
	return nil
}

// headPages returns the beginning-of-stream pages that open the file, one
// per logical stream.
func headPages(sr *binutil.SafeReader) ([]*page, error) {
	var pages []*page
	for off := int64(0); off < sr.Size(); {
		p, err := readPage(sr, off)
		if err != nil {
			if len(pages) > 0 {
				break
			}
			return nil, err
		}
		if p.flags&flagBOS == 0 {
			break
		}
		pages = append(pages, p)
		off = p.end()
	}
	return pages, nil
}

// lastGranule searches the tail of the file for the final page of serial
// that carries a granule position.
func lastGranule(sr *binutil.SafeReader, serial uint32) (int64, error) {
	start := max(sr.Size()-tailWindow, 0)
	buf, err := sr.Bytes(start, int(sr.Size()-start), "Ogg tail")
	if err != nil {
		return 0, err
	}
	for i := len(buf) - pageHeaderLen; i >= 0; i-- {
		h := buf[i:]
		if string(h[:4]) != pageMagic || h[4] != 0 || binary.LittleEndian.Uint32(h[14:18]) != serial {
			continue
		}
		if g := int64(binary.LittleEndian.Uint64(h[6:14])); g != unsetGranule {
			return g, nil
		}
	}
	return 0, fmt.Errorf("no granule position in the last %d bytes", len(buf))
}
