package ebml

import (
	"errors"
	"fmt"
)

// maxBufferedSize caps elements the decoder must hold in memory whole.
// Attached fonts are the largest realistic case.
const maxBufferedSize = 64 << 20

var errTruncated = errors.New("truncated element")

// streamedMasters are descended into immediately without buffering. These
// are the only elements allowed to use the unknown-size encoding.
var streamedMasters = map[ID]bool{
	IDSegment:     true,
	IDCluster:     true,
	IDInfo:        true,
	IDAttachments: true,
}

// bufferedMasters are delivered to the handler as complete subtrees.
var bufferedMasters = map[ID]bool{
	IDTracks:       true,
	IDBlockGroup:   true,
	IDAttachedFile: true,
}

// deliveredLeaves are delivered as soon as their payload is complete.
// Timecode in particular must reach the handler before the block groups of
// its cluster do.
var deliveredLeaves = map[ID]bool{
	IDTimecodeScale: true,
	IDTimecode:      true,
}

// Decoder is an incremental push decoder for Matroska/WebM byte streams.
// Write accepts arbitrary chunk boundaries; complete elements are handed to
// the handler in stream order. Elements outside the handled sets are
// skipped without buffering.
type Decoder struct {
	handler func(Element) error
	pending []byte
	skip    uint64
	offset  int64
}

// NewDecoder returns a decoder that invokes handler for every delivered
// element.
func NewDecoder(handler func(Element) error) *Decoder {
	return &Decoder{handler: handler}
}

// Reset discards partially decoded input. Elements already delivered are
// unaffected.
func (d *Decoder) Reset() {
	d.pending = nil
	d.skip = 0
}

// Offset returns the number of stream bytes fully consumed so far.
func (d *Decoder) Offset() int64 { return d.offset }

// Write implements io.Writer.
func (d *Decoder) Write(p []byte) (int, error) {
	n := len(p)
	if d.skip > 0 {
		if uint64(len(p)) <= d.skip {
			d.skip -= uint64(len(p))
			d.offset += int64(len(p))
			return n, nil
		}
		p = p[d.skip:]
		d.offset += int64(d.skip)
		d.skip = 0
	}
	d.pending = append(d.pending, p...)
	for {
		progress, err := d.step()
		if err != nil {
			return n, err
		}
		if !progress {
			break
		}
	}
	if len(d.pending) == 0 {
		d.pending = nil
	}
	return n, nil
}

// step decodes one element header, and its body where the element class
// requires one, from the pending buffer. It reports whether any bytes were
// consumed; false with a nil error means more input is needed.
func (d *Decoder) step() (bool, error) {
	id, idw, err := readID(d.pending)
	if err != nil {
		return false, fmt.Errorf("offset %d: %w", d.offset, err)
	}
	if idw == 0 {
		return false, nil
	}
	size, sw, unknown, err := readSize(d.pending[idw:])
	if err != nil {
		return false, fmt.Errorf("%s at offset %d: %w", id, d.offset, err)
	}
	if sw == 0 {
		return false, nil
	}
	header := idw + sw

	switch {
	case streamedMasters[id]:
		d.consume(header)
		return true, nil

	case unknown:
		return false, fmt.Errorf("%s at offset %d: unknown size on a non-streamed element", id, d.offset)

	case bufferedMasters[id], deliveredLeaves[id]:
		if size > maxBufferedSize {
			return false, fmt.Errorf("%s at offset %d: size %d exceeds the buffer cap", id, d.offset, size)
		}
		total := header + int(size)
		if len(d.pending) < total {
			return false, nil
		}
		body := d.pending[header:total]
		el := Element{ID: id}
		if bufferedMasters[id] {
			children, err := parseChildren(body)
			if err != nil {
				return false, fmt.Errorf("%s at offset %d: %w", id, d.offset, err)
			}
			el.Children = children
		} else {
			el.Data = append([]byte(nil), body...)
		}
		d.consume(total)
		if d.handler != nil {
			if err := d.handler(el); err != nil {
				return false, err
			}
		}
		return true, nil

	default:
		d.consume(header)
		if avail := uint64(len(d.pending)); size > avail {
			d.skip = size - avail
			d.consume(int(avail))
		} else {
			d.consume(int(size))
		}
		return true, nil
	}
}

func (d *Decoder) consume(n int) {
	d.pending = d.pending[n:]
	d.offset += int64(n)
}

// parseChildren parses a fully buffered master payload into a child tree.
// Unknown ids are kept as leaves so callers can ignore what they do not
// understand.
func parseChildren(b []byte) ([]Element, error) {
	var children []Element
	for len(b) > 0 {
		id, idw, err := readID(b)
		if err != nil {
			return nil, err
		}
		if idw == 0 {
			return nil, errTruncated
		}
		size, sw, unknown, err := readSize(b[idw:])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", id, err)
		}
		if sw == 0 {
			return nil, errTruncated
		}
		if unknown {
			return nil, fmt.Errorf("%s: unknown size inside a buffered subtree", id)
		}
		if size > uint64(len(b)-idw-sw) {
			return nil, errTruncated
		}
		body := b[idw+sw : idw+sw+int(size)]
		el := Element{ID: id}
		if masterIDs[id] {
			kids, err := parseChildren(body)
			if err != nil {
				return nil, err
			}
			el.Children = kids
		} else {
			el.Data = append([]byte(nil), body...)
		}
		children = append(children, el)
		b = b[idw+sw+int(size):]
	}
	return children, nil
}
