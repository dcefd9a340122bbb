package ebml

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"
)

// Block is the parsed framing of a Block element payload: the track number
// it belongs to, its cluster-relative timecode, the flags byte, and the
// codec payload.
type Block struct {
	TrackNumber uint64
	Timecode    int16
	Flags       byte
	Payload     []byte
}

// ParseBlock splits a raw Block payload into its framing fields. Subtitle
// blocks are never laced, so the payload is taken whole and the lacing bits
// in the flags byte are ignored.
func ParseBlock(b []byte) (Block, error) {
	if len(b) == 0 {
		return Block{}, errors.New("empty block payload")
	}
	w := bits.LeadingZeros8(b[0]) + 1
	if w > 8 {
		return Block{}, fmt.Errorf("invalid track number byte 0x%02x", b[0])
	}
	if len(b) < w+3 {
		return Block{}, errors.New("truncated block header")
	}
	track := uint64(b[0] & (0xFF >> w))
	for _, c := range b[1:w] {
		track = track<<8 | uint64(c)
	}
	return Block{
		TrackNumber: track,
		Timecode:    int16(binary.BigEndian.Uint16(b[w : w+2])),
		Flags:       b[w+2],
		Payload:     b[w+3:],
	}, nil
}
