package ebml

import (
	"fmt"
	"math/bits"
)

// readID reads an element id from the start of b. Element ids keep their
// marker bits and occupy 1-4 bytes. A zero byte count means b does not yet
// hold the complete id.
func readID(b []byte) (ID, int, error) {
	if len(b) == 0 {
		return 0, 0, nil
	}
	w := bits.LeadingZeros8(b[0]) + 1
	if w > 4 {
		return 0, 0, fmt.Errorf("invalid element id byte 0x%02x", b[0])
	}
	if len(b) < w {
		return 0, 0, nil
	}
	var v uint32
	for _, c := range b[:w] {
		v = v<<8 | uint32(c)
	}
	return ID(v), w, nil
}

// readSize reads a size descriptor from the start of b. Marker bits are
// stripped; descriptors occupy 1-8 bytes. The reserved all-ones value means
// the element size is unknown. A zero byte count means b does not yet hold
// the complete descriptor.
func readSize(b []byte) (size uint64, n int, unknown bool, err error) {
	if len(b) == 0 {
		return 0, 0, false, nil
	}
	w := bits.LeadingZeros8(b[0]) + 1
	if w > 8 {
		return 0, 0, false, fmt.Errorf("invalid size descriptor byte 0x%02x", b[0])
	}
	if len(b) < w {
		return 0, 0, false, nil
	}
	v := uint64(b[0] & (0xFF >> w))
	for _, c := range b[1:w] {
		v = v<<8 | uint64(c)
	}
	allOnes := uint64(1)<<(7*w) - 1
	return v, w, v == allOnes, nil
}
