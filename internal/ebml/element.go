package ebml

import "strings"

// Element is one decoded container element. Masters delivered by the
// decoder carry Children; leaves carry Data.
type Element struct {
	ID       ID
	Data     []byte
	Children []Element
}

// Find returns the first direct child with the given id.
func (e Element) Find(id ID) (Element, bool) {
	for _, c := range e.Children {
		if c.ID == id {
			return c, true
		}
	}
	return Element{}, false
}

// FindAll returns every direct child with the given id, in order.
func (e Element) FindAll(id ID) []Element {
	var out []Element
	for _, c := range e.Children {
		if c.ID == id {
			out = append(out, c)
		}
	}
	return out
}

// Uint decodes the payload as a big-endian unsigned integer. Matroska
// encodes unsigned values in as few bytes as needed; an empty payload
// decodes to zero.
func (e Element) Uint() uint64 {
	var v uint64
	for _, b := range e.Data {
		v = v<<8 | uint64(b)
	}
	return v
}

// Text decodes the payload as a string. Matroska strings may be padded
// with trailing NUL bytes, which are stripped.
func (e Element) Text() string {
	return strings.TrimRight(string(e.Data), "\x00")
}
