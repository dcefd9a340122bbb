package matroska

import (
	"bytes"
	"errors"
	"math/bits"

	"go.uber.org/zap"
)

// ErrClosed is returned by Write after a stream's state has been handed off
// to a successor or Close was called.
var ErrClosed = errors.New("stream is closed")

// clusterSignature is the Cluster element id as it appears on the wire.
var clusterSignature = []byte{0x1F, 0x43, 0xB6, 0x75}

// timecodeLead is the Timecode element id byte expected right after a
// cluster header during resynchronization.
const timecodeLead = 0xE7

// Stream is the seekable variant of Parser. A fresh stream decodes from its
// first byte. A stream attached to a prior instance starts unstable and
// scans incoming chunks for a cluster boundary before forwarding anything;
// once stable, decode failures are logged and swallowed so a live byte feed
// keeps flowing.
type Stream struct {
	*Parser

	logger *zap.SugaredLogger
	stable bool
	closed bool
}

// NewStream returns a stream that decodes from the first byte.
func NewStream() *Stream {
	return &Stream{
		Parser: NewParser(),
		logger: zap.NewNop().Sugar(),
		stable: true,
	}
}

// NewStreamFrom moves prev's track registry and timecode scale into a new
// unstable stream and closes prev. The cluster base is intentionally left
// behind; the first Timecode element after resynchronization re-establishes
// it. Event callbacks are not carried over.
func NewStreamFrom(prev *Stream) *Stream {
	s := &Stream{
		Parser: NewParser(),
		logger: prev.logger,
	}
	s.Parser.tracks, s.Parser.scale = prev.Parser.takeState()
	prev.closed = true
	return s
}

// SetLogger routes containment diagnostics to the given logger.
func (s *Stream) SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		s.logger = l
	}
}

// Stable reports whether the stream has locked onto a cluster boundary and
// is forwarding chunks to the decoder.
func (s *Stream) Stable() bool { return s.stable }

// Write implements io.Writer. Malformed container data never fails a
// write; the error return is reserved for writes after Close. While
// unstable, chunks without a recognizable cluster boundary are dropped
// whole, the scan does not buffer across chunks.
func (s *Stream) Write(b []byte) (int, error) {
	if s.closed {
		return 0, ErrClosed
	}
	if !s.stable {
		i, ok := scanClusterBoundary(b)
		if !ok {
			return len(b), nil
		}
		s.stable = true
		b = b[i:]
	}
	if _, err := s.Parser.Write(b); err != nil {
		s.logger.Warnw("discarded undecodable chunk", "error", err)
		s.dec.Reset()
	}
	return len(b), nil
}

// Close marks the stream finished. Further writes fail with ErrClosed.
func (s *Stream) Close() error {
	s.closed = true
	return nil
}

// scanClusterBoundary looks for a plausible cluster start: the Cluster id,
// a valid size descriptor, then the leading byte of a Timecode element. The
// match is a heuristic; a coincidental byte pattern can fool it, and that
// is accepted.
func scanClusterBoundary(b []byte) (int, bool) {
	off := 0
	for {
		j := bytes.Index(b[off:], clusterSignature)
		if j < 0 {
			return 0, false
		}
		i := off + j
		off = i + 1

		sizeAt := i + len(clusterSignature)
		if sizeAt >= len(b) {
			return 0, false
		}
		sizeByte := b[sizeAt]
		if sizeByte == 0 {
			continue
		}
		// the high bit position encodes the size field width
		width := 9 - bits.Len8(sizeByte)
		next := sizeAt + width
		if next >= len(b) {
			continue
		}
		if b[next] == timecodeLead {
			return i, true
		}
	}
}
