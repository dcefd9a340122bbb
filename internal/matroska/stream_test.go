package matroska

import (
	"bytes"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mgpai22/mkvsub/internal/ebml"
)

func TestScanClusterBoundary(t *testing.T) {
	cluster := append(append([]byte{}, clusterSignature...), 0xFF, 0xE7)

	tests := []struct {
		name    string
		chunk   []byte
		wantOff int
		wantOK  bool
	}{
		{"at start", cluster, 0, true},
		{"after garbage", append([]byte("junk"), cluster...), 4, true},
		{"one byte size", append(append([]byte{}, clusterSignature...), 0x84, 0xE7), 0, true},
		{"two byte size", append(append([]byte{}, clusterSignature...), 0x42, 0x00, 0xE7), 0, true},
		{"no signature", []byte("nothing to see here"), 0, false},
		{"wrong follower", append(append([]byte{}, clusterSignature...), 0x84, 0xA3), 0, false},
		{"zero size byte", append(append([]byte{}, clusterSignature...), 0x00, 0xE7), 0, false},
		{"size cut off", clusterSignature, 0, false},
		{"timecode cut off", append(append([]byte{}, clusterSignature...), 0x84), 0, false},
		{
			"second candidate wins",
			bytes.Join([][]byte{clusterSignature, {0x84, 0xA3}, cluster}, nil),
			6, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			off, ok := scanClusterBoundary(tt.chunk)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && off != tt.wantOff {
				t.Fatalf("offset = %d, want %d", off, tt.wantOff)
			}
		})
	}
}

func TestStreamFreshIsStable(t *testing.T) {
	s := NewStream()
	if !s.Stable() {
		t.Fatal("fresh stream should start stable")
	}
}

func TestStreamHandoff(t *testing.T) {
	head := NewStream()
	if _, err := head.Write(segmentStream(500_000, 7000,
		trackEntryBytes(2, "S_TEXT/UTF8", false))); err != nil {
		t.Fatalf("head Write: %v", err)
	}

	s := NewStreamFrom(head)
	if s.Stable() {
		t.Fatal("resumed stream should start unstable")
	}
	if got := len(s.Tracks()); got != 1 {
		t.Fatalf("resumed stream has %d tracks, want the moved registry", got)
	}
	if s.scale != 0.5 {
		t.Fatalf("scale = %v, want 0.5 carried over", s.scale)
	}
	if s.clusterBase != 0 {
		t.Fatalf("clusterBase = %d, want 0 (not carried)", s.clusterBase)
	}
	if got := len(head.Tracks()); got != 0 {
		t.Fatalf("donor still holds %d tracks, want state moved out", got)
	}
	if _, err := head.Write([]byte{0xEC}); !errors.Is(err, ErrClosed) {
		t.Fatalf("donor Write error = %v, want ErrClosed", err)
	}
}

func TestStreamResync(t *testing.T) {
	head := NewStream()
	if _, err := head.Write(segmentStream(1_000_000, 0,
		trackEntryBytes(2, "S_TEXT/UTF8", false))); err != nil {
		t.Fatalf("head Write: %v", err)
	}

	s := NewStreamFrom(head)
	c := hook(s.Parser)

	if _, err := s.Write([]byte("mid-cluster garbage with no marker")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if s.Stable() {
		t.Fatal("stream stabilized on a chunk without a cluster boundary")
	}
	if len(c.cues) != 0 {
		t.Fatal("cues emitted before resync")
	}

	resume := bytes.Join([][]byte{
		[]byte{0x12, 0x34},
		unknownSize(ebml.IDCluster),
		uintLeaf(ebml.IDTimecode, 60_000),
		blockGroupBytes(2, 0, []byte("back"), 1000),
	}, nil)
	if _, err := s.Write(resume); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !s.Stable() {
		t.Fatal("stream did not stabilize on a cluster boundary")
	}
	if len(c.cues) != 1 {
		t.Fatalf("got %d cues after resync, want 1", len(c.cues))
	}
	if c.cues[0].Time != 60_000 {
		t.Fatalf("Time = %v, want the resumed cluster base", c.cues[0].Time)
	}
}

func TestStreamSplitSignatureNotFound(t *testing.T) {
	head := NewStream()
	if _, err := head.Write(segmentStream(1_000_000, 0,
		trackEntryBytes(2, "S_TEXT/UTF8", false))); err != nil {
		t.Fatalf("head Write: %v", err)
	}
	s := NewStreamFrom(head)

	cluster := bytes.Join([][]byte{
		unknownSize(ebml.IDCluster),
		uintLeaf(ebml.IDTimecode, 1000),
	}, nil)
	if _, err := s.Write(cluster[:2]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := s.Write(cluster[2:]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if s.Stable() {
		t.Fatal("marker split across chunks should not match")
	}
}

func TestStreamContainsParserErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewStream()
	s.SetLogger(zap.New(core).Sugar())
	c := hook(s.Parser)

	if _, err := s.Write(segmentStream(1_000_000, 0,
		trackEntryBytes(2, "S_TEXT/UTF8", false))); err != nil {
		t.Fatalf("Write: %v", err)
	}

	n, err := s.Write([]byte{0x00, 0x00, 0x00, 0x00})
	if err != nil {
		t.Fatalf("malformed chunk surfaced error: %v", err)
	}
	if n != 4 {
		t.Fatalf("n = %d, want full chunk accepted", n)
	}
	if logs.FilterMessage("discarded undecodable chunk").Len() != 1 {
		t.Fatal("expected a warning for the discarded chunk")
	}
	if !s.Stable() {
		t.Fatal("containment must not change stability")
	}

	follow := bytes.Join([][]byte{
		unknownSize(ebml.IDCluster),
		uintLeaf(ebml.IDTimecode, 500),
		blockGroupBytes(2, 0, []byte("ok"), 100),
	}, nil)
	if _, err := s.Write(follow); err != nil {
		t.Fatalf("Write after containment: %v", err)
	}
	if len(c.cues) != 1 {
		t.Fatalf("got %d cues after recovery, want 1", len(c.cues))
	}
}

func TestStreamCloseRejectsWrites(t *testing.T) {
	s := NewStream()
	s.Close()
	if _, err := s.Write([]byte{0xEC}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Write error = %v, want ErrClosed", err)
	}
}
