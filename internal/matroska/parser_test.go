package matroska

import (
	"bytes"
	"compress/zlib"
	"errors"
	"math"
	"testing"

	"github.com/mgpai22/mkvsub/internal/ebml"
)

// wire-format fixture builders

func encID(id ebml.ID) []byte {
	v := uint32(id)
	switch {
	case v <= 0xFF:
		return []byte{byte(v)}
	case v <= 0xFFFF:
		return []byte{byte(v >> 8), byte(v)}
	case v <= 0xFFFFFF:
		return []byte{byte(v >> 16), byte(v >> 8), byte(v)}
	default:
		return []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	}
}

func encSize(n int) []byte {
	if n < 0x7F {
		return []byte{0x80 | byte(n)}
	}
	return []byte{0x40 | byte(n>>8), byte(n)}
}

func leaf(id ebml.ID, payload []byte) []byte {
	b := append(encID(id), encSize(len(payload))...)
	return append(b, payload...)
}

func master(id ebml.ID, children ...[]byte) []byte {
	return leaf(id, bytes.Join(children, nil))
}

func unknownSize(id ebml.ID) []byte {
	return append(encID(id), 0xFF)
}

func uintLeaf(id ebml.ID, v uint64) []byte {
	var payload []byte
	for v > 0 {
		payload = append([]byte{byte(v)}, payload...)
		v >>= 8
	}
	if payload == nil {
		payload = []byte{0}
	}
	return leaf(id, payload)
}

func blockFrame(track byte, relative int16, payload []byte) []byte {
	b := []byte{0x80 | track, byte(uint16(relative) >> 8), byte(uint16(relative)), 0x00}
	return append(b, payload...)
}

func trackEntryBytes(number byte, codec string, compressed bool) []byte {
	children := [][]byte{
		uintLeaf(ebml.IDTrackNumber, uint64(number)),
		uintLeaf(ebml.IDTrackType, trackTypeSubtitle),
		leaf(ebml.IDCodecID, []byte(codec)),
	}
	if compressed {
		children = append(children, master(ebml.IDContentEncodings,
			master(ebml.IDContentEncoding,
				master(ebml.IDContentCompression))))
	}
	return master(ebml.IDTrackEntry, children...)
}

func blockGroupBytes(track byte, relative int16, payload []byte, duration int) []byte {
	children := [][]byte{leaf(ebml.IDBlock, blockFrame(track, relative, payload))}
	if duration >= 0 {
		children = append(children, uintLeaf(ebml.IDBlockDuration, uint64(duration)))
	}
	return master(ebml.IDBlockGroup, children...)
}

func segmentStream(scale uint64, clusterBase uint64, entry []byte, blockGroups ...[]byte) []byte {
	parts := [][]byte{
		unknownSize(ebml.IDSegment),
		master(ebml.IDInfo, uintLeaf(ebml.IDTimecodeScale, scale)),
		master(ebml.IDTracks, entry),
		unknownSize(ebml.IDCluster),
		uintLeaf(ebml.IDTimecode, clusterBase),
	}
	parts = append(parts, blockGroups...)
	return bytes.Join(parts, nil)
}

func zlibCompress(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("compress fixture: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close compressor: %v", err)
	}
	return buf.Bytes()
}

type capture struct {
	tracks    [][]Track
	cues      []Cue
	cueTracks []uint64
	files     []Attachment
}

func hook(p *Parser) *capture {
	c := &capture{}
	p.OnTracks = func(tracks []Track) { c.tracks = append(c.tracks, tracks) }
	p.OnSubtitle = func(cue Cue, track uint64) {
		c.cues = append(c.cues, cue)
		c.cueTracks = append(c.cueTracks, track)
	}
	p.OnAttachment = func(att Attachment) { c.files = append(c.files, att) }
	return c
}

func TestParserEmitsCue(t *testing.T) {
	p := NewParser()
	c := hook(p)

	stream := segmentStream(1_000_000, 7000,
		trackEntryBytes(2, "S_TEXT/UTF8", false),
		blockGroupBytes(2, 250, []byte("hello"), 1500),
	)
	if _, err := p.Write(stream); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	if len(c.cues) != 1 {
		t.Fatalf("got %d cues, want 1", len(c.cues))
	}
	cue := c.cues[0]
	if cue.Time != 7250 {
		t.Fatalf("Time = %v, want 7250", cue.Time)
	}
	if cue.Duration != 1500 {
		t.Fatalf("Duration = %v, want 1500", cue.Duration)
	}
	if c.cueTracks[0] != 2 {
		t.Fatalf("cue track = %d, want 2", c.cueTracks[0])
	}
	want := "00:00:07,250 --> 00:00:08,750\nhello\n"
	if cue.Content != want {
		t.Fatalf("Content = %q, want %q", cue.Content, want)
	}
}

func TestParserScale(t *testing.T) {
	for _, raw := range []uint64{1, 500_000, 1_000_000, 2_500_000} {
		p := NewParser()
		stream := bytes.Join([][]byte{
			unknownSize(ebml.IDSegment),
			master(ebml.IDInfo, uintLeaf(ebml.IDTimecodeScale, raw)),
		}, nil)
		if _, err := p.Write(stream); err != nil {
			t.Fatalf("Write returned error: %v", err)
		}
		if want := float64(raw) / 1_000_000; p.scale != want {
			t.Fatalf("scale = %v after raw %d, want %v", p.scale, raw, want)
		}
	}
}

func TestParserCueMathUnderScale(t *testing.T) {
	p := NewParser()
	c := hook(p)

	stream := segmentStream(500_000, 7000,
		trackEntryBytes(2, "S_TEXT/UTF8", false),
		blockGroupBytes(2, -250, []byte("x"), 1500),
	)
	if _, err := p.Write(stream); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if len(c.cues) != 1 {
		t.Fatalf("got %d cues, want 1", len(c.cues))
	}
	if got := c.cues[0].Time; got != (7000-250)*0.5 {
		t.Fatalf("Time = %v, want %v", got, (7000-250)*0.5)
	}
	if got := c.cues[0].Duration; got != 750 {
		t.Fatalf("Duration = %v, want 750", got)
	}
}

func TestParserDurationAbsent(t *testing.T) {
	p := NewParser()
	c := hook(p)

	stream := segmentStream(1_000_000, 0,
		trackEntryBytes(2, "S_TEXT/UTF8", false),
		blockGroupBytes(2, 10, []byte("x"), -1),
	)
	if _, err := p.Write(stream); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if len(c.cues) != 1 {
		t.Fatalf("got %d cues, want 1", len(c.cues))
	}
	if !math.IsNaN(c.cues[0].Duration) {
		t.Fatalf("Duration = %v, want NaN when BlockDuration is absent", c.cues[0].Duration)
	}
}

func TestParserDropsUnregisteredTrack(t *testing.T) {
	p := NewParser()
	c := hook(p)

	stream := segmentStream(1_000_000, 0,
		trackEntryBytes(2, "S_TEXT/UTF8", false),
		blockGroupBytes(9, 10, []byte("ghost"), 100),
	)
	if _, err := p.Write(stream); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if len(c.cues) != 0 {
		t.Fatalf("got %d cues for an unregistered track, want 0", len(c.cues))
	}
}

func TestParserCompressedPayload(t *testing.T) {
	p := NewParser()
	c := hook(p)

	stream := segmentStream(1_000_000, 0,
		trackEntryBytes(2, "S_TEXT/UTF8", true),
		blockGroupBytes(2, 0, zlibCompress(t, "deflated line"), 100),
	)
	if _, err := p.Write(stream); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if len(c.cues) != 1 {
		t.Fatalf("got %d cues, want 1", len(c.cues))
	}
	if c.cues[0].Text != "deflated line" {
		t.Fatalf("Text = %q, want the inflated payload", c.cues[0].Text)
	}
}

func TestParserDecompressionError(t *testing.T) {
	p := NewParser()
	hook(p)

	stream := segmentStream(1_000_000, 0,
		trackEntryBytes(2, "S_TEXT/UTF8", true),
		blockGroupBytes(2, 0, []byte("not zlib"), 100),
	)
	_, err := p.Write(stream)
	if !errors.Is(err, ErrDecompression) {
		t.Fatalf("Write error = %v, want ErrDecompression", err)
	}
}

func TestParserAttachments(t *testing.T) {
	p := NewParser()
	c := hook(p)

	attached := master(ebml.IDAttachedFile,
		leaf(ebml.IDFileName, []byte("font.ttf")),
		leaf(ebml.IDFileMimeType, []byte("application/x-truetype-font")),
		leaf(ebml.IDFileData, []byte{0xDE, 0xAD}),
	)
	stream := bytes.Join([][]byte{
		unknownSize(ebml.IDSegment),
		master(ebml.IDAttachments, attached, attached),
	}, nil)
	if _, err := p.Write(stream); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	if len(c.files) != 2 {
		t.Fatalf("got %d attachments, want every occurrence emitted", len(c.files))
	}
	att := c.files[0]
	if att.Filename != "font.ttf" || att.Mimetype != "application/x-truetype-font" {
		t.Fatalf("attachment = %+v", att)
	}
	if !bytes.Equal(att.Data, []byte{0xDE, 0xAD}) {
		t.Fatalf("Data = % x", att.Data)
	}
}

func TestParserNilCallbacks(t *testing.T) {
	p := NewParser()
	stream := segmentStream(1_000_000, 0,
		trackEntryBytes(2, "S_TEXT/UTF8", false),
		blockGroupBytes(2, 0, []byte("x"), 100),
	)
	if _, err := p.Write(stream); err != nil {
		t.Fatalf("Write with nil callbacks returned error: %v", err)
	}
}

func TestParserChunkedWrites(t *testing.T) {
	p := NewParser()
	c := hook(p)

	stream := segmentStream(1_000_000, 7000,
		trackEntryBytes(2, "S_TEXT/UTF8", false),
		blockGroupBytes(2, 250, []byte("hello"), 1500),
	)
	for i := 0; i < len(stream); i += 3 {
		end := i + 3
		if end > len(stream) {
			end = len(stream)
		}
		if _, err := p.Write(stream[i:end]); err != nil {
			t.Fatalf("Write returned error: %v", err)
		}
	}
	if len(c.cues) != 1 || c.cues[0].Time != 7250 {
		t.Fatalf("chunked writes produced %d cues (want 1 at 7250)", len(c.cues))
	}
}
