package matroska

import (
	"fmt"
	"math"
	"sort"

	"github.com/mgpai22/mkvsub/internal/ebml"
)

// Attachment is one embedded file carried by the container, typically a
// subtitle font.
type Attachment struct {
	Filename string
	Mimetype string
	Data     []byte
}

// Parser is the semantic layer over a Matroska/WebM byte stream. Feed it
// container bytes through Write; track lists, subtitle cues, and attached
// files are delivered through the exported callbacks. A nil callback drops
// its events.
//
// Write is strict: decode and decompression failures are returned to the
// caller. Stream wraps a Parser with the resynchronization and error
// containment a live byte feed needs.
type Parser struct {
	// OnTracks receives the full registered track list, sorted by track
	// number, after every Tracks element. Each call replaces the previous
	// state; it is not a delta.
	OnTracks func([]Track)

	// OnSubtitle receives each synthesized cue with its track number.
	OnSubtitle func(Cue, uint64)

	// OnAttachment receives every attached file, in stream order.
	OnAttachment func(Attachment)

	dec         *ebml.Decoder
	tracks      map[uint64]Track
	scale       float64
	clusterBase uint64
}

// NewParser returns a parser with the default timecode scale.
func NewParser() *Parser {
	p := &Parser{
		tracks: make(map[uint64]Track),
		scale:  1,
	}
	p.dec = ebml.NewDecoder(p.handle)
	return p
}

// Write implements io.Writer. Chunks may be split at arbitrary byte
// boundaries.
func (p *Parser) Write(b []byte) (int, error) {
	return p.dec.Write(b)
}

// Tracks returns the registered subtitle tracks sorted by number.
func (p *Parser) Tracks() []Track {
	out := make([]Track, 0, len(p.tracks))
	for _, t := range p.tracks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// takeState moves the track registry and timecode scale out of p, leaving
// an empty registry behind. The seekable variant's handoff uses it so the
// successor owns the state instead of aliasing it.
func (p *Parser) takeState() (map[uint64]Track, float64) {
	tracks := p.tracks
	p.tracks = make(map[uint64]Track)
	return tracks, p.scale
}

func (p *Parser) handle(el ebml.Element) error {
	switch el.ID {
	case ebml.IDTimecodeScale:
		p.scale = float64(el.Uint()) / 1_000_000
	case ebml.IDTimecode:
		p.clusterBase = el.Uint()
	case ebml.IDTracks:
		p.handleTracks(el)
	case ebml.IDBlockGroup:
		return p.handleBlockGroup(el)
	case ebml.IDAttachedFile:
		p.handleAttachedFile(el)
	}
	return nil
}

func (p *Parser) handleTracks(el ebml.Element) {
	for _, entry := range el.FindAll(ebml.IDTrackEntry) {
		track, ok := parseTrackEntry(entry)
		if !ok {
			continue
		}
		p.tracks[track.Number] = track
	}
	if p.OnTracks != nil {
		p.OnTracks(p.Tracks())
	}
}

func (p *Parser) handleBlockGroup(el ebml.Element) error {
	raw, ok := el.Find(ebml.IDBlock)
	if !ok {
		return nil
	}
	block, err := ebml.ParseBlock(raw.Data)
	if err != nil {
		return fmt.Errorf("block group at cluster base %d: %w", p.clusterBase, err)
	}
	track, ok := p.tracks[block.TrackNumber]
	if !ok {
		// not a registered subtitle track
		return nil
	}

	duration := math.NaN()
	if d, ok := el.Find(ebml.IDBlockDuration); ok {
		duration = float64(d.Uint()) * p.scale
	}

	payload := block.Payload
	if track.Compressed {
		payload, err = inflate(payload)
		if err != nil {
			return fmt.Errorf("track %d: %w", track.Number, err)
		}
	}

	start := (float64(block.Timecode) + float64(p.clusterBase)) * p.scale
	cue := synthesizeCue(track, string(payload), start, duration)
	if p.OnSubtitle != nil {
		p.OnSubtitle(cue, track.Number)
	}
	return nil
}

func (p *Parser) handleAttachedFile(el ebml.Element) {
	if p.OnAttachment == nil {
		return
	}
	var att Attachment
	if name, ok := el.Find(ebml.IDFileName); ok {
		att.Filename = name.Text()
	}
	if mime, ok := el.Find(ebml.IDFileMimeType); ok {
		att.Mimetype = mime.Text()
	}
	if data, ok := el.Find(ebml.IDFileData); ok {
		att.Data = data.Data
	}
	p.OnAttachment(att)
}
