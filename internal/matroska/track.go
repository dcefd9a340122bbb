package matroska

import (
	"strings"

	"github.com/mgpai22/mkvsub/internal/ebml"
)

const (
	trackTypeSubtitle = 0x11
	codecPrefix       = "S_TEXT/"
)

// Track describes one text subtitle track found in the container. Type is
// the lowercased codec suffix ("utf8", "ssa", "ass", "webvtt", ...); Header
// carries the raw codec-private text, e.g. an SSA script header.
type Track struct {
	Number     uint64
	Type       string
	Language   string
	Name       string
	Header     string
	Compressed bool
}

// parseTrackEntry builds a Track from a TrackEntry subtree. ok is false
// when the entry is not a text subtitle track.
func parseTrackEntry(entry ebml.Element) (Track, bool) {
	typ, ok := entry.Find(ebml.IDTrackType)
	if !ok || typ.Uint() != trackTypeSubtitle {
		return Track{}, false
	}
	codec, ok := entry.Find(ebml.IDCodecID)
	if !ok {
		return Track{}, false
	}
	id := codec.Text()
	if !strings.HasPrefix(strings.ToUpper(id), codecPrefix) {
		return Track{}, false
	}
	num, ok := entry.Find(ebml.IDTrackNumber)
	if !ok {
		return Track{}, false
	}

	track := Track{
		Number: num.Uint(),
		Type:   strings.ToLower(id[len(codecPrefix):]),
	}
	if name, ok := entry.Find(ebml.IDName); ok {
		track.Name = name.Text()
	}
	if lang, ok := entry.Find(ebml.IDLanguage); ok {
		track.Language = lang.Text()
	}
	if private, ok := entry.Find(ebml.IDCodecPrivate); ok {
		track.Header = string(private.Data)
	}
	track.Compressed = hasCompression(entry)
	return track, true
}

// hasCompression reports whether the entry declares a content-compression
// encoding. Only the structure is checked; the scheme is always deflate.
func hasCompression(entry ebml.Element) bool {
	encodings, ok := entry.Find(ebml.IDContentEncodings)
	if !ok {
		return false
	}
	for _, enc := range encodings.FindAll(ebml.IDContentEncoding) {
		if _, ok := enc.Find(ebml.IDContentCompression); ok {
			return true
		}
	}
	return false
}
