package subtitle

import (
	"fmt"
	"strings"

	"github.com/mgpai22/mkvsub/internal/matroska"
)

// file extension matching a track's codec subtype
func ExtensionForTrack(trackType string) string {
	switch trackType {
	case "utf8":
		return ".srt"
	case "webvtt":
		return ".vtt"
	case "ass":
		return ".ass"
	case "ssa":
		return ".ssa"
	default:
		return ".txt"
	}
}

// Assemble renders collected cues as a complete subtitle document in the
// track's native format. ASS and SSA documents reuse the track header
// verbatim, so styles survive the round trip.
func Assemble(track matroska.Track, cues []matroska.Cue) string {
	var sb strings.Builder

	switch track.Type {
	case "ass", "ssa":
		if track.Header != "" {
			sb.WriteString(strings.TrimRight(track.Header, " \t\r\n"))
			sb.WriteString("\n")
		}
		for _, cue := range cues {
			sb.WriteString(cue.Content)
			sb.WriteString("\n")
		}
	case "webvtt":
		sb.WriteString("WEBVTT\n\n")
		writeNumberedBlocks(&sb, cues)
	case "utf8":
		writeNumberedBlocks(&sb, cues)
	default:
		for _, cue := range cues {
			sb.WriteString(cue.Content)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func writeNumberedBlocks(sb *strings.Builder, cues []matroska.Cue) {
	for i, cue := range cues {
		fmt.Fprintf(sb, "%d\n%s\n", i+1, cue.Content)
	}
}
