package matroska

import "strings"

// Cue is one subtitle entry with absolute times in milliseconds. Content
// holds the fully rendered, format-specific cue block. For SSA/ASS tracks
// the dialogue fields are also broken out; Duration is NaN when the source
// block carried no BlockDuration.
type Cue struct {
	Time     float64
	Duration float64
	Text     string
	Content  string

	Layer   string
	Style   string
	Name    string
	MarginL string
	MarginR string
	MarginV string
	Effect  string
}

// synthesizeCue renders the cue for a decoded block payload.
//
// The SSA/ASS dialogue field order is readOrder, layer, style, name,
// marginL, marginR, marginV, effect, text. SSA payloads start assignment at
// style, ASS at layer; the cue text is everything from the ninth field on,
// rejoined so embedded commas survive. The rendered Dialogue line reuses
// the split fragments verbatim, swapping only the relative-time fields for
// absolute timestamps.
func synthesizeCue(track Track, text string, start, duration float64) Cue {
	cue := Cue{Time: start, Duration: duration, Text: text}

	switch track.Type {
	case "ssa", "ass":
		fields := strings.Split(text, ",")
		first := 1
		if track.Type == "ssa" {
			first = 2
		}
		for i := first; i <= 7 && i < len(fields); i++ {
			switch i {
			case 1:
				cue.Layer = fields[1]
			case 2:
				cue.Style = fields[2]
			case 3:
				cue.Name = fields[3]
			case 4:
				cue.MarginL = fields[4]
			case 5:
				cue.MarginR = fields[5]
			case 6:
				cue.MarginV = fields[6]
			case 7:
				cue.Effect = fields[7]
			}
		}
		cue.Text = ""
		if len(fields) > 8 {
			cue.Text = strings.Join(fields[8:], ",")
		}

		marked := "Marked=0"
		if track.Type == "ass" && len(fields) > 1 {
			marked = fields[1]
		}
		tail := ""
		if len(fields) > 2 {
			tail = strings.Join(fields[2:], ",")
		}
		begin := formatTimestamp(start, true, false)
		end := formatTimestamp(start+duration, true, false)
		cue.Content = "Dialogue: " + marked + "," + begin + "," + end + "," + tail

	case "utf8":
		cue.Content = formatTimestamp(start, false, true) +
			" --> " + formatTimestamp(start+duration, false, true) +
			"\n" + text + "\n"

	case "webvtt":
		cue.Content = formatTimestamp(start, false, false) +
			" --> " + formatTimestamp(start+duration, false, false) +
			"\n" + text + "\n"

	default:
		cue.Content = text
	}
	return cue
}
