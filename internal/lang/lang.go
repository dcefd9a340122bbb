package lang

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ISO 639-2 bibliographic codes mapped to the terminology codes that
// golang.org/x/text understands. Matroska muxers emit either form.
var bibliographic = map[string]string{
	"alb": "sqi",
	"arm": "hye",
	"baq": "eus",
	"bur": "mya",
	"chi": "zho",
	"cze": "ces",
	"dut": "nld",
	"fre": "fra",
	"geo": "kat",
	"ger": "deu",
	"gre": "ell",
	"ice": "isl",
	"mac": "mkd",
	"mao": "mri",
	"may": "msa",
	"per": "fas",
	"rum": "ron",
	"slo": "slk",
	"tib": "bod",
	"wel": "cym",
}

// Normalize lowercases a Matroska language value and converts
// bibliographic codes to their terminology form.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if term, ok := bibliographic[code]; ok {
		return term
	}
	return code
}

// DisplayName renders an English display name for a Matroska language
// value. Empty and undetermined values come back as "Undetermined";
// unparseable values come back unchanged.
func DisplayName(code string) string {
	code = Normalize(code)
	if code == "" || code == "und" {
		return "Undetermined"
	}

	tag, err := language.Parse(code)
	if err != nil {
		return code
	}

	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
