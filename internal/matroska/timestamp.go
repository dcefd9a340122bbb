package matroska

import (
	"fmt"
	"math"
)

// formatTimestamp renders milliseconds as hh:mm:ss<sep>frac. ASS style
// means an unpadded hour and two centisecond digits; otherwise the hour is
// padded to two digits and the fraction is three millisecond digits.
// Non-finite or negative input clamps to zero so callers always get a
// well-formed string.
func formatTimestamp(ms float64, assStyle, commaDecimal bool) string {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < 0 {
		ms = 0
	}
	total := int64(ms)
	hh := total / 3_600_000
	mm := total / 60_000 % 60
	ss := total / 1_000 % 60

	sep := "."
	if commaDecimal {
		sep = ","
	}
	if assStyle {
		return fmt.Sprintf("%d:%02d:%02d%s%02d", hh, mm, ss, sep, total%1_000/10)
	}
	return fmt.Sprintf("%02d:%02d:%02d%s%03d", hh, mm, ss, sep, total%1_000)
}
