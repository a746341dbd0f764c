package transcript

import "fmt"

// Timecode converts a seconds offset into an "HH:MM:SS" string.
// Sub-second precision is truncated. Hours do not wrap at 24 and grow past
// two digits when needed. Negative input is clamped to zero.
func Timecode(seconds float64) string {
	total := int(seconds)
	if total < 0 {
		total = 0
	}

	minutes, secs := total/60, total%60
	hours, minutes := minutes/60, minutes%60

	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
