package sms

import "github.com/OliverSchlueter/smsgate/internal/gsm"

const DefaultMaxUnits = 140

func isSeparator(r rune) bool {
	switch r {
	case '-', '\t', '\n', ' ':
		return true
	}
	return false
}

// Split cuts text into segments of at most maxUnits default-alphabet units.
// A segment preferably ends right after the last separator that fits;
// without one it is cut hard at the limit. Characters that encode as an
// escape pair are never divided.
func Split(text string, maxUnits int) []string {
	if maxUnits <= 0 {
		maxUnits = DefaultMaxUnits
	}

	runes := []rune(text)
	var segments []string

	start := 0
	for start < len(runes) {
		end := start
		units := 0
		for end < len(runes) {
			cost := gsm.RuneUnits(runes[end])
			if units+cost > maxUnits {
				break
			}
			units += cost
			end++
		}

		// a single character wider than the limit still has to go somewhere
		if end == start {
			end = start + 1
		}

		if end < len(runes) {
			for i := end - 1; i > start; i-- {
				if isSeparator(runes[i]) {
					end = i + 1
					break
				}
			}
		}

		segments = append(segments, string(runes[start:end]))
		start = end
	}

	return segments
}

// Units reports the encoded size of text.
func Units(text string) int {
	n := 0
	for _, r := range text {
		n += gsm.RuneUnits(r)
	}
	return n
}
