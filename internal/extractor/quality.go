package extractor

import (
	"strings"
	"unicode"
)

// readableThreshold is the share of plain characters below which text is
// treated as undecodable (e.g. identity-encoded fonts with no ToUnicode map).
const readableThreshold = 0.6

// TextQuality returns the ratio of basic ASCII readable characters (letters,
// digits, common punctuation, whitespace) to total characters, 0.0-1.0.
// unicode.IsLetter is deliberately not used: it accepts the accented glyphs
// that garbage from identity-encoded fonts is made of.
func TextQuality(lines []string) float64 {
	total := 0
	readable := 0
	for _, line := range lines {
		for _, r := range line {
			total++
			if isReadableRune(r) {
				readable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(readable) / float64(total)
}

func isReadableRune(r rune) bool {
	if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || unicode.IsSpace(r) {
		return true
	}
	return strings.ContainsRune(".,-/:;()'\"£$€%&@#!?+=*", r)
}

// IsReadableText reports whether extracted lines look like real text
// rather than mis-decoded glyph codes.
func IsReadableText(lines []string) bool {
	return TextQuality(lines) > readableThreshold
}
