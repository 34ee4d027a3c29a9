// Package textsafe reduces free text to the printable ASCII subset accepted by
// the PDF core fonts and the plain-text parts of outgoing mail.
package textsafe

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	spaceRun      = regexp.MustCompile(`[ \t]+`)
	blankLineRun  = regexp.MustCompile(`\n{3,}`)
	accentFolding = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// emojiRanges lists the code point blocks removed before the ASCII filter so
// that joiners and variation selectors never leave partial sequences behind.
var emojiRanges = []struct{ lo, hi rune }{
	{0x1F000, 0x1FAFF},
	{0x2600, 0x27BF},
	{0x2300, 0x23FF},
	{0x2B00, 0x2BFF},
	{0xFE00, 0xFE0F},
	{0x200D, 0x200D},
	{0x20E3, 0x20E3},
	{0xE0020, 0xE007F},
}

func isEmoji(r rune) bool {
	for _, rg := range emojiRanges {
		if r >= rg.lo && r <= rg.hi {
			return true
		}
	}
	return false
}

// Sanitize removes emoji, folds accented letters to their ASCII base, drops
// every remaining rune outside printable ASCII (keeping tab, newline and
// carriage return), collapses runs of spaces and allows at most one blank
// line in a row. Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(s string) string {
	if s == "" {
		return ""
	}

	s = strings.Map(func(r rune) rune {
		if isEmoji(r) {
			return -1
		}
		return r
	}, s)

	if folded, _, err := transform.String(accentFolding, s); err == nil {
		s = folded
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t' || r == '\r':
			return r
		case r >= 0x20 && r <= 0x7E:
			return r
		default:
			return -1
		}
	}, s)

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	}
	s = strings.Join(lines, "\n")
	s = blankLineRun.ReplaceAllString(s, "\n\n")

	return strings.TrimSpace(s)
}

// Line sanitizes s and flattens it to a single line, for labels and headers.
func Line(s string) string {
	s = Sanitize(s)
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(s), " ")
}
