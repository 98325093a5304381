package wikidiff2

import "strings"

// escapeText HTML-escapes the three bytes that matter for well-formed
// output inside a table cell: '<', '>' and '&'. Nothing else is touched —
// scanning byte-by-byte (rather than decoding runes) means a malformed
// UTF-8 sequence in the input is passed through unchanged instead of being
// replaced by U+FFFD, matching the tolerant decoder used elsewhere: the
// output is visually garbled on bad input, never re-encoded.
func escapeText(s string) string {
	if !strings.ContainsAny(s, "<>&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	start := 0
	for i := 0; i < len(s); i++ {
		var esc string
		switch s[i] {
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '&':
			esc = "&amp;"
		default:
			continue
		}
		b.WriteString(s[start:i])
		b.WriteString(esc)
		start = i + 1
	}
	b.WriteString(s[start:])
	return b.String()
}
