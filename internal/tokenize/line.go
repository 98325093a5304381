package tokenize

import "strings"

// SplitLines splits text into lines on "\n" without any CRLF
// normalization: a "\r" immediately before a newline stays attached to
// the preceding line, since the diff core's line identity is defined by
// exact byte content.
//
// Unlike strings.Split, a trailing "\n" does not produce a synthetic
// empty trailing line: "a\nb\n" yields exactly ["a", "b"], not
// ["a", "b", ""]. The empty string yields zero lines. A "\n" in the
// interior of the text still produces a real empty line, e.g. "a\n\n"
// yields ["a", ""].
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}
