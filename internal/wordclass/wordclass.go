// Package wordclass classifies decoded code points for tokenization.
package wordclass

// IsLetter reports whether ch should be treated as part of a "word" run
// for the purposes of Latin-style maximal-munch tokenization.
//
// ASCII alphanumerics and underscore are letters. Punctuation and control
// characters below 0xC0 are not. CJK ranges are explicitly excluded so that
// each CJK code point becomes its own token later on. Everything else
// (characters from scripts that use spaces between words, e.g. Latin-1
// supplement and beyond) is treated as a letter.
func IsLetter(ch rune) bool {
	switch {
	case ch >= '0' && ch <= '9', ch == '_', ch >= 'A' && ch <= 'Z', ch >= 'a' && ch <= 'z':
		return true
	case ch < 0xc0:
		return false
	case ch >= 0x3000 && ch <= 0x9fff:
		return false
	case ch >= 0x20000 && ch <= 0x2a000:
		return false
	default:
		return true
	}
}

// IsSpace reports whether ch is an ASCII space or tab. Only these two are
// considered whitespace for the purposes of trailing-suffix tracking; other
// Unicode whitespace is just another non-letter break point.
func IsSpace(ch rune) bool {
	return ch == ' ' || ch == '\t'
}
