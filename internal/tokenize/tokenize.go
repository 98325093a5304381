package tokenize

import (
	"github.com/wmde/wikidiff2/internal/thaibreak"
	"github.com/wmde/wikidiff2/internal/utf8dec"
	"github.com/wmde/wikidiff2/internal/wordclass"
)

// Tokenize splits a single line of text into Word tokens, following the
// script-aware break rules described by the tokenizer component: Latin/
// ASCII runs break on letter/non-letter transitions, CJK code points each
// become their own token, and if the line contains any Thai code points
// the dictionary-based Thai segmenter's breaks are unioned in.
//
// The returned words are contiguous and cover the whole input: for any i,
// words[i].End == words[i+1].Start, words[0].Start == 0, and the last
// word's End == len(text).
func Tokenize(text string) []Word {
	var offsets []int
	var chars []rune
	var letters []bool
	var tis []byte
	hasThai := false

	for p := 0; p < len(text); {
		ch, next := utf8dec.Next(text, p)
		offsets = append(offsets, p)
		chars = append(chars, ch)
		letters = append(letters, wordclass.IsLetter(ch))

		t := thaibreak.UniToTIS(ch)
		switch {
		case t == thaibreak.ErrChar:
			tis = append(tis, 0)
		default:
			tis = append(tis, byte(t))
			if t >= 0x80 {
				hasThai = true
			}
		}
		p = next
	}
	n := len(offsets)
	offsets = append(offsets, len(text))

	breaks := make(map[int]bool, n/2+1)
	for i := 0; i < n; i++ {
		if !letters[i] {
			breaks[i] = true
		} else if i > 0 && !letters[i-1] {
			breaks[i] = true
		}
	}

	if hasThai {
		for _, b := range thaibreak.Break(tis) {
			if b <= n {
				breaks[b] = true
			}
		}
	}

	breaks[n] = true

	var words []Word
	wordStart := 0
	const suffixAbsent = -1
	suffixStart := suffixAbsent

	for charIndex := 0; charIndex <= n; charIndex++ {
		p := offsets[charIndex]
		isSpace := charIndex < n && wordclass.IsSpace(chars[charIndex])

		if isSpace && suffixStart == suffixAbsent {
			// First whitespace of a run; the run becomes the trailing
			// suffix of the word being built.
			suffixStart = p
		}

		if !breaks[charIndex] {
			continue
		}
		if charIndex == 0 {
			// A break at the very start of the line emits nothing; the
			// first word absorbs everything up to the next break.
			continue
		}
		if isSpace {
			// Whitespace never starts a word of its own: a break landing
			// on a space extends the current word's suffix instead, and
			// the word is emitted at the break after the run.
			continue
		}

		brk := p
		if suffixStart != suffixAbsent {
			brk = suffixStart
		}
		words = append(words, Word{Start: wordStart, Break: brk, End: p})
		suffixStart = suffixAbsent
		wordStart = p
	}

	return words
}
