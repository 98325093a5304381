package wordclass

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLetter(t *testing.T) {
	assert.True(t, IsLetter('a'))
	assert.True(t, IsLetter('Z'))
	assert.True(t, IsLetter('5'))
	assert.True(t, IsLetter('_'))
	assert.False(t, IsLetter(' '))
	assert.False(t, IsLetter('.'))
	assert.False(t, IsLetter(','))

	// CJK: each code point is its own word, so not a "letter" for runs.
	assert.False(t, IsLetter('日'))
	assert.False(t, IsLetter('本'))
	assert.False(t, IsLetter(rune(0x20000)))

	// Other scripts that use spaces between words (e.g. Latin-1+) are
	// treated as letters so maximal munch still groups them.
	assert.True(t, IsLetter('é'))
	assert.True(t, IsLetter('ñ'))
}

func TestIsSpace(t *testing.T) {
	assert.True(t, IsSpace(' '))
	assert.True(t, IsSpace('\t'))
	assert.False(t, IsSpace('\n'))
	assert.False(t, IsSpace('a'))
}
