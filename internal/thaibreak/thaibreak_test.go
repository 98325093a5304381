package thaibreak

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniToTISASCII(t *testing.T) {
	assert.Equal(t, int('A'), UniToTIS('A'))
}

func TestUniToTISThai(t *testing.T) {
	// ก (KO KAI, U+0E01) is the first character of the Thai block and
	// maps to TIS-620 0xA1.
	assert.Equal(t, 0xa1, UniToTIS('ก'))
}

func TestUniToTISOutOfRange(t *testing.T) {
	assert.Equal(t, ErrChar, UniToTIS('日'))
}

func tisOf(t *testing.T, s string) []byte {
	t.Helper()
	var buf []byte
	for _, r := range s {
		tis := UniToTIS(r)
		assert.NotEqual(t, ErrChar, tis)
		buf = append(buf, byte(tis))
	}
	return buf
}

func TestBreakDictionaryMatch(t *testing.T) {
	buf := tisOf(t, "ผมไป")
	breaks := Break(buf)
	// "ผม" (2 chars) then "ไป" (2 chars): expect a break after position 2.
	assert.Contains(t, breaks, 2)
}

func TestBreakFallsBackToSingleChar(t *testing.T) {
	// An unrecognized run still produces a break after every character.
	buf := tisOf(t, "กขค")
	breaks := Break(buf)
	assert.Equal(t, []int{1, 2}, breaks)
}

func TestBreakNeverIncludesEndpoints(t *testing.T) {
	buf := tisOf(t, "ผม")
	breaks := Break(buf)
	for _, b := range breaks {
		assert.NotEqual(t, 0, b)
		assert.NotEqual(t, len(buf), b)
	}
}
