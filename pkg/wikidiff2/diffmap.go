package wikidiff2

import "github.com/wmde/wikidiff2/internal/diffengine"

// diffMapEntry is a memoized word-level diff between a deleted line and an
// added line, along with the per-op word-token counts used to judge how
// similar the pair is.
type diffMapEntry struct {
	script      diffengine.Script[string]
	copyCount   int
	delCount    int
	addCount    int
	changeCount int
	similarity  float64

	opIndexFrom, opLineFrom int // coordinates of the del-side line
	opIndexTo, opLineTo     int // coordinates of the add-side line
}

// newDiffMapEntry tokenizes both lines, runs the word-level diff, and
// computes the similarity scalar: the fraction of word-token counts
// classified copy, or 0 if nothing at all was copied.
func newDiffMapEntry(fromLine, toLine string, opIndexFrom, opLineFrom, opIndexTo, opLineTo int) *diffMapEntry {
	words1 := tokenizeWords(fromLine)
	words2 := tokenizeWords(toLine)
	script := diffengine.Diff(words1, words2, diffengine.DefaultMaxComplexity)

	e := &diffMapEntry{
		script:      script,
		opIndexFrom: opIndexFrom,
		opLineFrom:  opLineFrom,
		opIndexTo:   opIndexTo,
		opLineTo:    opLineTo,
	}

	var total int
	for _, op := range script {
		var n int
		switch op.Kind {
		case diffengine.Del, diffengine.Copy:
			n = len(op.A)
		case diffengine.Add:
			n = len(op.B)
		case diffengine.Change:
			n = max(len(op.A), len(op.B))
		}
		total += n
		switch op.Kind {
		case diffengine.Copy:
			e.copyCount += n
		case diffengine.Del:
			e.delCount += n
		case diffengine.Add:
			e.addCount += n
		case diffengine.Change:
			e.changeCount += n
		}
	}

	if e.copyCount == 0 {
		e.similarity = 0
	} else if total > 0 {
		e.similarity = float64(e.copyCount) / float64(total)
	}

	return e
}

// diffMap is the memoization table keyed by (opIndex<<32)|opLine. Matched
// pairs are stored under both endpoints' own keys, so a lookup from either
// side of a moved-line pair hits the cache.
type diffMap struct {
	entries map[uint64]*diffMapEntry
}

func newDiffMap() *diffMap {
	return &diffMap{entries: make(map[uint64]*diffMapEntry)}
}

func moveKey(opIndex, opLine int) uint64 {
	return uint64(uint32(opIndex))<<32 | uint64(uint32(opLine))
}

func (m *diffMap) lookup(opIndex, opLine int) (*diffMapEntry, bool) {
	e, ok := m.entries[moveKey(opIndex, opLine)]
	return e, ok
}

// store records e under both of its true endpoint keys, so a later lookup
// from either side of the pair hits the cache instead of rescanning.
func (m *diffMap) store(e *diffMapEntry) {
	m.entries[moveKey(e.opIndexFrom, e.opLineFrom)] = e
	m.entries[moveKey(e.opIndexTo, e.opLineTo)] = e
}
