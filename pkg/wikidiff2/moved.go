package wikidiff2

import "github.com/wmde/wikidiff2/internal/diffengine"

// moveThreshold is the fixed policy constant below which a candidate
// moved-line pair is not considered similar enough to render as a move.
const moveThreshold = 0.25

// findMoved implements the moved-line lookup/search contract: it either
// hits the memoized diffMap for (opIndex, opLine), or scans every line on
// the opposite op kind for the best-similarity candidate. On a hit or a
// sufficiently similar find, it renders the one-sided word-diff row and
// reports true; otherwise it reports false and the caller falls back to a
// plain add/delete row.
func findMoved(script diffengine.Script[string], opIndex, opLine int, dm *diffMap, r renderer) bool {
	if e, ok := dm.lookup(opIndex, opLine); ok {
		printLeft := script[opIndex].Kind == diffengine.Del
		printRight := !printLeft
		r.emitWordDiff(script[e.opIndexFrom].A[e.opLineFrom], script[e.opIndexTo].B[e.opLineTo], printLeft, printRight)
		return true
	}

	op := script[opIndex]
	wantOpposite := diffengine.Add
	if op.Kind == diffengine.Add {
		wantOpposite = diffengine.Del
	}

	var currentLine string
	if op.Kind == diffengine.Add {
		currentLine = op.B[opLine]
	} else {
		currentLine = op.A[opLine]
	}

	var best *diffMapEntry
	for i, candidate := range script {
		if candidate.Kind != wantOpposite {
			continue
		}
		var lines []string
		if wantOpposite == diffengine.Del {
			lines = candidate.A
		} else {
			lines = candidate.B
		}
		for k, line := range lines {
			var tmp *diffMapEntry
			if wantOpposite == diffengine.Del {
				// current op is add: candidate is the del side.
				tmp = newDiffMapEntry(line, currentLine, i, k, opIndex, opLine)
			} else {
				// current op is del: candidate is the add side.
				tmp = newDiffMapEntry(currentLine, line, opIndex, opLine, i, k)
			}
			if best == nil || tmp.similarity > best.similarity {
				best = tmp
			}
		}
	}

	if best == nil || best.similarity <= moveThreshold {
		return false
	}

	dm.store(best)

	printLeft := op.Kind == diffengine.Del
	printRight := !printLeft
	r.emitWordDiff(script[best.opIndexFrom].A[best.opLineFrom], script[best.opIndexTo].B[best.opLineTo], printLeft, printRight)
	return true
}
