// Package wikidiff2 computes a three-level (line, word, moved-line) diff
// between two UTF-8 texts and renders it as an HTML table, the way
// MediaWiki's diff viewer does.
package wikidiff2

import (
	"github.com/wmde/wikidiff2/internal/diffengine"
	"github.com/wmde/wikidiff2/internal/tokenize"
)

// Execute diffs text1 against text2 and returns the rendered HTML table.
// numContextLines controls how many unchanged lines surround each change;
// numContextLines must be >= 0.
func Execute(text1, text2 string, numContextLines int) string {
	lines1 := tokenize.SplitLines(text1)
	lines2 := tokenize.SplitLines(text2)

	lineScript := diffengine.Diff(lines1, lines2, -1)

	r := newTableRenderer(len(text1) + len(text2) + 10000)
	diffLines(lineScript, numContextLines, r)
	return r.String()
}

// diffLines walks the line-level script in order, dispatching each op to
// the renderer and keeping the two 1-based line counters the block headers
// report.
func diffLines(script diffengine.Script[string], numContextLines int, r renderer) {
	dm := newDiffMap()
	fromIndex, toIndex := 1, 1
	showLineNumber := true

	for i, op := range script {
		if op.Kind != diffengine.Copy && i == 0 {
			r.emitBlockHeader(1, 1)
		}

		switch op.Kind {
		case diffengine.Add:
			n := len(op.B)
			for j := 0; j < n; j++ {
				if !findMoved(script, i, j, dm, r) {
					r.emitAdd(op.B[j])
				}
			}
			toIndex += n

		case diffengine.Del:
			n := len(op.A)
			for j := 0; j < n; j++ {
				if !findMoved(script, i, j, dm, r) {
					r.emitDelete(op.A[j])
				}
			}
			fromIndex += n

		case diffengine.Copy:
			n := len(op.A)
			for j := 0; j < n; j++ {
				// Trailing context after the previous change, or leading
				// context before the next one; interior lines of a long
				// copy run are skipped.
				afterPriorChange := i != 0 && j < numContextLines
				beforeNextChange := i != len(script)-1 && j >= n-numContextLines
				if afterPriorChange || beforeNextChange {
					if showLineNumber {
						r.emitBlockHeader(fromIndex, toIndex)
						showLineNumber = false
					}
					r.emitContext(op.A[j])
				} else {
					showLineNumber = true
				}
				fromIndex++
				toIndex++
			}

		case diffengine.Change:
			n1, n2 := len(op.A), len(op.B)
			n := n1
			if n2 < n {
				n = n2
			}
			for j := 0; j < n; j++ {
				r.emitWordDiff(op.A[j], op.B[j], true, true)
			}
			fromIndex += n
			toIndex += n
			if n1 > n2 {
				for j := n2; j < n1; j++ {
					r.emitDelete(op.A[j])
				}
				fromIndex += n1 - n
			} else {
				for j := n1; j < n2; j++ {
					r.emitAdd(op.B[j])
				}
				toIndex += n2 - n
			}
		}

		showLineNumber = false
	}
}
