package wikidiff2

import (
	"strings"

	"github.com/wmde/wikidiff2/internal/diffengine"
	"github.com/wmde/wikidiff2/internal/tokenize"
)

// renderer is the capability set the orchestrator drives: one emit
// operation per row shape. tableRenderer is the only implementation this
// package ships; an inline (non-table) renderer would satisfy the same
// interface without touching the orchestrator.
type renderer interface {
	emitAdd(line string)
	emitDelete(line string)
	emitContext(line string)
	emitBlockHeader(fromLine, toLine int)
	// emitWordDiff renders a word-level diff row between left and right.
	// printLeft/printRight control which side actually renders word-diff
	// markup — both true for an ordinary change row, exactly one true for
	// a moved-line row, where the other side's cell stays empty.
	emitWordDiff(left, right string, printLeft, printRight bool)
	String() string
}

// tableRenderer emits the 4-column HTML table: one row per add/delete/
// context/block-header/word-diff emission, each with a fixed cell layout.
type tableRenderer struct {
	b strings.Builder
}

func newTableRenderer(sizeHint int) *tableRenderer {
	r := &tableRenderer{}
	r.b.Grow(sizeHint)
	return r
}

func (r *tableRenderer) String() string { return r.b.String() }

func (r *tableRenderer) emitAdd(line string) {
	r.b.WriteString("<tr>\n" +
		"  <td colspan=\"2\" class=\"diff-empty\">&#160;</td>\n" +
		"  <td class=\"diff-marker\">+</td>\n" +
		"  <td class=\"diff-addedline\">")
	r.writeTextWithDiv(line)
	r.b.WriteString("</td>\n</tr>\n")
}

func (r *tableRenderer) emitDelete(line string) {
	r.b.WriteString("<tr>\n" +
		"  <td class=\"diff-marker\">−</td>\n" +
		"  <td class=\"diff-deletedline\">")
	r.writeTextWithDiv(line)
	r.b.WriteString("</td>\n" +
		"  <td colspan=\"2\" class=\"diff-empty\">&#160;</td>\n" +
		"</tr>\n")
}

func (r *tableRenderer) emitContext(line string) {
	r.b.WriteString("<tr>\n" +
		"  <td class=\"diff-marker\">&#160;</td>\n" +
		"  <td class=\"diff-context\">")
	r.writeTextWithDiv(line)
	r.b.WriteString("</td>\n" +
		"  <td class=\"diff-marker\">&#160;</td>\n" +
		"  <td class=\"diff-context\">")
	r.writeTextWithDiv(line)
	r.b.WriteString("</td>\n</tr>\n")
}

func (r *tableRenderer) emitBlockHeader(fromLine, toLine int) {
	r.b.WriteString("<tr>\n" +
		"  <td colspan=\"2\" class=\"diff-lineno\"><!--LINE ")
	writeInt(&r.b, fromLine)
	r.b.WriteString("--></td>\n" +
		"  <td colspan=\"2\" class=\"diff-lineno\"><!--LINE ")
	writeInt(&r.b, toLine)
	r.b.WriteString("--></td>\n</tr>\n")
}

func (r *tableRenderer) emitWordDiff(left, right string, printLeft, printRight bool) {
	leftWords := tokenizeWords(left)
	rightWords := tokenizeWords(right)
	script := diffengine.Diff(leftWords, rightWords, diffengine.DefaultMaxComplexity)

	r.b.WriteString("<tr>\n" +
		"  <td class=\"diff-marker\">−</td>\n" +
		"  <td class=\"diff-deletedline\"><div>")
	if printLeft {
		r.writeWordDiffSide(script, false)
	}
	r.b.WriteString("</div></td>\n" +
		"  <td class=\"diff-marker\">+</td>\n" +
		"  <td class=\"diff-addedline\"><div>")
	if printRight {
		r.writeWordDiffSide(script, true)
	}
	r.b.WriteString("</div></td>\n</tr>\n")
}

// writeWordDiffSide walks a word-level script, emitting one side's markup:
// right (added==true) or left (added==false).
func (r *tableRenderer) writeWordDiffSide(script diffengine.Script[string], added bool) {
	for _, op := range script {
		switch {
		case op.Kind == diffengine.Copy:
			words := op.A
			for _, w := range words {
				r.b.WriteString(escapeText(w))
			}
		case !added && (op.Kind == diffengine.Del || op.Kind == diffengine.Change):
			r.b.WriteString(`<del class="diffchange diffchange-inline">`)
			for _, w := range op.A {
				r.b.WriteString(escapeText(w))
			}
			r.b.WriteString("</del>")
		case added && (op.Kind == diffengine.Add || op.Kind == diffengine.Change):
			r.b.WriteString(`<ins class="diffchange diffchange-inline">`)
			for _, w := range op.B {
				r.b.WriteString(escapeText(w))
			}
			r.b.WriteString("</ins>")
		}
	}
}

func (r *tableRenderer) writeTextWithDiv(line string) {
	if line == "" {
		return
	}
	r.b.WriteString("<div>")
	r.b.WriteString(escapeText(line))
	r.b.WriteString("</div>")
}

func writeInt(b *strings.Builder, n int) {
	if n < 0 {
		b.WriteByte('-')
		n = -n
	}
	if n >= 10 {
		writeInt(b, n/10)
	}
	b.WriteByte(byte('0' + n%10))
}

// tokenizeWords splits a line into the string content of its word tokens,
// which is all the word-level diff and renderer ever need: diff equality
// is defined purely on a token's "whole" byte content.
func tokenizeWords(line string) []string {
	words := tokenize.Tokenize(line)
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Whole(line)
	}
	return out
}
