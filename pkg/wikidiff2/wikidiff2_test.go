package wikidiff2

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wmde/wikidiff2/internal/diffengine"
)

func TestExecuteIdentityProducesNoChangeMarkers(t *testing.T) {
	for _, text := range []string{
		"",
		"a\nb\nc\n",
		"the quick brown fox\njumps over\nthe lazy dog\n",
	} {
		out := Execute(text, text, 2)
		assert.NotContains(t, out, "<ins")
		assert.NotContains(t, out, "<del")
		assert.NotContains(t, out, "diff-marker\">+")
		assert.NotContains(t, out, "diff-marker\">−")
	}
}

func TestExecuteEscapesSpecialCharacters(t *testing.T) {
	out := Execute("", "a <b> & c\n", 0)
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;b&gt;")
	assert.Contains(t, out, "&amp;")
}

func TestExecuteS1PureAdd(t *testing.T) {
	out := Execute("", "hello\n", 0)
	assert.Equal(t, 1, strings.Count(out, "diff-addedline"))
	assert.Contains(t, out, "<div>hello</div>")
	assert.Contains(t, out, "<!--LINE 1-->")
	assert.NotContains(t, out, "diff-deletedline\"><div>")
}

func TestExecuteS2PureDelete(t *testing.T) {
	out := Execute("a\nb\n", "a\n", 1)
	assert.Contains(t, out, "<!--LINE")
	assert.Contains(t, out, "<div>a</div>")
	assert.Equal(t, 1, strings.Count(out, "diff-deletedline\">"))
	assert.Contains(t, out, "<div>b</div>")

	// a trailing "\n" must not synthesize a phantom empty line: exactly
	// one block header, one context row ("a") and one delete row ("b"),
	// no extra row for an empty line that doesn't exist in either input.
	assert.Equal(t, 2, strings.Count(out, "diff-context\">"))
	assert.Equal(t, 3, strings.Count(out, "<tr>"))
}

func TestExecuteS3WordChange(t *testing.T) {
	out := Execute("the quick fox", "the slow fox", 0)
	assert.Contains(t, out, `<del class="diffchange diffchange-inline">quick </del>`)
	assert.Contains(t, out, `<ins class="diffchange diffchange-inline">slow </ins>`)
}

func TestExecuteS4CJKPerCharacter(t *testing.T) {
	out := Execute("日本語", "日米語", 0)
	assert.Contains(t, out, `<del class="diffchange diffchange-inline">本</del>`)
	assert.Contains(t, out, `<ins class="diffchange diffchange-inline">米</ins>`)
}

func TestExecuteS5MovedLine(t *testing.T) {
	out := Execute("A\nfoo bar baz\nB\n", "A\nB\nfoo bar baz\n", 0)

	// Both occurrences render as one-sided word-diff rows: one with an
	// empty right cell, one with an empty left cell. No plain add or
	// delete row exists anywhere (those carry a diff-empty filler cell).
	assert.NotContains(t, out, "diff-empty")
	assert.Contains(t, out, "diff-deletedline\"><div>foo bar baz</div>")
	assert.Contains(t, out, "diff-addedline\"><div>foo bar baz</div>")
	assert.Contains(t, out, "diff-addedline\"><div></div>")
	assert.Contains(t, out, "diff-deletedline\"><div></div>")
}

func TestFindMovedSecondVisitHitsCache(t *testing.T) {
	lines1 := []string{"A", "foo bar baz", "B"}
	lines2 := []string{"A", "B", "foo bar baz"}
	script := diffengine.Diff(lines1, lines2, -1)

	var delAt, addAt [2]int
	found := false
	for i, op := range script {
		switch op.Kind {
		case diffengine.Del:
			delAt = [2]int{i, 0}
			found = true
		case diffengine.Add:
			addAt = [2]int{i, 0}
		}
	}
	require.True(t, found)

	dm := newDiffMap()
	r := newTableRenderer(0)
	require.True(t, findMoved(script, delAt[0], delAt[1], dm, r))

	// The first visit must have stored the entry under both endpoints, so
	// the partner side's visit is a cache hit sharing the same entry.
	first, ok := dm.lookup(delAt[0], delAt[1])
	require.True(t, ok)
	second, ok := dm.lookup(addAt[0], addAt[1])
	require.True(t, ok)
	assert.Same(t, first, second)

	require.True(t, findMoved(script, addAt[0], addAt[1], dm, r))
	assert.Len(t, dm.entries, 2)
}

func TestExecuteS6MoveBelowThresholdStaysUnlinked(t *testing.T) {
	out := Execute("A\nhello world\nB", "A\nB\ntotally unrelated", 0)

	assert.Contains(t, out, "diff-deletedline\"><div>hello world</div>")
	assert.Contains(t, out, "diff-addedline\"><div>totally unrelated</div>")
}

func TestDiffMapKeyIsDeterministicAndOrderSensitive(t *testing.T) {
	k1 := moveKey(3, 7)
	k2 := moveKey(3, 7)
	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, moveKey(7, 3))
}

func TestDiffMapStoresUnderBothEndpoints(t *testing.T) {
	dm := newDiffMap()
	e := newDiffMapEntry("foo", "foo", 2, 5, 9, 1)
	dm.store(e)

	got, ok := dm.lookup(2, 5)
	assert.True(t, ok)
	assert.Same(t, e, got)

	got, ok = dm.lookup(9, 1)
	assert.True(t, ok)
	assert.Same(t, e, got)
}

func TestDiffMapEntrySimilarityIdenticalLinesIsOne(t *testing.T) {
	e := newDiffMapEntry("foo bar baz", "foo bar baz", 0, 0, 1, 0)
	assert.Equal(t, 1.0, e.similarity)
}

func TestDiffMapEntrySimilarityUnrelatedLinesIsLow(t *testing.T) {
	e := newDiffMapEntry("hello world", "totally unrelated text", 0, 0, 1, 0)
	assert.Less(t, e.similarity, moveThreshold)
}

func TestDiffMapEntryNoCopyIsZeroSimilarity(t *testing.T) {
	e := newDiffMapEntry("abc", "xyz", 0, 0, 1, 0)
	assert.Equal(t, 0.0, e.similarity)
}
