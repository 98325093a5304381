// Package diffengine wraps a generic Myers edit-script algorithm and groups
// its raw identical/insert/delete runs into the coarser copy/add/del/change
// vocabulary the diff core is built around, the way a line-level diff
// groups a deletion immediately followed by an insertion into a single
// "changed" hunk instead of two independent ones.
package diffengine

import "cloudeng.io/algo/lcs"

// Kind identifies the kind of a diff Op.
type Kind int

const (
	// Copy marks a run of elements identical in both sequences.
	Copy Kind = iota
	// Add marks a run of elements present only in the second sequence.
	Add
	// Del marks a run of elements present only in the first sequence.
	Del
	// Change marks a run of elements from the first sequence replaced by a
	// run from the second: a deletion immediately followed by an
	// insertion, with no intervening identical element.
	Change
)

func (k Kind) String() string {
	switch k {
	case Copy:
		return "copy"
	case Add:
		return "add"
	case Del:
		return "del"
	case Change:
		return "change"
	default:
		return "unknown"
	}
}

// Op is one run of the edit script: a maximal stretch of same-kind edits.
// A is populated for Copy, Del and Change; B is populated for Add and
// Change.
type Op[T any] struct {
	Kind Kind
	A    []T
	B    []T
}

// Script is the full sequence of ops describing how to turn a into b.
type Script[T any] []Op[T]

// DefaultMaxComplexity bounds the a*b product the underlying Myers
// algorithm is allowed to explore before Diff gives up and reports the
// whole pair as a single Change. Without a ceiling, a pair of very long,
// very dissimilar lines makes the O((a+b)*d) algorithm pathological; the
// fallback keeps worst-case work bounded at the cost of a coarser diff for
// that one line, which is the same trade a line-level differ with a
// complexity cutoff makes.
const DefaultMaxComplexity = 40_000_000

// Diff computes the edit script turning a into b, grouped into
// copy/add/del/change runs. maxComplexity caps len(a)*len(b); pass 0 for
// DefaultMaxComplexity, or a negative value to disable the cap entirely.
func Diff[T comparable](a, b []T, maxComplexity int) Script[T] {
	if maxComplexity == 0 {
		maxComplexity = DefaultMaxComplexity
	}
	if maxComplexity > 0 && len(a)*len(b) > maxComplexity {
		return degenerate(a, b)
	}
	edits := lcs.NewMyers(a, b).SES()
	return group(*edits)
}

func degenerate[T any](a, b []T) Script[T] {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	return Script[T]{{Kind: Change, A: a, B: b}}
}

func group[T comparable](edits lcs.EditScript[T]) Script[T] {
	var out Script[T]
	i := 0
	for i < len(edits) {
		switch edits[i].Op {
		case lcs.Identical:
			j := i
			var items []T
			for j < len(edits) && edits[j].Op == lcs.Identical {
				items = append(items, edits[j].Val)
				j++
			}
			out = append(out, Op[T]{Kind: Copy, A: items})
			i = j
		default:
			j := i
			var dels, adds []T
			for j < len(edits) && edits[j].Op != lcs.Identical {
				if edits[j].Op == lcs.Delete {
					dels = append(dels, edits[j].Val)
				} else {
					adds = append(adds, edits[j].Val)
				}
				j++
			}
			out = append(out, opFor(dels, adds))
			i = j
		}
	}
	return out
}

func opFor[T any](dels, adds []T) Op[T] {
	switch {
	case len(dels) > 0 && len(adds) > 0:
		return Op[T]{Kind: Change, A: dels, B: adds}
	case len(dels) > 0:
		return Op[T]{Kind: Del, A: dels}
	default:
		return Op[T]{Kind: Add, B: adds}
	}
}
