package transform

import (
	"sort"
	"strings"
)

// Edit replaces src[Start:End] with Text. Start == End is an insertion.
type Edit struct {
	Start int
	End   int
	Text  string
}

func (e Edit) insertion() bool { return e.Start == e.End }

// ApplyEdits applies non-overlapping edits to src in source order and returns
// the new text plus the number of edits applied. An edit that starts inside a
// range already replaced by an earlier (outer) edit is discarded. Insertions at
// the same offset keep their relative order and land before a replacement that
// starts there. With no edits src is returned as is.
func ApplyEdits(src string, edits []Edit) (string, int) {
	if len(edits) == 0 {
		return src, 0
	}

	ordered := make([]Edit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.insertion() != b.insertion() {
			return a.insertion()
		}
		// outer replacement first so the inner one is discarded
		return a.End > b.End
	})

	var sb strings.Builder
	sb.Grow(len(src))

	cursor, applied := 0, 0
	for _, e := range ordered {
		if e.Start < 0 || e.End > len(src) || e.Start > e.End {
			continue
		}
		if e.Start < cursor {
			continue
		}
		sb.WriteString(src[cursor:e.Start])
		sb.WriteString(e.Text)
		cursor = e.End
		applied++
	}
	sb.WriteString(src[cursor:])

	if applied == 0 {
		return src, 0
	}
	return sb.String(), applied
}
