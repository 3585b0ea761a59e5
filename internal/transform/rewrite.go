package transform

import (
	"fmt"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/RushilK7/smartui-migration-tool-sub004/internal/types"
)

// rewriter accumulates the edits and warnings produced by one visitor pass
type rewriter struct {
	path      string
	src       []byte
	edits     []Edit
	warnings  []types.Warning
	snapshots int
}

func newRewriter(path string, src []byte) *rewriter {
	return &rewriter{path: path, src: src, warnings: []types.Warning{}}
}

func (r *rewriter) text(n *tree_sitter.Node) string {
	return nodeText(n, r.src)
}

func (r *rewriter) replace(n *tree_sitter.Node, text string) {
	r.replaceRange(int(n.StartByte()), int(n.EndByte()), text)
}

func (r *rewriter) replaceRange(start, end int, text string) {
	r.edits = append(r.edits, Edit{Start: start, End: end, Text: text})
}

func (r *rewriter) insert(at int, text string) {
	r.edits = append(r.edits, Edit{Start: at, End: at, Text: text})
}

// remove deletes a statement, taking its line with it when it stands alone
func (r *rewriter) remove(stmt *tree_sitter.Node) {
	start, end := statementSpan(r.src, stmt)
	r.replaceRange(start, end, "")
}

// removeListItem deletes one element of a comma separated list together with
// the separator that joins it to a neighbour
func (r *rewriter) removeListItem(item *tree_sitter.Node) {
	if next := item.NextSibling(); next != nil && next.Kind() == "," {
		end := int(next.EndByte())
		if following := next.NextSibling(); following != nil {
			end = int(following.StartByte())
		}
		r.replaceRange(int(item.StartByte()), end, "")
		return
	}
	if prev := item.PrevSibling(); prev != nil && prev.Kind() == "," {
		r.replaceRange(int(prev.StartByte()), int(item.EndByte()), "")
		return
	}
	r.replace(item, "")
}

func (r *rewriter) warnf(n *tree_sitter.Node, format string, args ...any) {
	r.warnDetail(n, "", format, args...)
}

func (r *rewriter) warnDetail(n *tree_sitter.Node, details, format string, args ...any) {
	r.warnings = append(r.warnings, types.Warning{
		Message: fmt.Sprintf("%s:%d: %s", r.path, lineOf(n), fmt.Sprintf(format, args...)),
		Details: details,
	})
}

// covered reports whether n lies inside a replaced (non-insertion) range
func (r *rewriter) covered(n *tree_sitter.Node) bool {
	start, end := int(n.StartByte()), int(n.EndByte())
	for _, e := range r.edits {
		if !e.insertion() && start >= e.Start && end <= e.End {
			return true
		}
	}
	return false
}

// indentAt is the indentation of the line holding n
func (r *rewriter) indentAt(n *tree_sitter.Node) string {
	return lineIndent(r.src, int(n.StartByte()))
}

// emulateLayout inserts the layout assertion ahead of the statement holding
// call. Calls outside a statement (arrow function bodies, conditions) only
// get a warning.
func (r *rewriter) emulateLayout(call *tree_sitter.Node, intent LayoutIntent) {
	stmt := enclosingStatement(call)
	if stmt == nil {
		r.warnf(call, "layout comparison requested but the call is not a statement; add a visibility check manually")
		return
	}
	intent.Indent = r.indentAt(stmt)
	r.insert(int(stmt.StartByte()), EmulateLayout(intent))
	r.warnf(call, "layout comparison emulated with a visibility check; the emulation is approximate and needs manual review")
}

func (r *rewriter) result(source string) types.TransformationResult {
	content, _ := ApplyEdits(source, r.edits)
	return types.TransformationResult{
		Content:       content,
		Warnings:      r.warnings,
		SnapshotCount: r.snapshots,
	}
}

// snapshotName picks the snapshot name expression, falling back to a
// generated one with a warning
func (r *rewriter) snapshotName(call *tree_sitter.Node, name string, fallback func(line int) string) string {
	if name != "" {
		return name
	}
	generated := fallback(lineOf(call))
	r.warnf(call, "snapshot has no name; using %s", generated)
	return generated
}
