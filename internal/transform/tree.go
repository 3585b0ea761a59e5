package transform

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Tree helpers shared by the language visitors. All of them tolerate nil nodes.

func nodeText(n *tree_sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}

func nodeKind(n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Kind()
}

func field(n *tree_sitter.Node, name string) *tree_sitter.Node {
	if n == nil {
		return nil
	}
	return n.ChildByFieldName(name)
}

func parent(n *tree_sitter.Node) *tree_sitter.Node {
	if n == nil {
		return nil
	}
	return n.Parent()
}

func namedChildren(n *tree_sitter.Node) []*tree_sitter.Node {
	if n == nil {
		return nil
	}
	count := n.NamedChildCount()
	out := make([]*tree_sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if c := n.NamedChild(i); c != nil && c.Kind() != "comment" {
			out = append(out, c)
		}
	}
	return out
}

// findChildByType returns the first direct child of the given kind
func findChildByType(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	if n == nil {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c != nil && c.Kind() == kind {
			return c
		}
	}
	return nil
}

// walk visits n and its descendants in source order. Returning false from fn
// skips the node's children.
func walk(n *tree_sitter.Node, fn func(*tree_sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		walk(n.Child(i), fn)
	}
}

func sameNode(a, b *tree_sitter.Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}

func lineOf(n *tree_sitter.Node) int {
	if n == nil {
		return 0
	}
	return int(n.StartPosition().Row) + 1
}

// firstError finds the first ERROR or MISSING node in source order
func firstError(root *tree_sitter.Node) *tree_sitter.Node {
	var found *tree_sitter.Node
	walk(root, func(n *tree_sitter.Node) bool {
		if found != nil {
			return false
		}
		if n.IsError() || n.IsMissing() {
			found = n
			return false
		}
		return n.HasError()
	})
	return found
}

func lineStart(src []byte, offset int) int {
	for offset > 0 && src[offset-1] != '\n' {
		offset--
	}
	return offset
}

// lineIndent returns the leading whitespace of the line holding offset
func lineIndent(src []byte, offset int) string {
	start := lineStart(src, offset)
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}

// startsLine reports whether only whitespace precedes offset on its line
func startsLine(src []byte, offset int) bool {
	return strings.TrimLeft(string(src[lineStart(src, offset):offset]), " \t") == ""
}

// lineRemainder returns the offset just past the newline ending offset's line
// when only whitespace follows offset on that line
func lineRemainder(src []byte, offset int) (int, bool) {
	i := offset
	for i < len(src) && (src[i] == ' ' || src[i] == '\t' || src[i] == '\r') {
		i++
	}
	if i == len(src) {
		return i, true
	}
	if src[i] == '\n' {
		return i + 1, true
	}
	return offset, false
}

// statementSpan is the byte range removed when stmt is deleted: its whole
// lines when it stands alone, otherwise just the statement text
func statementSpan(src []byte, stmt *tree_sitter.Node) (int, int) {
	start, end := int(stmt.StartByte()), int(stmt.EndByte())
	if !startsLine(src, start) {
		return start, end
	}
	if after, ok := lineRemainder(src, end); ok {
		return lineStart(src, start), after
	}
	return start, end
}

// unquote strips matching quote characters from a literal's text
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func isStringLiteral(n *tree_sitter.Node) bool {
	switch nodeKind(n) {
	case "string", "string_literal":
		return true
	case "template_string":
		return findChildByType(n, "template_substitution") == nil
	}
	return false
}

// normalizeKey lower-cases an option name and drops underscores so that
// camelCase and snake_case spellings share a table entry
func normalizeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "")
}

// statement containers across the supported grammars
var blockKinds = map[string]bool{
	"program":                      true,
	"statement_block":              true,
	"switch_case":                  true,
	"switch_default":               true,
	"block":                        true,
	"constructor_body":             true,
	"switch_block_statement_group": true,
	"module":                       true,
}

// enclosingStatement walks up to the statement that directly sits in a block.
// Crossing into an expression-bodied lambda yields nil.
func enclosingStatement(n *tree_sitter.Node) *tree_sitter.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		p := cur.Parent()
		if p == nil {
			return nil
		}
		if blockKinds[p.Kind()] {
			return cur
		}
		switch p.Kind() {
		case "arrow_function", "lambda_expression", "lambda":
			return nil
		}
	}
	return nil
}

// wholeStatement returns the expression statement that consists of call alone,
// optionally awaited
func wholeStatement(call *tree_sitter.Node) *tree_sitter.Node {
	cur, p := call, parent(call)
	if k := nodeKind(p); k == "await_expression" || k == "await" {
		cur, p = p, parent(p)
	}
	if nodeKind(p) != "expression_statement" || len(namedChildren(p)) != 1 || !sameNode(namedChildren(p)[0], cur) {
		return nil
	}
	return p
}
