package astcheck

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// walk visits named nodes in pre-order. The callback returns false to prune
// the subtree.
func walk(n sitter.Node, visit func(sitter.Node) bool) {
	if n.IsNull() {
		return
	}

	if !visit(n) {
		return
	}

	for i := range n.NamedChildCount() {
		walk(n.NamedChild(i), visit)
	}
}

// namedChildren returns the named children of a node.
func namedChildren(n sitter.Node) []sitter.Node {
	count := n.NamedChildCount()
	out := make([]sitter.Node, 0, count)

	for i := range count {
		out = append(out, n.NamedChild(i))
	}

	return out
}

// nodeText extracts the source text covered by a node.
func nodeText(n sitter.Node, src []byte) string {
	start, end := n.StartByte(), n.EndByte()
	if end > uint(len(src)) || start > end {
		return ""
	}

	return string(src[start:end])
}

// nodeLine returns the 1-based start line of a node.
func nodeLine(n sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// nodeColumn returns the 1-based start column of a node.
func nodeColumn(n sitter.Node) int {
	return int(n.StartPoint().Column) + 1
}
