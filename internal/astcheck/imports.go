package astcheck

import (
	"fmt"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

// importBinding is one name an import statement introduces into the unit's
// scope.
type importBinding struct {
	name string
	node sitter.Node
	stmt string
}

// byteRange marks a half-open span of source bytes.
type byteRange struct {
	start, end uint
}

func (r byteRange) contains(offset uint) bool {
	return offset >= r.start && offset < r.end
}

// checkUnusedImports flags imported names never referenced in the rest of
// the unit, including inside nested functions and classes. A wildcard
// import makes the check unreliable for the whole unit, so it suppresses
// the check rather than guessing.
func checkUnusedImports(u *unit, pattern registry.Pattern) []finding.Finding {
	bindings, importSpans, wildcard := collectImports(u)
	if wildcard || len(bindings) == 0 {
		return nil
	}

	used := collectUsedNames(u, importSpans)

	var findings []finding.Finding

	for _, binding := range bindings {
		if used[binding.name] {
			continue
		}

		message := fmt.Sprintf("%s: %q is imported but never used", pattern.Message, binding.name)
		findings = append(findings, mkFinding(u, pattern, binding.node, message))
	}

	return findings
}

// collectImports walks the unit for import statements and returns the
// introduced bindings, the byte spans covered by import statements, and
// whether a wildcard import was seen.
func collectImports(u *unit) (bindings []importBinding, spans []byteRange, wildcard bool) {
	walk(u.root, func(n sitter.Node) bool {
		switch n.Type() {
		case "import_statement":
			spans = append(spans, byteRange{n.StartByte(), n.EndByte()})

			for _, child := range namedChildren(n) {
				bindings = appendImportName(bindings, u, n, child)
			}

			return false
		case "import_from_statement":
			spans = append(spans, byteRange{n.StartByte(), n.EndByte()})

			module := n.ChildByFieldName("module_name")

			for _, child := range namedChildren(n) {
				if !module.IsNull() && child.StartByte() == module.StartByte() {
					continue
				}

				if child.Type() == "wildcard_import" {
					wildcard = true

					continue
				}

				bindings = appendImportName(bindings, u, n, child)
			}

			return false
		default:
			return true
		}
	})

	return bindings, spans, wildcard
}

// appendImportName resolves one imported name node to its local binding.
// `import a.b` binds "a"; `import a.b as c` binds "c"; `from m import x`
// binds "x".
func appendImportName(bindings []importBinding, u *unit, stmt, nameNode sitter.Node) []importBinding {
	switch nameNode.Type() {
	case "dotted_name":
		full := nodeText(nameNode, u.content)
		local, _, _ := strings.Cut(full, ".")

		return append(bindings, importBinding{name: local, node: stmt})
	case "aliased_import":
		alias := nameNode.ChildByFieldName("alias")
		if alias.IsNull() {
			return bindings
		}

		return append(bindings, importBinding{name: nodeText(alias, u.content), node: stmt})
	default:
		return bindings
	}
}

// collectUsedNames gathers every identifier referenced outside the import
// statements themselves, plus names re-exported through __all__.
func collectUsedNames(u *unit, importSpans []byteRange) map[string]bool {
	used := make(map[string]bool)

	inImport := func(n sitter.Node) bool {
		for _, span := range importSpans {
			if span.contains(n.StartByte()) {
				return true
			}
		}

		return false
	}

	walk(u.root, func(n sitter.Node) bool {
		switch n.Type() {
		case "identifier":
			if !inImport(n) {
				used[nodeText(n, u.content)] = true
			}
		case "assignment":
			markDunderAllExports(u, n, used)
		}

		return true
	})

	return used
}

// markDunderAllExports treats every string inside `__all__ = [...]` as a
// used name, so re-exports do not count as unused imports.
func markDunderAllExports(u *unit, assignment sitter.Node, used map[string]bool) {
	left := assignment.ChildByFieldName("left")
	if left.IsNull() || nodeText(left, u.content) != "__all__" {
		return
	}

	right := assignment.ChildByFieldName("right")
	if right.IsNull() {
		return
	}

	walk(right, func(n sitter.Node) bool {
		if n.Type() == "string_content" {
			used[nodeText(n, u.content)] = true
		}

		return true
	})
}
