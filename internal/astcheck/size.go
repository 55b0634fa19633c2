package astcheck

import (
	"fmt"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

// checkGodFunction flags functions whose statement count exceeds the
// configured threshold.
func checkGodFunction(u *unit, pattern registry.Pattern) []finding.Finding {
	var findings []finding.Finding

	limit := u.config.MaxFunctionStatements

	walk(u.root, func(n sitter.Node) bool {
		if n.Type() != "function_definition" {
			return true
		}

		body := n.ChildByFieldName("body")
		if body.IsNull() {
			return true
		}

		count := countStatements(body)
		if count <= limit {
			return true
		}

		name := nodeText(n.ChildByFieldName("name"), u.content)
		message := fmt.Sprintf("%s: %q has %d statements (max %d)", pattern.Message, name, count, limit)
		findings = append(findings, mkFinding(u, pattern, n, message))

		return true
	})

	return findings
}

// checkGodClass flags classes whose method count exceeds the configured
// threshold.
func checkGodClass(u *unit, pattern registry.Pattern) []finding.Finding {
	var findings []finding.Finding

	limit := u.config.MaxClassMethods

	walk(u.root, func(n sitter.Node) bool {
		if n.Type() != "class_definition" {
			return true
		}

		body := n.ChildByFieldName("body")
		if body.IsNull() {
			return true
		}

		count := countMethods(body)
		if count <= limit {
			return true
		}

		name := nodeText(n.ChildByFieldName("name"), u.content)
		message := fmt.Sprintf("%s: %q has %d methods (max %d)", pattern.Message, name, count, limit)
		findings = append(findings, mkFinding(u, pattern, n, message))

		return true
	})

	return findings
}

// countStatements counts statement nodes in a subtree, the function body
// included at any depth.
func countStatements(body sitter.Node) int {
	count := 0

	walk(body, func(n sitter.Node) bool {
		if isStatementType(n.Type()) {
			count++
		}

		return true
	})

	return count
}

func isStatementType(typ string) bool {
	if strings.HasSuffix(typ, "_statement") {
		return true
	}

	return typ == "function_definition" || typ == "class_definition"
}

// countMethods counts the functions defined directly in a class body,
// looking through decorators.
func countMethods(body sitter.Node) int {
	count := 0

	for _, child := range namedChildren(body) {
		switch child.Type() {
		case "function_definition":
			count++
		case "decorated_definition":
			def := child.ChildByFieldName("definition")
			if !def.IsNull() && def.Type() == "function_definition" {
				count++
			}
		}
	}

	return count
}
