package astcheck

import (
	"fmt"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

// checkBareExcept flags handler clauses with no type filter and handlers
// catching BaseException. Both intercept KeyboardInterrupt and SystemExit,
// swallowing cancellation.
func checkBareExcept(u *unit, pattern registry.Pattern) []finding.Finding {
	var findings []finding.Finding

	walkExceptClauses(u.root, func(clause, filter sitter.Node) {
		if filter.IsNull() {
			findings = append(findings, mkFinding(u, pattern, clause,
				pattern.Message+": bare except intercepts KeyboardInterrupt and SystemExit"))

			return
		}

		if filter.Type() == "identifier" && nodeText(filter, u.content) == "BaseException" {
			findings = append(findings, mkFinding(u, pattern, clause,
				pattern.Message+": except BaseException intercepts KeyboardInterrupt and SystemExit"))
		}
	})

	return findings
}

// checkBroadExcept flags handlers catching the broad Exception type. Broad
// but not interrupt-swallowing, so a separate, less severe pattern.
func checkBroadExcept(u *unit, pattern registry.Pattern) []finding.Finding {
	var findings []finding.Finding

	walkExceptClauses(u.root, func(clause, filter sitter.Node) {
		if filter.IsNull() || filter.Type() != "identifier" {
			return
		}

		if nodeText(filter, u.content) == "Exception" {
			findings = append(findings, mkFinding(u, pattern, clause,
				fmt.Sprintf("%s: catch a specific exception type instead", pattern.Message)))
		}
	})

	return findings
}

// walkExceptClauses visits every except clause with its resolved filter
// expression. The filter is a null node for a bare except; an `except E as
// name` clause resolves through the as-pattern to E.
func walkExceptClauses(root sitter.Node, visit func(clause, filter sitter.Node)) {
	walk(root, func(n sitter.Node) bool {
		if n.Type() != "except_clause" {
			return true
		}

		visit(n, exceptFilter(n))

		return true
	})
}

func exceptFilter(clause sitter.Node) sitter.Node {
	children := namedChildren(clause)
	if len(children) == 0 {
		return sitter.Node{}
	}

	filter := children[0]
	if filter.Type() == "block" {
		// No filter expression; first child is already the handler body.
		return sitter.Node{}
	}

	// `except E as name` parses as an as-pattern wrapping the type.
	if filter.Type() == "as_pattern" && filter.NamedChildCount() > 0 {
		return filter.NamedChild(0)
	}

	return filter
}
