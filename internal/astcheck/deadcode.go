package astcheck

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

// terminatorTypes end a block unconditionally; statements after them in the
// same block can never execute.
var terminatorTypes = map[string]bool{
	"return_statement":   true,
	"raise_statement":    true,
	"break_statement":    true,
	"continue_statement": true,
}

// checkDeadCode flags the first statement following an unconditional
// return/raise/break/continue within the same block. One finding per block
// keeps a large dead tail from drowning the report.
func checkDeadCode(u *unit, pattern registry.Pattern) []finding.Finding {
	var findings []finding.Finding

	walk(u.root, func(n sitter.Node) bool {
		typ := n.Type()
		if typ != "block" && typ != "module" {
			return true
		}

		terminated := false

		for _, child := range namedChildren(n) {
			if child.Type() == "comment" {
				continue
			}

			if terminated {
				findings = append(findings, mkFinding(u, pattern, child,
					pattern.Message+": statement can never execute"))

				break
			}

			if terminatorTypes[child.Type()] {
				terminated = true
			}
		}

		return true
	})

	return findings
}

// nestingTypes introduce a nesting level for the depth check.
var nestingTypes = map[string]bool{
	"if_statement":    true,
	"for_statement":   true,
	"while_statement": true,
	"with_statement":  true,
	"try_statement":   true,
	"match_statement": true,
}

// checkDeepNesting flags statements nested deeper than the configured
// threshold. Only the first node past the threshold on each branch is
// reported, so a deep chain yields one finding, not one per level.
func checkDeepNesting(u *unit, pattern registry.Pattern) []finding.Finding {
	var findings []finding.Finding

	limit := u.config.MaxNestingDepth

	var descend func(n sitter.Node, depth int)
	descend = func(n sitter.Node, depth int) {
		if n.IsNull() {
			return
		}

		next := depth
		if nestingTypes[n.Type()] {
			next++

			if next == limit+1 {
				findings = append(findings, mkFinding(u, pattern, n,
					pattern.Message+": extract the inner blocks into helpers"))
			}
		}

		// A nested function or method restarts the count.
		if n.Type() == "function_definition" {
			next = 0
		}

		for i := range n.NamedChildCount() {
			descend(n.NamedChild(i), next)
		}
	}

	descend(u.root, 0)

	return findings
}
