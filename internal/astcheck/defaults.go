package astcheck

import (
	"fmt"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

// mutableLiteralTypes are container literal node types whose instance is
// shared across calls when used as a parameter default.
var mutableLiteralTypes = map[string]bool{
	"list":       true,
	"dictionary": true,
	"set":        true,
}

// mutableConstructors are builtin calls that create a fresh mutable
// container, equally shared when evaluated once at definition time.
var mutableConstructors = map[string]bool{
	"list": true,
	"dict": true,
	"set":  true,
}

// checkMutableDefaults flags function parameters whose default value is a
// mutable container. The default is evaluated once and shared between every
// call, so this is a correctness bug rather than a style complaint.
func checkMutableDefaults(u *unit, pattern registry.Pattern) []finding.Finding {
	var findings []finding.Finding

	walk(u.root, func(n sitter.Node) bool {
		typ := n.Type()
		if typ != "default_parameter" && typ != "typed_default_parameter" {
			return true
		}

		value := n.ChildByFieldName("value")
		if value.IsNull() || !isMutableDefault(value, u.content) {
			return true
		}

		name := nodeText(n.ChildByFieldName("name"), u.content)
		message := fmt.Sprintf("%s: parameter %q defaults to %s, shared across calls", pattern.Message, name, nodeText(value, u.content))
		findings = append(findings, mkFinding(u, pattern, n, message))

		return true
	})

	return findings
}

func isMutableDefault(value sitter.Node, src []byte) bool {
	typ := value.Type()
	if mutableLiteralTypes[typ] {
		return true
	}

	if typ != "call" {
		return false
	}

	fn := value.ChildByFieldName("function")
	if fn.IsNull() || fn.Type() != "identifier" {
		return false
	}

	return mutableConstructors[nodeText(fn, src)]
}
