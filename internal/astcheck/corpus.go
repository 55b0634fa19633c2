package astcheck

import (
	"fmt"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/sloppy/internal/classify"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

// Definition is a function or class defined in a unit.
type Definition struct {
	Name    string
	Kind    string // "function" or "class"
	File    string
	Line    int
	Column  int
	Snippet string
}

// Symbols is a unit's symbol table: what it defines and every name it
// references. The whole-corpus pass works on these tables only, never on
// raw file handles, so it can run after the per-file stage without
// re-reading files.
type Symbols struct {
	Defined    []Definition
	Referenced map[string]bool
}

// collectSymbols walks a parsed unit for definitions and referenced names.
func collectSymbols(u *unit) *Symbols {
	symbols := &Symbols{Referenced: make(map[string]bool)}

	// Byte offsets of definition name nodes; the name identifier at the
	// definition site is not a reference to itself.
	defNameOffsets := make(map[uint]bool)

	walk(u.root, func(n sitter.Node) bool {
		typ := n.Type()
		if typ == "function_definition" || typ == "class_definition" {
			name := n.ChildByFieldName("name")
			if !name.IsNull() {
				defNameOffsets[name.StartByte()] = true

				kind := "function"
				if typ == "class_definition" {
					kind = "class"
				}

				line := nodeLine(n)
				symbols.Defined = append(symbols.Defined, Definition{
					Name:    nodeText(name, u.content),
					Kind:    kind,
					File:    u.path,
					Line:    line,
					Column:  nodeColumn(n),
					Snippet: u.source.Line(line),
				})
			}
		}

		return true
	})

	walk(u.root, func(n sitter.Node) bool {
		if n.Type() == "identifier" && !defNameOffsets[n.StartByte()] {
			symbols.Referenced[nodeText(n, u.content)] = true
		}

		return true
	})

	return symbols
}

// CorpusIndex aggregates symbol tables across every unit in the batch. The
// aggregation step is a single-writer reduction run after the per-file
// stage completes.
type CorpusIndex struct {
	defined    []Definition
	referenced map[string]bool
}

// NewCorpusIndex creates an empty index.
func NewCorpusIndex() *CorpusIndex {
	return &CorpusIndex{referenced: make(map[string]bool)}
}

// Add folds one unit's symbol table into the index.
func (c *CorpusIndex) Add(symbols *Symbols) {
	if symbols == nil {
		return
	}

	c.defined = append(c.defined, symbols.Defined...)

	for name := range symbols.Referenced {
		c.referenced[name] = true
	}
}

// Unreferenced reports definitions no unit in the corpus references.
// Conventionally private names (underscore prefix), dunders, and module
// entry points are skipped to keep the heuristic quiet.
func (c *CorpusIndex) Unreferenced(pattern registry.Pattern) []finding.Finding {
	var findings []finding.Finding

	for _, def := range c.defined {
		if skipDefinition(def.Name) || c.referenced[def.Name] {
			continue
		}

		findings = append(findings, finding.Finding{
			PatternID: pattern.ID,
			Axis:      pattern.Axis,
			Severity:  pattern.Severity,
			Language:  classify.LangPython,
			File:      def.File,
			Line:      def.Line,
			Column:    def.Column,
			Message:   fmt.Sprintf("%s: %s %q is never referenced in the scanned corpus", pattern.Message, def.Kind, def.Name),
			Snippet:   def.Snippet,
		})
	}

	return findings
}

func skipDefinition(name string) bool {
	return name == "main" || strings.HasPrefix(name, "_")
}
