package astcheck

import (
	"context"
	"fmt"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/Sumatoshi-tech/sloppy/internal/classify"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
	"github.com/Sumatoshi-tech/sloppy/internal/textscan"
)

// Tree rule names. Patterns with the tree-rule strategy name one of these;
// the analyzer dispatches on the name exhaustively.
const (
	RuleMutableDefault = "mutable-default"
	RuleBareExcept     = "bare-except"
	RuleBroadExcept    = "broad-except"
	RuleUnusedImport   = "unused-import"
	RuleDeadCode       = "dead-code"
	RuleGodFunction    = "god-function"
	RuleGodClass       = "god-class"
	RuleDeepNesting    = "deep-nesting"

	// RuleUnreferenced is the whole-corpus pass over collected symbol
	// tables; it runs after every per-file pass completed, not here.
	RuleUnreferenced = "unreferenced-definition"
)

// Default thresholds for the size checks.
const (
	DefaultMaxFunctionStatements = 50
	DefaultMaxClassMethods       = 20
	DefaultMaxNestingDepth       = 4
)

// Config holds the tunable thresholds for the size and nesting checks.
type Config struct {
	MaxFunctionStatements int
	MaxClassMethods       int
	MaxNestingDepth       int
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		MaxFunctionStatements: DefaultMaxFunctionStatements,
		MaxClassMethods:       DefaultMaxClassMethods,
		MaxNestingDepth:       DefaultMaxNestingDepth,
	}
}

// normalize fills zero thresholds with defaults.
func (c Config) normalize() Config {
	defaults := DefaultConfig()

	if c.MaxFunctionStatements <= 0 {
		c.MaxFunctionStatements = defaults.MaxFunctionStatements
	}

	if c.MaxClassMethods <= 0 {
		c.MaxClassMethods = defaults.MaxClassMethods
	}

	if c.MaxNestingDepth <= 0 {
		c.MaxNestingDepth = defaults.MaxNestingDepth
	}

	return c
}

// Analyzer parses units and runs the enabled tree rules over them. It is
// safe for concurrent use; parsers are pooled per instance.
type Analyzer struct {
	config Config
	pool   *parserPool
}

// NewAnalyzer creates an Analyzer with the given thresholds.
func NewAnalyzer(config Config) *Analyzer {
	return &Analyzer{
		config: config.normalize(),
		pool:   newParserPool(getPythonLanguage()),
	}
}

// Supports reports whether tree analysis is available for a language.
func (a *Analyzer) Supports(language string) bool {
	return language == classify.LangPython
}

// unit bundles everything a check needs for one file.
type unit struct {
	path     string
	language string
	content  []byte
	source   *textscan.Source
	root     sitter.Node
	config   Config
}

// AnalyzeUnit parses one file and runs the given tree patterns over it.
// It returns the findings plus the unit's symbol table for the whole-corpus
// passes. On a syntax error it returns ErrParseFailed; the caller keeps the
// unit's regex findings and surfaces a diagnostic instead of aborting.
func (a *Analyzer) AnalyzeUnit(
	ctx context.Context,
	path, language string,
	content []byte,
	patterns []registry.Pattern,
) ([]finding.Finding, *Symbols, error) {
	if !a.Supports(language) {
		return nil, nil, nil
	}

	tree, root, err := a.pool.parse(ctx, content)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	defer tree.Close()

	u := &unit{
		path:     path,
		language: language,
		content:  content,
		source:   textscan.NewSource(content),
		root:     root,
		config:   a.config,
	}

	var findings []finding.Finding

	for _, pattern := range patterns {
		if pattern.Strategy != registry.StrategyTree {
			continue
		}

		findings = append(findings, runRule(u, pattern)...)
	}

	symbols := collectSymbols(u)

	return findings, symbols, nil
}

// runRule dispatches a tree pattern to its check.
func runRule(u *unit, pattern registry.Pattern) []finding.Finding {
	switch pattern.Rule {
	case RuleMutableDefault:
		return checkMutableDefaults(u, pattern)
	case RuleBareExcept:
		return checkBareExcept(u, pattern)
	case RuleBroadExcept:
		return checkBroadExcept(u, pattern)
	case RuleUnusedImport:
		return checkUnusedImports(u, pattern)
	case RuleDeadCode:
		return checkDeadCode(u, pattern)
	case RuleGodFunction:
		return checkGodFunction(u, pattern)
	case RuleGodClass:
		return checkGodClass(u, pattern)
	case RuleDeepNesting:
		return checkDeepNesting(u, pattern)
	case RuleUnreferenced:
		// Cross-file pass, handled by the corpus index after the barrier.
		return nil
	default:
		return nil
	}
}

// mkFinding builds a finding for a node with the pattern's metadata.
func mkFinding(u *unit, pattern registry.Pattern, n sitter.Node, message string) finding.Finding {
	line := nodeLine(n)

	return finding.Finding{
		PatternID: pattern.ID,
		Axis:      pattern.Axis,
		Severity:  pattern.Severity,
		Language:  u.language,
		File:      u.path,
		Line:      line,
		Column:    nodeColumn(n),
		Message:   message,
		Snippet:   u.source.Line(line),
	}
}
