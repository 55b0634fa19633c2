// Package registry holds the detector definitions, partitioned by language
// and axis. A Registry is constructed once, validates every pattern at
// construction time, and is passed by reference into the scan; there is no
// module-level pattern state.
package registry

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Sumatoshi-tech/sloppy/internal/finding"
)

// Strategy tags how a pattern matches. The engine dispatches on this tag
// exhaustively instead of probing pattern attributes.
type Strategy string

// Matching strategies.
const (
	StrategyRegex Strategy = "text-regex"
	StrategyTree  Strategy = "tree-rule"
)

// Expression is one compiled textual expression of a regex pattern.
// Case-sensitivity and multi-line behavior are declared per expression,
// not globally.
type Expression struct {
	Source     string
	IgnoreCase bool
	Multiline  bool
	DotAll     bool

	compiled *regexp.Regexp
}

// Regexp returns the compiled expression. Only valid after the owning
// pattern passed registration.
func (e *Expression) Regexp() *regexp.Regexp {
	return e.compiled
}

// Pattern is a named, versionless detector. Identity is the globally unique
// ID; renaming an ID is a breaking change for disable lists and tests.
// Patterns are pure: they hold no mutable state between invocations.
type Pattern struct {
	ID        string
	Axis      finding.Axis
	Severity  finding.Severity
	Languages []string
	Strategy  Strategy
	Message   string

	// Expressions apply when Strategy is StrategyRegex.
	Expressions []Expression

	// Rule names the tree check when Strategy is StrategyTree.
	Rule string
}

// AppliesTo reports whether the pattern declares the given language.
func (p *Pattern) AppliesTo(language string) bool {
	for _, lang := range p.Languages {
		if lang == language {
			return true
		}
	}

	return false
}

// Registration errors. All are fatal before any scan begins; none can occur
// once scanning is in progress.
var (
	ErrDuplicatePatternID = errors.New("duplicate pattern id")
	ErrEmptyPatternID     = errors.New("empty pattern id")
	ErrNoLanguages        = errors.New("pattern declares no languages")
	ErrNoExpressions      = errors.New("regex pattern has no expressions")
	ErrNoRule             = errors.New("tree pattern names no rule")
	ErrUnknownStrategy    = errors.New("unknown pattern strategy")
	ErrBadExpression      = errors.New("malformed expression")
	ErrUnsafeExpression   = errors.New("expression has nested unbounded quantifiers")
)

// nestedQuantRe is a static heuristic for catastrophic-backtracking-prone
// constructs: a group that contains an unbounded quantifier and is itself
// quantified, e.g. (a+)+ or ([ab]*)* or (\w{2,})+.
var nestedQuantRe = regexp.MustCompile(`\([^()]*(?:[+*]|\{\d+,\})[^()]*\)(?:[+*]|\{\d+,\})`)

// Registry maps languages to their ordered, applicable patterns. Order is
// registration order, which keeps output reproducible across runs.
type Registry struct {
	ordered []Pattern
	index   map[string]int
	byLang  map[string][]int
}

// New constructs a Registry from pattern definitions, validating every
// pattern: IDs must be globally unique and non-empty, regex patterns must
// compile, and expressions prone to catastrophic backtracking are rejected
// outright rather than guarded by runtime timeouts.
func New(patterns []Pattern) (*Registry, error) {
	reg := &Registry{
		ordered: make([]Pattern, 0, len(patterns)),
		index:   make(map[string]int, len(patterns)),
		byLang:  make(map[string][]int),
	}

	for _, pattern := range patterns {
		if err := validate(&pattern); err != nil {
			return nil, err
		}

		if _, exists := reg.index[pattern.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePatternID, pattern.ID)
		}

		pos := len(reg.ordered)
		reg.ordered = append(reg.ordered, pattern)
		reg.index[pattern.ID] = pos

		for _, lang := range pattern.Languages {
			reg.byLang[lang] = append(reg.byLang[lang], pos)
		}
	}

	return reg, nil
}

// validate checks a single pattern and compiles its expressions in place.
func validate(pattern *Pattern) error {
	if pattern.ID == "" {
		return ErrEmptyPatternID
	}

	if len(pattern.Languages) == 0 {
		return fmt.Errorf("%w: %s", ErrNoLanguages, pattern.ID)
	}

	switch pattern.Strategy {
	case StrategyRegex:
		return compileExpressions(pattern)
	case StrategyTree:
		if pattern.Rule == "" {
			return fmt.Errorf("%w: %s", ErrNoRule, pattern.ID)
		}

		return nil
	default:
		return fmt.Errorf("%w: %s has %q", ErrUnknownStrategy, pattern.ID, pattern.Strategy)
	}
}

func compileExpressions(pattern *Pattern) error {
	if len(pattern.Expressions) == 0 {
		return fmt.Errorf("%w: %s", ErrNoExpressions, pattern.ID)
	}

	for i := range pattern.Expressions {
		expr := &pattern.Expressions[i]

		if nestedQuantRe.MatchString(expr.Source) {
			return fmt.Errorf("%w: %s: %s", ErrUnsafeExpression, pattern.ID, expr.Source)
		}

		compiled, err := regexp.Compile(flagPrefix(expr) + expr.Source)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrBadExpression, pattern.ID, err)
		}

		expr.compiled = compiled
	}

	return nil
}

func flagPrefix(expr *Expression) string {
	flags := ""

	if expr.IgnoreCase {
		flags += "i"
	}

	if expr.Multiline {
		flags += "m"
	}

	if expr.DotAll {
		flags += "s"
	}

	if flags == "" {
		return ""
	}

	return "(?" + flags + ")"
}

// Filter narrows a pattern selection. Zero-valued fields mean "no filter".
type Filter struct {
	Axes        []finding.Axis
	DisabledIDs []string
}

// PatternsFor returns the patterns applicable to a language after axis and
// disable-list filtering, in registration order.
func (r *Registry) PatternsFor(language string, filter Filter) []Pattern {
	axes := make(map[finding.Axis]bool, len(filter.Axes))
	for _, axis := range filter.Axes {
		axes[axis] = true
	}

	disabled := make(map[string]bool, len(filter.DisabledIDs))
	for _, id := range filter.DisabledIDs {
		disabled[id] = true
	}

	var selected []Pattern

	for _, pos := range r.byLang[language] {
		pattern := r.ordered[pos]
		if disabled[pattern.ID] {
			continue
		}

		if len(axes) > 0 && !axes[pattern.Axis] {
			continue
		}

		selected = append(selected, pattern)
	}

	return selected
}

// All returns every registered pattern in registration order.
func (r *Registry) All() []Pattern {
	out := make([]Pattern, len(r.ordered))
	copy(out, r.ordered)

	return out
}

// Lookup returns the pattern with the given ID.
func (r *Registry) Lookup(id string) (Pattern, bool) {
	pos, ok := r.index[id]
	if !ok {
		return Pattern{}, false
	}

	return r.ordered[pos], true
}
