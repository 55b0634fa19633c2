package patterns

import (
	"github.com/Sumatoshi-tech/sloppy/internal/astcheck"
	"github.com/Sumatoshi-tech/sloppy/internal/classify"
	"github.com/Sumatoshi-tech/sloppy/internal/clones"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

// treePatterns are the syntax-tree rules. Python is the parsable language;
// each rule is independently toggleable through the disable list.
func treePatterns() []registry.Pattern {
	langs := []string{classify.LangPython}

	return []registry.Pattern{
		{
			ID:        "mutable_default_argument",
			Axis:      finding.AxisQuality,
			Severity:  finding.SeverityCritical,
			Languages: langs,
			Strategy:  registry.StrategyTree,
			Rule:      astcheck.RuleMutableDefault,
			Message:   "Mutable default argument",
		},
		{
			ID:        "bare_except",
			Axis:      finding.AxisQuality,
			Severity:  finding.SeverityCritical,
			Languages: langs,
			Strategy:  registry.StrategyTree,
			Rule:      astcheck.RuleBareExcept,
			Message:   "Overbroad exception handler",
		},
		{
			ID:        "broad_except",
			Axis:      finding.AxisQuality,
			Severity:  finding.SeverityHigh,
			Languages: langs,
			Strategy:  registry.StrategyTree,
			Rule:      astcheck.RuleBroadExcept,
			Message:   "Broad exception handler",
		},
		{
			ID:        "unused_import",
			Axis:      finding.AxisQuality,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyTree,
			Rule:      astcheck.RuleUnusedImport,
			Message:   "Unused import",
		},
		{
			ID:        "dead_code",
			Axis:      finding.AxisQuality,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyTree,
			Rule:      astcheck.RuleDeadCode,
			Message:   "Unreachable code",
		},
		{
			ID:        "unreferenced_definition",
			Axis:      finding.AxisQuality,
			Severity:  finding.SeverityLow,
			Languages: langs,
			Strategy:  registry.StrategyTree,
			Rule:      astcheck.RuleUnreferenced,
			Message:   "Dead definition",
		},
		{
			ID:        "god_function",
			Axis:      finding.AxisStructure,
			Severity:  finding.SeverityHigh,
			Languages: langs,
			Strategy:  registry.StrategyTree,
			Rule:      astcheck.RuleGodFunction,
			Message:   "Oversized function",
		},
		{
			ID:        "god_class",
			Axis:      finding.AxisStructure,
			Severity:  finding.SeverityHigh,
			Languages: langs,
			Strategy:  registry.StrategyTree,
			Rule:      astcheck.RuleGodClass,
			Message:   "Oversized class",
		},
		{
			ID:        "deep_nesting",
			Axis:      finding.AxisStructure,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyTree,
			Rule:      astcheck.RuleDeepNesting,
			Message:   "Deep nesting",
		},
		// The duplicate finder is a whole-corpus pass over every supported
		// language; it dispatches behind the barrier, not per file.
		{
			ID:        "duplicate_code",
			Axis:      finding.AxisStructure,
			Severity:  finding.SeverityHigh,
			Languages: []string{classify.LangPython, classify.LangGo, classify.LangJavaScript, classify.LangTypeScript},
			Strategy:  registry.StrategyTree,
			Rule:      clones.Rule,
			Message:   "Duplicated code block",
		},
	}
}
