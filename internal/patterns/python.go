package patterns

import (
	"github.com/Sumatoshi-tech/sloppy/internal/classify"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

func pythonPatterns() []registry.Pattern {
	langs := []string{classify.LangPython}

	return []registry.Pattern{
		// Noise axis.
		{
			ID:        "print_debugging",
			Axis:      finding.AxisNoise,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Bare print call - use logging instead",
			Expressions: []registry.Expression{
				{Source: `^\s*\bprint\s*\(`, Multiline: true},
			},
		},
		{
			ID:        "todo_comment",
			Axis:      finding.AxisNoise,
			Severity:  finding.SeverityLow,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "TODO comment - track in issue tracker instead",
			Expressions: []registry.Expression{
				{Source: `#\s*(TODO|FIXME|XXX|HACK)\s*:`, IgnoreCase: true},
			},
		},
		{
			ID:        "commented_code",
			Axis:      finding.AxisNoise,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Commented-out code - remove or use version control",
			Expressions: []registry.Expression{
				{Source: `^\s*#\s*(def |class |import |from |return |if |for |while )`, Multiline: true},
			},
		},
		{
			ID:        "redundant_comment",
			Axis:      finding.AxisNoise,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Redundant comment restating obvious code",
			Expressions: []registry.Expression{
				{Source: `#\s*(increment|decrement|set|assign|return|get|initialize|init|create)\s+\w+\s*$`, IgnoreCase: true, Multiline: true},
			},
		},

		// Quality axis.
		{
			ID:        "eval_usage",
			Axis:      finding.AxisQuality,
			Severity:  finding.SeverityHigh,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "eval() on dynamic input - arbitrary code execution risk",
			Expressions: []registry.Expression{
				{Source: `\beval\s*\(`},
				{Source: `\bexec\s*\(`},
			},
		},
		{
			ID:        "except_pass",
			Axis:      finding.AxisQuality,
			Severity:  finding.SeverityHigh,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Exception silently swallowed - handle or log it",
			Expressions: []registry.Expression{
				{Source: `except[^\n]*:\s*\n\s*pass\b`},
			},
		},

		// Style axis (the original deeplint catalog).
		{
			ID:        "overconfident_comment",
			Axis:      finding.AxisStyle,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Overconfident comment - verify claim before shipping",
			Expressions: []registry.Expression{
				{Source: `#\s*(obviously|clearly|trivial|of course)\b`, IgnoreCase: true},
			},
		},
		{
			ID:        "hedging_comment",
			Axis:      finding.AxisStyle,
			Severity:  finding.SeverityHigh,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Hedging comment suggests uncertainty - verify code works",
			Expressions: []registry.Expression{
				{Source: `#\s*(should work|hopefully|might work|try this|i think)\b`, IgnoreCase: true},
			},
		},
		{
			ID:        "apologetic_comment",
			Axis:      finding.AxisStyle,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Apologetic comment - fix the issue instead of apologizing",
			Expressions: []registry.Expression{
				{Source: `#\s*(sorry|hacky|ugly|bad|terrible|awful|gross|yuck|forgive)\b`, IgnoreCase: true},
			},
		},
	}
}
