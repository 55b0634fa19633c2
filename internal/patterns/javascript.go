package patterns

import (
	"github.com/Sumatoshi-tech/sloppy/internal/classify"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

func jsPatterns() []registry.Pattern {
	langs := []string{classify.LangJavaScript, classify.LangTypeScript}

	return []registry.Pattern{
		// Noise axis (the original sloppy JS catalog).
		{
			ID:        "js_debug_console",
			Axis:      finding.AxisNoise,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Debug console statement - remove before production",
			Expressions: []registry.Expression{
				{Source: `\bconsole\.(log|debug|info|warn|error)\s*\([^)]*["']?(debug|DEBUG|test|TEST|temp|TEMP)\b`},
			},
		},
		{
			ID:        "js_todo_comment",
			Axis:      finding.AxisNoise,
			Severity:  finding.SeverityLow,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "TODO comment - track in issue tracker instead",
			Expressions: []registry.Expression{
				{Source: `//\s*(TODO|FIXME|XXX|HACK)\s*:`, IgnoreCase: true},
			},
		},
		{
			ID:        "js_redundant_comment",
			Axis:      finding.AxisNoise,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Redundant comment restating obvious code",
			Expressions: []registry.Expression{
				{Source: `//\s*(increment|decrement|set|assign|return|get|initialize|init|create)\s+\w+\s*$`, IgnoreCase: true, Multiline: true},
			},
		},
		{
			ID:        "js_commented_code",
			Axis:      finding.AxisNoise,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Commented-out code - remove or use version control",
			Expressions: []registry.Expression{
				{Source: `//\s*(const|let|var|function|if\s*\(|for\s*\(|while\s*\(|return\s+)`, IgnoreCase: true},
			},
		},

		// Style axis.
		{
			ID:        "js_overconfident_comment",
			Axis:      finding.AxisStyle,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Overconfident comment - code should speak for itself",
			Expressions: []registry.Expression{
				{Source: `//\s*(obviously|clearly|trivial|of course)\b`, IgnoreCase: true},
			},
		},
		{
			ID:        "js_hedging_comment",
			Axis:      finding.AxisStyle,
			Severity:  finding.SeverityHigh,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Hedging comment indicates AI uncertainty - verify implementation",
			Expressions: []registry.Expression{
				{Source: `//\s*(should work|hopefully|try this|i think)\b`, IgnoreCase: true},
			},
		},
		{
			ID:        "js_var_keyword",
			Axis:      finding.AxisStyle,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Use 'const' or 'let' instead of 'var'",
			Expressions: []registry.Expression{
				{Source: `\bvar\s+\w+\s*=`},
			},
		},
		{
			ID:        "js_unnecessary_iife",
			Axis:      finding.AxisStyle,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Unnecessary IIFE wrapper - over-engineered async call",
			Expressions: []registry.Expression{
				{Source: `const\s+\w+\s*=\s*\(\s*async\s*\(\)`},
			},
		},
		{
			ID:        "js_nested_ternary_abuse",
			Axis:      finding.AxisStyle,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Nested ternary - extract to switch statement or lookup object",
			Expressions: []registry.Expression{
				{Source: `\?[^:?\n]+:[^:?\n]+\?[^:?\n]+:`},
			},
		},
		{
			ID:        "js_magic_css_value",
			Axis:      finding.AxisStyle,
			Severity:  finding.SeverityLow,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Magic CSS value - extract to design token or const",
			Expressions: []registry.Expression{
				{Source: `\b(\d{3,4}px|#\w{6}\b|rgba?\([^)\n]+\)|hsl\(\d+)`},
			},
		},
	}
}
