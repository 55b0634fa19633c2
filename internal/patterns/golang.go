package patterns

import (
	"github.com/Sumatoshi-tech/sloppy/internal/classify"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

func goPatterns() []registry.Pattern {
	langs := []string{classify.LangGo}

	return []registry.Pattern{
		// Noise axis.
		{
			ID:        "go_debug_print",
			Axis:      finding.AxisNoise,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Debug print statement - use a logger",
			Expressions: []registry.Expression{
				{Source: `^\s*fmt\.Print(ln|f)?\(`, Multiline: true},
				{Source: `^\s*println\(`, Multiline: true},
			},
		},
		{
			ID:        "go_todo_comment",
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
			ID:        "go_commented_code",
			Axis:      finding.AxisNoise,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Commented-out code - remove or use version control",
			Expressions: []registry.Expression{
				{Source: `^\s*//\s*(func |var |const |type |return |if |for )`, Multiline: true},
			},
		},

		// Quality axis.
		{
			ID:        "go_ignored_error",
			Axis:      finding.AxisQuality,
			Severity:  finding.SeverityHigh,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Error discarded with blank identifier - handle it",
			Expressions: []registry.Expression{
				{Source: `,\s*_\s*(:?=)\s*\w+[\w.]*\(`},
			},
		},
		{
			ID:        "go_panic_usage",
			Axis:      finding.AxisQuality,
			Severity:  finding.SeverityMedium,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "panic in library code - return an error instead",
			Expressions: []registry.Expression{
				{Source: `^\s*panic\(`, Multiline: true},
			},
		},

		// Style axis (the original deeplint Go catalog).
		{
			ID:        "go_overconfident_comment",
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
			ID:        "go_hedging_comment",
			Axis:      finding.AxisStyle,
			Severity:  finding.SeverityHigh,
			Languages: langs,
			Strategy:  registry.StrategyRegex,
			Message:   "Hedging comment indicates AI uncertainty - verify implementation",
			Expressions: []registry.Expression{
				{Source: `//\s*(should work|hopefully|try this|i think)\b`, IgnoreCase: true},
			},
		},
	}
}
