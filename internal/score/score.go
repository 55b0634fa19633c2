// Package score folds a frozen finding list into per-axis subtotals, a
// weighted total, and a verdict tier. Pure and deterministic: the report is
// derived from the findings alone, computed once, never incrementally.
package score

import (
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
)

// Verdict tiers, ordered from best to worst.
type Verdict string

// Verdicts.
const (
	VerdictClean      Verdict = "CLEAN"
	VerdictAcceptable Verdict = "ACCEPTABLE"
	VerdictSloppy     Verdict = "SLOPPY"
	VerdictDisaster   Verdict = "DISASTER"
)

// Default severity weights.
const (
	weightLow      = 1
	weightMedium   = 3
	weightHigh     = 7
	weightCritical = 15
)

// Weights is the weight(axis, severity) lookup table.
type Weights map[finding.Axis]map[finding.Severity]int

// DefaultWeights returns the built-in table. Weights are uniform across
// axes; the table stays keyed by axis so per-axis tuning is a config edit.
func DefaultWeights() Weights {
	weights := make(Weights, len(finding.Axes()))

	for _, axis := range finding.Axes() {
		weights[axis] = map[finding.Severity]int{
			finding.SeverityLow:      weightLow,
			finding.SeverityMedium:   weightMedium,
			finding.SeverityHigh:     weightHigh,
			finding.SeverityCritical: weightCritical,
		}
	}

	return weights
}

// Weight resolves one finding's contribution. Unknown axis/severity
// combinations contribute the low weight so a finding never scores zero.
func (w Weights) Weight(axis finding.Axis, severity finding.Severity) int {
	if bySeverity, ok := w[axis]; ok {
		if weight, ok := bySeverity[severity]; ok {
			return weight
		}
	}

	return weightLow
}

// Thresholds are the ordered, non-overlapping verdict breakpoints: a total
// at or below Clean is CLEAN, at or below Acceptable is ACCEPTABLE, and so
// on; everything above Sloppy is DISASTER.
type Thresholds struct {
	Clean      int
	Acceptable int
	Sloppy     int
}

// DefaultThresholds returns the built-in breakpoints.
func DefaultThresholds() Thresholds {
	return Thresholds{Clean: 20, Acceptable: 75, Sloppy: 150}
}

// Report is the aggregate score for one scan.
type Report struct {
	AxisSubtotals map[finding.Axis]int `json:"axis_subtotals" yaml:"axis_subtotals"`
	Total         int                  `json:"total"          yaml:"total"`
	Verdict       Verdict              `json:"verdict"        yaml:"verdict"`
}

// Compute scores a finding list. Monotonic by construction: every finding
// contributes a positive weight, and the tiering function never improves
// when a subtotal grows.
func Compute(findings []finding.Finding, weights Weights, thresholds Thresholds) Report {
	subtotals := make(map[finding.Axis]int, len(finding.Axes()))
	for _, axis := range finding.Axes() {
		subtotals[axis] = 0
	}

	total := 0

	for _, f := range findings {
		weight := weights.Weight(f.Axis, f.Severity)
		subtotals[f.Axis] += weight
		total += weight
	}

	return Report{
		AxisSubtotals: subtotals,
		Total:         total,
		Verdict:       verdictFor(total, thresholds),
	}
}

func verdictFor(total int, t Thresholds) Verdict {
	switch {
	case total <= t.Clean:
		return VerdictClean
	case total <= t.Acceptable:
		return VerdictAcceptable
	case total <= t.Sloppy:
		return VerdictSloppy
	default:
		return VerdictDisaster
	}
}
