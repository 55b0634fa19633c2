// Package finding defines the value types shared by all detectors: findings,
// axes, severities, and unit-level diagnostics.
package finding

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Axis categorizes a finding by the kind of damage it signals.
type Axis string

// Finding axes.
const (
	AxisNoise     Axis = "noise"
	AxisQuality   Axis = "quality"
	AxisStyle     Axis = "style"
	AxisStructure Axis = "structure"
)

// Axes returns all axes in canonical order.
func Axes() []Axis {
	return []Axis{AxisNoise, AxisQuality, AxisStyle, AxisStructure}
}

// ErrUnknownAxis is returned when an axis string does not name a known axis.
var ErrUnknownAxis = errors.New("unknown axis")

// ParseAxis converts a string to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch Axis(strings.ToLower(s)) {
	case AxisNoise:
		return AxisNoise, nil
	case AxisQuality:
		return AxisQuality, nil
	case AxisStyle:
		return AxisStyle, nil
	case AxisStructure:
		return AxisStructure, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAxis, s)
	}
}

// Severity grades how bad a finding is.
type Severity string

// Finding severities, ordered from least to most severe.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// severityRanks orders severities for floor comparisons.
var severityRanks = map[Severity]int{
	SeverityLow:      0,
	SeverityMedium:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Rank returns the ordinal position of the severity. Unknown severities rank
// below low so they never pass a floor check.
func (s Severity) Rank() int {
	rank, ok := severityRanks[s]
	if !ok {
		return -1
	}

	return rank
}

// AtLeast reports whether s is at or above the given floor.
func (s Severity) AtLeast(floor Severity) bool {
	return s.Rank() >= floor.Rank()
}

// ErrUnknownSeverity is returned when a severity string does not name a known severity.
var ErrUnknownSeverity = errors.New("unknown severity")

// ParseSeverity converts a string to a Severity.
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToLower(s))
	if _, ok := severityRanks[sev]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSeverity, s)
	}

	return sev, nil
}

// Finding is a single detected issue. Findings are immutable once created;
// detectors return them and nothing downstream mutates them.
type Finding struct {
	PatternID string   `json:"pattern_id" yaml:"pattern_id"`
	Axis      Axis     `json:"axis"       yaml:"axis"`
	Severity  Severity `json:"severity"   yaml:"severity"`
	Language  string   `json:"language"   yaml:"language"`
	File      string   `json:"file"       yaml:"file"`
	Line      int      `json:"line"       yaml:"line"`
	Column    int      `json:"column,omitempty" yaml:"column,omitempty"`
	Message   string   `json:"message"    yaml:"message"`
	Snippet   string   `json:"snippet"    yaml:"snippet"`
}

// Diagnostic reports a unit-level degradation that is not a pattern finding:
// an unreadable file, a binary file, or a parse failure that dropped a unit
// back to regex-only coverage.
type Diagnostic struct {
	File   string `json:"file"   yaml:"file"`
	Reason string `json:"reason" yaml:"reason"`
}

// Sort orders findings by file, then line, then pattern ID, then column.
// The scan stage runs units in parallel, so the final report order must not
// depend on worker completion order.
func Sort(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.File != b.File {
			return a.File < b.File
		}

		if a.Line != b.Line {
			return a.Line < b.Line
		}

		if a.PatternID != b.PatternID {
			return a.PatternID < b.PatternID
		}

		return a.Column < b.Column
	})
}
