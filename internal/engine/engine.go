// Package engine orchestrates a scan: classification, the parallel per-file
// pass, the whole-corpus passes behind the barrier, and scoring. The caller
// supplies a resolved option set and consumes the result; nothing here
// parses flags or renders output.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Sumatoshi-tech/sloppy/internal/astcheck"
	"github.com/Sumatoshi-tech/sloppy/internal/classify"
	"github.com/Sumatoshi-tech/sloppy/internal/clones"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
	"github.com/Sumatoshi-tech/sloppy/internal/score"
	"github.com/Sumatoshi-tech/sloppy/internal/textscan"
)

// DuplicatePatternID is the registry ID of the duplicate-code detector.
const DuplicatePatternID = "duplicate_code"

// ErrNoRegistry is returned when Options carries no registry.
var ErrNoRegistry = errors.New("engine: options carry no pattern registry")

// Options is the configuration surface the boundary layer resolves and the
// engine consumes.
type Options struct {
	// Registry holds the validated detector set. Required.
	Registry *registry.Registry

	// Languages restricts the scan to the given language tags. Empty means
	// every supported language.
	Languages []string

	// EnabledAxes restricts detection to the given axes. Empty means all.
	EnabledAxes []finding.Axis

	// DisabledPatterns removes detectors by ID.
	DisabledPatterns []string

	// SeverityFloor drops findings below the given severity. Zero value
	// keeps everything.
	SeverityFloor finding.Severity

	// LanguageOverrides maps extensions (".pyx") to language tags.
	LanguageOverrides map[string]string

	// Workers bounds the per-file parallelism. Zero means GOMAXPROCS.
	Workers int

	// WallBudget is an optional wall-clock budget for the batch. Once
	// exhausted, unscheduled units are skipped with a diagnostic; in-flight
	// units finish normally.
	WallBudget time.Duration

	// Tree holds the syntax-tree check thresholds.
	Tree astcheck.Config

	// Duplicates holds the duplicate-detection knobs.
	Duplicates clones.Config

	// Weights and Thresholds drive scoring. Zero values use the defaults.
	Weights    score.Weights
	Thresholds score.Thresholds
}

// Result is one scan's complete output.
type Result struct {
	Findings    []finding.Finding    `json:"findings"    yaml:"findings"`
	Groups      []clones.Group       `json:"duplicates"  yaml:"duplicates"`
	Diagnostics []finding.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Skipped     []string             `json:"skipped"     yaml:"skipped"`
	Scanned     int                  `json:"scanned"     yaml:"scanned"`
	Score       score.Report         `json:"score"       yaml:"score"`
}

// unitState is one ScanUnit's slot in the arena. Units are assigned a
// stable index when enqueued; workers write only their own slot.
type unitState struct {
	path     string
	language string

	findings   []finding.Finding
	statements []clones.Statement
	symbols    *astcheck.Symbols
	diagnostic *finding.Diagnostic
}

// Scanner runs scans with a fixed option set.
type Scanner struct {
	opts     Options
	analyzer *astcheck.Analyzer
}

// NewScanner validates options and builds a scanner.
func NewScanner(opts Options) (*Scanner, error) {
	if opts.Registry == nil {
		return nil, ErrNoRegistry
	}

	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}

	if opts.Weights == nil {
		opts.Weights = score.DefaultWeights()
	}

	if (opts.Thresholds == score.Thresholds{}) {
		opts.Thresholds = score.DefaultThresholds()
	}

	return &Scanner{
		opts:     opts,
		analyzer: astcheck.NewAnalyzer(opts.Tree),
	}, nil
}

// Scan processes the given paths as one closed batch.
func (s *Scanner) Scan(ctx context.Context, paths []string) (*Result, error) {
	classifier := classify.New(s.opts.LanguageOverrides)
	allowed := s.allowedLanguages()

	result := &Result{}

	// Classification is pure and cheap; resolve it up front so the unit
	// arena only holds scannable files and the skip manifest is complete.
	units := make([]*unitState, 0, len(paths))

	for _, path := range paths {
		language := classifier.Classify(path)
		if language == classify.Unknown || (allowed != nil && !allowed[language]) {
			result.Skipped = append(result.Skipped, path)

			continue
		}

		units = append(units, &unitState{path: path, language: language})
	}

	var deadline time.Time
	if s.opts.WallBudget > 0 {
		deadline = time.Now().Add(s.opts.WallBudget)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.opts.Workers)

	for _, unit := range units {
		group.Go(func() error {
			// The budget refuses to schedule further units; it never kills
			// an in-flight analyzer.
			if !deadline.IsZero() && time.Now().After(deadline) {
				unit.diagnostic = &finding.Diagnostic{File: unit.path, Reason: "wall-clock budget exhausted before scheduling"}

				return nil
			}

			if err := groupCtx.Err(); err != nil {
				return fmt.Errorf("scan canceled: %w", err)
			}

			s.scanUnit(groupCtx, unit)

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	s.reduce(result, units)

	return result, nil
}

// scanUnit runs the per-file pass for one unit. Failures degrade the unit
// and are recorded as diagnostics; they never abort the batch.
func (s *Scanner) scanUnit(ctx context.Context, unit *unitState) {
	content, err := os.ReadFile(unit.path)
	if err != nil {
		unit.diagnostic = &finding.Diagnostic{File: unit.path, Reason: fmt.Sprintf("read failed: %v", err)}

		return
	}

	if classify.IsBinary(content) {
		unit.diagnostic = &finding.Diagnostic{File: unit.path, Reason: "binary file"}

		return
	}

	applicable := s.opts.Registry.PatternsFor(unit.language, registry.Filter{
		Axes:        s.opts.EnabledAxes,
		DisabledIDs: s.opts.DisabledPatterns,
	})

	source := textscan.NewSource(content)

	var treePatterns []registry.Pattern

	for _, pattern := range applicable {
		switch pattern.Strategy {
		case registry.StrategyRegex:
			unit.findings = append(unit.findings, textscan.Match(pattern, unit.path, unit.language, source)...)
		case registry.StrategyTree:
			treePatterns = append(treePatterns, pattern)
		}
	}

	if len(treePatterns) > 0 && s.analyzer.Supports(unit.language) {
		treeFindings, symbols, analyzeErr := s.analyzer.AnalyzeUnit(ctx, unit.path, unit.language, content, treePatterns)
		if analyzeErr != nil {
			// Syntax error: the unit keeps its regex findings and degrades.
			unit.diagnostic = &finding.Diagnostic{File: unit.path, Reason: fmt.Sprintf("parse failed, regex-only coverage: %v", analyzeErr)}
		} else {
			unit.findings = append(unit.findings, treeFindings...)
			unit.symbols = symbols
		}
	}

	unit.statements = clones.Normalize(unit.language, content, s.opts.Duplicates.RenameIdentifiers)
}

// reduce is the single-writer reduction behind the barrier: the duplicate
// pass, the corpus dead-code pass, the severity floor, ordering, and the
// score.
func (s *Scanner) reduce(result *Result, units []*unitState) {
	duplicatePattern, duplicateEnabled := s.patternEnabled(DuplicatePatternID)
	unreferencedPattern, unreferencedEnabled := s.patternEnabled("unreferenced_definition")

	finder := clones.NewFinder(s.opts.Duplicates)
	corpus := astcheck.NewCorpusIndex()
	languages := make(map[string]string, len(units))

	for _, unit := range units {
		if unit.diagnostic != nil {
			result.Diagnostics = append(result.Diagnostics, *unit.diagnostic)
		}

		result.Findings = append(result.Findings, unit.findings...)

		if unit.statements != nil {
			result.Scanned++
			languages[unit.path] = unit.language

			if duplicateEnabled {
				finder.Add(unit.path, unit.statements)
			}
		}

		if unreferencedEnabled {
			corpus.Add(unit.symbols)
		}
	}

	if duplicateEnabled {
		result.Groups = finder.Find()
		result.Findings = append(result.Findings, clones.Findings(result.Groups, duplicatePattern, languages)...)
	}

	if unreferencedEnabled {
		result.Findings = append(result.Findings, corpus.Unreferenced(unreferencedPattern)...)
	}

	result.Findings = s.applyFloor(result.Findings)
	finding.Sort(result.Findings)

	result.Score = score.Compute(result.Findings, s.opts.Weights, s.opts.Thresholds)
}

// patternEnabled resolves a corpus-pass pattern, honoring the axis and
// disable-list filters.
func (s *Scanner) patternEnabled(id string) (registry.Pattern, bool) {
	pattern, ok := s.opts.Registry.Lookup(id)
	if !ok {
		return registry.Pattern{}, false
	}

	for _, disabled := range s.opts.DisabledPatterns {
		if disabled == id {
			return registry.Pattern{}, false
		}
	}

	if len(s.opts.EnabledAxes) > 0 {
		enabled := false

		for _, axis := range s.opts.EnabledAxes {
			if axis == pattern.Axis {
				enabled = true
			}
		}

		if !enabled {
			return registry.Pattern{}, false
		}
	}

	return pattern, true
}

func (s *Scanner) applyFloor(findings []finding.Finding) []finding.Finding {
	if s.opts.SeverityFloor == "" || s.opts.SeverityFloor == finding.SeverityLow {
		return findings
	}

	kept := findings[:0]

	for _, f := range findings {
		if f.Severity.AtLeast(s.opts.SeverityFloor) {
			kept = append(kept, f)
		}
	}

	return kept
}

func (s *Scanner) allowedLanguages() map[string]bool {
	if len(s.opts.Languages) == 0 {
		return nil
	}

	allowed := make(map[string]bool, len(s.opts.Languages))
	for _, lang := range s.opts.Languages {
		allowed[lang] = true
	}

	return allowed
}
