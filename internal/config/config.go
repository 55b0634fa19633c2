// Package config loads the scan configuration file and resolves it into the
// engine's option set. The engine itself never reads configuration; it
// consumes the resolved Options.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/sloppy/internal/astcheck"
	"github.com/Sumatoshi-tech/sloppy/internal/clones"
	"github.com/Sumatoshi-tech/sloppy/internal/engine"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/score"
)

// Config mirrors the configuration file. Zero values defer to the engine's
// defaults.
type Config struct {
	Languages         []string          `mapstructure:"languages"`
	Axes              []string          `mapstructure:"axes"`
	DisabledPatterns  []string          `mapstructure:"disabled_patterns"`
	SeverityFloor     string            `mapstructure:"severity_floor"`
	Workers           int               `mapstructure:"workers"`
	WallBudget        string            `mapstructure:"wall_budget"`
	LanguageOverrides map[string]string `mapstructure:"language_overrides"`

	Duplicates DuplicatesConfig `mapstructure:"duplicates"`
	Thresholds ThresholdConfig  `mapstructure:"thresholds"`
	Verdict    VerdictConfig    `mapstructure:"verdict"`
}

// DuplicatesConfig holds the duplicate-detection knobs.
type DuplicatesConfig struct {
	WindowSize      int  `mapstructure:"window_size"`
	MinSpanLines    int  `mapstructure:"min_span_lines"`
	KeepIdentifiers bool `mapstructure:"keep_identifiers"`
}

// ThresholdConfig holds the syntax-tree check thresholds.
type ThresholdConfig struct {
	MaxFunctionStatements int `mapstructure:"max_function_statements"`
	MaxClassMethods       int `mapstructure:"max_class_methods"`
	MaxNestingDepth       int `mapstructure:"max_nesting_depth"`
}

// VerdictConfig holds the verdict breakpoints.
type VerdictConfig struct {
	Clean      int `mapstructure:"clean"`
	Acceptable int `mapstructure:"acceptable"`
	Sloppy     int `mapstructure:"sloppy"`
}

// ErrInvalidConfig wraps semantic configuration errors. Like duplicate
// pattern IDs, they are fatal before any scan begins.
var ErrInvalidConfig = errors.New("invalid configuration")

// Options resolves the file configuration into engine options. The pattern
// registry is supplied by the caller; the file only tunes the scan.
func (c *Config) Options() (engine.Options, error) {
	c.normalize()

	opts := engine.Options{
		Languages:         c.Languages,
		DisabledPatterns:  c.DisabledPatterns,
		LanguageOverrides: c.LanguageOverrides,
		Workers:           c.Workers,
		Tree: astcheck.Config{
			MaxFunctionStatements: c.Thresholds.MaxFunctionStatements,
			MaxClassMethods:       c.Thresholds.MaxClassMethods,
			MaxNestingDepth:       c.Thresholds.MaxNestingDepth,
		},
		Duplicates: clones.Config{
			WindowSize:        c.Duplicates.WindowSize,
			MinSpanLines:      c.Duplicates.MinSpanLines,
			RenameIdentifiers: !c.Duplicates.KeepIdentifiers,
		},
	}

	for _, raw := range c.Axes {
		axis, err := finding.ParseAxis(raw)
		if err != nil {
			return engine.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

		opts.EnabledAxes = append(opts.EnabledAxes, axis)
	}

	if c.SeverityFloor != "" {
		floor, err := finding.ParseSeverity(c.SeverityFloor)
		if err != nil {
			return engine.Options{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

		opts.SeverityFloor = floor
	}

	if c.WallBudget != "" {
		budget, err := time.ParseDuration(c.WallBudget)
		if err != nil {
			return engine.Options{}, fmt.Errorf("%w: wall_budget: %w", ErrInvalidConfig, err)
		}

		opts.WallBudget = budget
	}

	if c.Verdict != (VerdictConfig{}) {
		if c.Verdict.Clean >= c.Verdict.Acceptable || c.Verdict.Acceptable >= c.Verdict.Sloppy {
			return engine.Options{}, fmt.Errorf("%w: verdict breakpoints must be strictly increasing", ErrInvalidConfig)
		}

		opts.Thresholds = score.Thresholds{
			Clean:      c.Verdict.Clean,
			Acceptable: c.Verdict.Acceptable,
			Sloppy:     c.Verdict.Sloppy,
		}
	}

	return opts, nil
}

func (c *Config) normalize() {
	for i, lang := range c.Languages {
		c.Languages[i] = strings.ToLower(lang)
	}
}
