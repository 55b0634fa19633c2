// Package commands implements CLI command handlers for sloppy.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sloppy/internal/config"
	"github.com/Sumatoshi-tech/sloppy/internal/engine"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/patterns"
	"github.com/Sumatoshi-tech/sloppy/internal/render"
)

// ErrSeverityGate is returned when --fail-on matched at least one finding.
// The scan itself succeeded; the caller maps this to a distinct exit code.
var ErrSeverityGate = errors.New("findings at or above severity gate")

// ErrNoInputs is returned when path expansion produced no files to scan.
var ErrNoInputs = errors.New("no files to scan")

// skipDirs are directory names never descended into during path expansion.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	"node_modules": true,
	"vendor":       true,
	"__pycache__":  true,
}

// ScanCommand holds configuration and dependencies for the scan command.
type ScanCommand struct {
	configPath string
	format     string
	output     string
	noColor    bool
	workers    int
	failOn     string
	wallBudget string
	languages  []string
	disabled   []string
	axes       []string
}

// NewScanCommand creates the scan command.
func NewScanCommand() *cobra.Command {
	sc := &ScanCommand{format: string(render.FormatText)}

	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan files or directories for anti-patterns",
		Long:  "Scan the given files and directories, score the findings, and report a verdict.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  sc.run,
	}

	cmd.Flags().StringVarP(&sc.configPath, "config", "c", "", "Config file path (default: .sloppy.yaml in CWD or $HOME)")
	cmd.Flags().StringVar(&sc.format, "format", string(render.FormatText), "Output format: text, json, yaml, html")
	cmd.Flags().StringVarP(&sc.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&sc.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().IntVar(&sc.workers, "workers", 0, "Number of parallel workers (0 = use CPU count)")
	cmd.Flags().StringVar(&sc.failOn, "fail-on", "", "Exit non-zero if any finding is at or above this severity")
	cmd.Flags().StringVar(&sc.wallBudget, "wall-budget", "", "Stop scheduling new files after this duration (e.g. '30s')")
	cmd.Flags().StringSliceVar(&sc.languages, "lang", nil, "Only scan these languages (e.g. python,go)")
	cmd.Flags().StringSliceVar(&sc.disabled, "disable", nil, "Pattern IDs to disable")
	cmd.Flags().StringSliceVar(&sc.axes, "axes", nil, "Only report these axes (noise, quality, style, structure)")

	return cmd
}

func (sc *ScanCommand) run(cmd *cobra.Command, args []string) error {
	if sc.noColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	format, err := render.ParseFormat(sc.format)
	if err != nil {
		return err
	}

	opts, err := sc.resolveOptions(cmd)
	if err != nil {
		return err
	}

	files, err := expandPaths(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return ErrNoInputs
	}

	scanner, err := engine.NewScanner(opts)
	if err != nil {
		return err
	}

	result, err := scanner.Scan(cmd.Context(), files)
	if err != nil {
		return err
	}

	writer := cmd.OutOrStdout()

	if sc.output != "" {
		file, createErr := os.Create(sc.output)
		if createErr != nil {
			return fmt.Errorf("create output file: %w", createErr)
		}
		defer file.Close()

		writer = file
	}

	if err := render.Render(writer, format, result); err != nil {
		return err
	}

	return sc.applyGate(result)
}

// resolveOptions merges the config file with flag overrides. Flags win when
// explicitly set.
func (sc *ScanCommand) resolveOptions(cmd *cobra.Command) (engine.Options, error) {
	cfg, err := config.Load(sc.configPath)
	if err != nil {
		return engine.Options{}, err
	}

	if cmd.Flags().Changed("lang") {
		cfg.Languages = sc.languages
	}

	if cmd.Flags().Changed("disable") {
		cfg.DisabledPatterns = sc.disabled
	}

	if cmd.Flags().Changed("axes") {
		cfg.Axes = sc.axes
	}

	if cmd.Flags().Changed("workers") {
		cfg.Workers = sc.workers
	}

	if cmd.Flags().Changed("wall-budget") {
		cfg.WallBudget = sc.wallBudget
	}

	opts, err := cfg.Options()
	if err != nil {
		return engine.Options{}, err
	}

	opts.Registry, err = patterns.NewDefaultRegistry()
	if err != nil {
		return engine.Options{}, err
	}

	return opts, nil
}

// applyGate maps the severity gate onto an error the caller turns into the
// findings exit code.
func (sc *ScanCommand) applyGate(result *engine.Result) error {
	if sc.failOn == "" {
		return nil
	}

	gate, err := finding.ParseSeverity(sc.failOn)
	if err != nil {
		return err
	}

	matched := 0

	for _, f := range result.Findings {
		if f.Severity.AtLeast(gate) {
			matched++
		}
	}

	if matched > 0 {
		return fmt.Errorf("%w: %d findings >= %s", ErrSeverityGate, matched, gate)
	}

	return nil
}

// expandPaths resolves files and directories into a flat file list. Order is
// deterministic: WalkDir visits lexically within each argument.
func expandPaths(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}

		if !info.IsDir() {
			files = append(files, arg)

			continue
		}

		walkErr := filepath.WalkDir(arg, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if entry.IsDir() {
				name := entry.Name()
				if skipDirs[name] || (len(name) > 1 && name[0] == '.') {
					return filepath.SkipDir
				}

				return nil
			}

			files = append(files, path)

			return nil
		})
		if walkErr != nil {
			return nil, fmt.Errorf("walk %s: %w", arg, walkErr)
		}
	}

	return files, nil
}
