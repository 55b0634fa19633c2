package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sloppy/internal/engine"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/patterns"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
	"github.com/Sumatoshi-tech/sloppy/internal/score"
)

func defaultRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	reg, err := patterns.NewDefaultRegistry()
	require.NoError(t, err)

	return reg
}

func writeFiles(t *testing.T, files map[string]string) []string {
	t.Helper()

	dir := t.TempDir()
	paths := make([]string, 0, len(files))

	for name, contents := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
		paths = append(paths, path)
	}

	return paths
}

func scan(t *testing.T, opts engine.Options, files map[string]string) *engine.Result {
	t.Helper()

	if opts.Registry == nil {
		opts.Registry = defaultRegistry(t)
	}

	scanner, err := engine.NewScanner(opts)
	require.NoError(t, err)

	result, err := scanner.Scan(context.Background(), writeFiles(t, files))
	require.NoError(t, err)

	return result
}

func findingIDs(findings []finding.Finding) []string {
	ids := make([]string, 0, len(findings))
	for _, f := range findings {
		ids = append(ids, f.PatternID)
	}

	return ids
}

func TestScanRequiresRegistry(t *testing.T) {
	t.Parallel()

	_, err := engine.NewScanner(engine.Options{})
	require.ErrorIs(t, err, engine.ErrNoRegistry)
}

func TestScanMutableDefaultScore(t *testing.T) {
	t.Parallel()

	opts := engine.Options{
		EnabledAxes:      []finding.Axis{finding.AxisQuality},
		DisabledPatterns: []string{"unreferenced_definition"},
	}

	result := scan(t, opts, map[string]string{
		"sloppy.py": "def f(items=[]):\n    items.append(1)\n",
		"clean.py":  "def g(items=None):\n    items = items or []\n",
	})

	assert.Equal(t, 2, result.Scanned)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, "mutable_default_argument", result.Findings[0].PatternID)
	assert.Equal(t, finding.SeverityCritical, result.Findings[0].Severity)

	// One critical quality finding scores exactly the critical weight.
	assert.Equal(t, 15, result.Score.AxisSubtotals[finding.AxisQuality])
	assert.Equal(t, 15, result.Score.Total)
	assert.Equal(t, score.VerdictClean, result.Score.Verdict)
}

func TestScanParseFailureIsolation(t *testing.T) {
	t.Parallel()

	result := scan(t, engine.Options{}, map[string]string{
		"broken.py": "def f(:\nprint('still seen')\n",
		"good.py":   "print('found')\n",
	})

	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0].File, "broken.py")
	assert.Contains(t, result.Diagnostics[0].Reason, "regex-only")

	// The broken unit keeps its regex findings; the good unit is unaffected.
	files := make(map[string]bool)
	for _, f := range result.Findings {
		if f.PatternID == "print_debugging" {
			files[filepath.Base(f.File)] = true
		}
	}

	assert.True(t, files["broken.py"])
	assert.True(t, files["good.py"])
}

func TestScanDeterministicOrdering(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"b.py": "print('b')\nprint('b2')\n",
		"a.py": "x = 1\nprint('a')\n",
	}

	first := scan(t, engine.Options{DisabledPatterns: []string{"unreferenced_definition"}}, files)

	require.Len(t, first.Findings, 3)
	assert.Equal(t, "a.py", filepath.Base(first.Findings[0].File))
	assert.Equal(t, 2, first.Findings[0].Line)
	assert.Equal(t, "b.py", filepath.Base(first.Findings[1].File))
	assert.Equal(t, 1, first.Findings[1].Line)
	assert.Equal(t, "b.py", filepath.Base(first.Findings[2].File))
	assert.Equal(t, 2, first.Findings[2].Line)
}

func TestScanCrossFileDuplicates(t *testing.T) {
	t.Parallel()

	block := ""
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		block += name + "_val = fetch('" + name + "')\n"
	}

	result := scan(t, engine.Options{
		EnabledAxes: []finding.Axis{finding.AxisStructure},
	}, map[string]string{
		"first.py":  block,
		"second.py": block,
	})

	require.Len(t, result.Groups, 1)
	assert.Len(t, result.Groups[0].Locations, 2)

	ids := findingIDs(result.Findings)
	assert.Contains(t, ids, "duplicate_code")
}

func TestScanDisableDuplicatePattern(t *testing.T) {
	t.Parallel()

	block := ""
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		block += name + "_val = fetch('" + name + "')\n"
	}

	result := scan(t, engine.Options{
		DisabledPatterns: []string{"duplicate_code", "unreferenced_definition"},
	}, map[string]string{
		"first.py":  block,
		"second.py": block,
	})

	assert.Empty(t, result.Groups)
	assert.NotContains(t, findingIDs(result.Findings), "duplicate_code")
}

func TestScanUnreferencedAcrossFiles(t *testing.T) {
	t.Parallel()

	result := scan(t, engine.Options{
		EnabledAxes:      []finding.Axis{finding.AxisQuality},
		DisabledPatterns: []string{"unused_import"},
	}, map[string]string{
		"lib.py": "def helper():\n    pass\n\ndef orphan():\n    pass\n",
		"app.py": "from lib import helper\n\nhelper()\n",
	})

	var unreferenced []finding.Finding

	for _, f := range result.Findings {
		if f.PatternID == "unreferenced_definition" {
			unreferenced = append(unreferenced, f)
		}
	}

	require.Len(t, unreferenced, 1)
	assert.Contains(t, unreferenced[0].Message, "orphan")
}

func TestScanSeverityFloor(t *testing.T) {
	t.Parallel()

	result := scan(t, engine.Options{
		SeverityFloor:    finding.SeverityHigh,
		DisabledPatterns: []string{"unreferenced_definition"},
	}, map[string]string{
		"app.py": "import os\n\ndef f(x=[]):\n    print(x)\n    return x\n",
	})

	// print (low) and unused import (medium) fall below the floor; the
	// mutable default (critical) survives.
	ids := findingIDs(result.Findings)
	assert.Equal(t, []string{"mutable_default_argument"}, ids)
}

func TestScanLanguageAllowList(t *testing.T) {
	t.Parallel()

	result := scan(t, engine.Options{
		Languages: []string{"python"},
	}, map[string]string{
		"main.go": "package main\n",
		"app.py":  "x = 1\n",
	})

	assert.Equal(t, 1, result.Scanned)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0], "main.go")
}

func TestScanUnknownExtensionSkipped(t *testing.T) {
	t.Parallel()

	result := scan(t, engine.Options{}, map[string]string{
		"notes.xyzzy": "whatever\n",
	})

	assert.Zero(t, result.Scanned)
	assert.Len(t, result.Skipped, 1)
}

func TestScanBinaryFileDiagnostic(t *testing.T) {
	t.Parallel()

	result := scan(t, engine.Options{}, map[string]string{
		"blob.py": "x = 1\x00\x00\x01binary\n",
	})

	assert.Zero(t, result.Scanned)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "binary file", result.Diagnostics[0].Reason)
}

func TestScanMissingFileDiagnostic(t *testing.T) {
	t.Parallel()

	scanner, err := engine.NewScanner(engine.Options{Registry: defaultRegistry(t)})
	require.NoError(t, err)

	result, err := scanner.Scan(context.Background(), []string{filepath.Join(t.TempDir(), "gone.py")})
	require.NoError(t, err)

	require.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0].Reason, "read failed")
	assert.Equal(t, score.VerdictClean, result.Score.Verdict)
}

func TestScanWallBudgetExhausted(t *testing.T) {
	t.Parallel()

	result := scan(t, engine.Options{
		WallBudget: time.Nanosecond,
		Workers:    1,
	}, map[string]string{
		"a.py": "print('a')\n",
		"b.py": "print('b')\n",
	})

	// Nothing gets scheduled under an already-spent budget; every unit
	// surfaces a diagnostic instead of findings.
	assert.Empty(t, result.Findings)
	assert.Len(t, result.Diagnostics, 2)
}

func TestScanEmptyBatch(t *testing.T) {
	t.Parallel()

	scanner, err := engine.NewScanner(engine.Options{Registry: defaultRegistry(t)})
	require.NoError(t, err)

	result, err := scanner.Scan(context.Background(), nil)
	require.NoError(t, err)

	assert.Zero(t, result.Scanned)
	assert.Empty(t, result.Findings)
	assert.Equal(t, score.VerdictClean, result.Score.Verdict)
}
