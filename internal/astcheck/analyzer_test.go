package astcheck_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sloppy/internal/astcheck"
	"github.com/Sumatoshi-tech/sloppy/internal/classify"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

func treePattern(id, rule string, severity finding.Severity) registry.Pattern {
	return registry.Pattern{
		ID:        id,
		Axis:      finding.AxisQuality,
		Severity:  severity,
		Languages: []string{classify.LangPython},
		Strategy:  registry.StrategyTree,
		Rule:      rule,
		Message:   id,
	}
}

func analyze(t *testing.T, config astcheck.Config, source string, patterns ...registry.Pattern) []finding.Finding {
	t.Helper()

	analyzer := astcheck.NewAnalyzer(config)

	findings, _, err := analyzer.AnalyzeUnit(context.Background(), "unit.py", classify.LangPython, []byte(source), patterns)
	require.NoError(t, err)

	return findings
}

func TestMutableDefaults(t *testing.T) {
	t.Parallel()

	pattern := treePattern("mutable_default_argument", astcheck.RuleMutableDefault, finding.SeverityCritical)

	positives := []string{
		"def f(x=[]):\n    pass\n",
		"def f(x={}):\n    pass\n",
		"def f(x=set()):\n    pass\n",
		"def f(x=list()):\n    pass\n",
		"def f(x=dict()):\n    pass\n",
		"def f(x: list = []):\n    pass\n",
	}

	for _, source := range positives {
		findings := analyze(t, astcheck.Config{}, source, pattern)
		require.Len(t, findings, 1, "source: %q", source)
		assert.Equal(t, finding.SeverityCritical, findings[0].Severity)
	}

	negatives := []string{
		"def f(x=None):\n    pass\n",
		"def f(x=0):\n    pass\n",
		"def f(x):\n    pass\n",
		"def f(x=()):\n    pass\n",
		"def f(x='a'):\n    pass\n",
	}

	for _, source := range negatives {
		assert.Empty(t, analyze(t, astcheck.Config{}, source, pattern), "source: %q", source)
	}
}

func TestBareExcept(t *testing.T) {
	t.Parallel()

	pattern := treePattern("bare_except", astcheck.RuleBareExcept, finding.SeverityCritical)

	bare := "try:\n    work()\nexcept:\n    pass\n"
	findings := analyze(t, astcheck.Config{}, bare, pattern)
	require.Len(t, findings, 1)
	assert.Equal(t, 3, findings[0].Line)

	base := "try:\n    work()\nexcept BaseException:\n    pass\n"
	require.Len(t, analyze(t, astcheck.Config{}, base, pattern), 1)

	narrow := "try:\n    work()\nexcept ValueError:\n    pass\n"
	assert.Empty(t, analyze(t, astcheck.Config{}, narrow, pattern))
}

func TestBroadExcept(t *testing.T) {
	t.Parallel()

	pattern := treePattern("broad_except", astcheck.RuleBroadExcept, finding.SeverityHigh)

	broad := "try:\n    work()\nexcept Exception:\n    pass\n"
	require.Len(t, analyze(t, astcheck.Config{}, broad, pattern), 1)

	aliased := "try:\n    work()\nexcept Exception as exc:\n    raise\n"
	require.Len(t, analyze(t, astcheck.Config{}, aliased, pattern), 1)

	narrow := "try:\n    work()\nexcept KeyError:\n    pass\n"
	assert.Empty(t, analyze(t, astcheck.Config{}, narrow, pattern))
}

func TestUnusedImports(t *testing.T) {
	t.Parallel()

	pattern := treePattern("unused_import", astcheck.RuleUnusedImport, finding.SeverityMedium)

	unused := "import os\nimport sys\n\nprint(sys.argv)\n"
	findings := analyze(t, astcheck.Config{}, unused, pattern)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "os")

	used := "import os\n\nos.getcwd()\n"
	assert.Empty(t, analyze(t, astcheck.Config{}, used, pattern))

	aliased := "import numpy as np\n\nnp.zeros(3)\n"
	assert.Empty(t, analyze(t, astcheck.Config{}, aliased, pattern))

	aliasedUnused := "import numpy as np\n\nx = 1\n"
	require.Len(t, analyze(t, astcheck.Config{}, aliasedUnused, pattern), 1)

	fromImport := "from os import path\n\nx = 1\n"
	require.Len(t, analyze(t, astcheck.Config{}, fromImport, pattern), 1)

	// A wildcard import makes usage undecidable for the whole unit.
	wildcard := "from os import *\nimport sys\n\nx = 1\n"
	assert.Empty(t, analyze(t, astcheck.Config{}, wildcard, pattern))

	// Names exported through __all__ count as used.
	exported := "import os\n\n__all__ = ['os']\n"
	assert.Empty(t, analyze(t, astcheck.Config{}, exported, pattern))
}

func TestUnusedImportsIdempotent(t *testing.T) {
	t.Parallel()

	pattern := treePattern("unused_import", astcheck.RuleUnusedImport, finding.SeverityMedium)
	source := "import os\nimport json\n\nx = 1\n"

	first := analyze(t, astcheck.Config{}, source, pattern)
	second := analyze(t, astcheck.Config{}, source, pattern)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestDeadCode(t *testing.T) {
	t.Parallel()

	pattern := treePattern("dead_code", astcheck.RuleDeadCode, finding.SeverityMedium)

	dead := "def f():\n    return 1\n    x = 2\n    y = 3\n"
	findings := analyze(t, astcheck.Config{}, dead, pattern)

	// One finding per terminated block, not per dead statement.
	require.Len(t, findings, 1)
	assert.Equal(t, 3, findings[0].Line)

	loop := "def f():\n    for i in items:\n        continue\n        log(i)\n"
	require.Len(t, analyze(t, astcheck.Config{}, loop, pattern), 1)

	clean := "def f():\n    x = 1\n    return x\n"
	assert.Empty(t, analyze(t, astcheck.Config{}, clean, pattern))
}

func TestDeepNesting(t *testing.T) {
	t.Parallel()

	pattern := treePattern("deep_nesting", astcheck.RuleDeepNesting, finding.SeverityMedium)
	config := astcheck.Config{MaxNestingDepth: 2}

	deep := strings.Join([]string{
		"def f(xs):",
		"    for x in xs:",
		"        if x:",
		"            while x:",
		"                x -= 1",
	}, "\n") + "\n"

	findings := analyze(t, config, deep, pattern)
	require.Len(t, findings, 1)

	shallow := "def f(xs):\n    for x in xs:\n        if x:\n            use(x)\n"
	assert.Empty(t, analyze(t, config, shallow, pattern))
}

func TestGodFunction(t *testing.T) {
	t.Parallel()

	pattern := treePattern("god_function", astcheck.RuleGodFunction, finding.SeverityHigh)
	config := astcheck.Config{MaxFunctionStatements: 3}

	var b strings.Builder

	b.WriteString("def f():\n")
	for i := range 5 {
		b.WriteString(strings.Repeat(" ", 4))
		b.WriteString("x" + string(rune('a'+i)) + " = 1\n")
	}

	findings := analyze(t, config, b.String(), pattern)
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "god_function")

	small := "def f():\n    x = 1\n    return x\n"
	assert.Empty(t, analyze(t, config, small, pattern))
}

func TestGodClass(t *testing.T) {
	t.Parallel()

	pattern := treePattern("god_class", astcheck.RuleGodClass, finding.SeverityHigh)
	config := astcheck.Config{MaxClassMethods: 2}

	var b strings.Builder

	b.WriteString("class Big:\n")
	for _, name := range []string{"a", "b", "c"} {
		b.WriteString("    def " + name + "(self):\n        pass\n")
	}

	require.Len(t, analyze(t, config, b.String(), pattern), 1)

	small := "class Small:\n    def a(self):\n        pass\n"
	assert.Empty(t, analyze(t, config, small, pattern))
}

func TestParseFailure(t *testing.T) {
	t.Parallel()

	analyzer := astcheck.NewAnalyzer(astcheck.Config{})

	// Both recovery modes must fail the unit: trees with ERROR nodes and
	// trees where the grammar recovered by inserting a MISSING token.
	broken := []string{
		"def broken(\n",
		"def f(:\n",
		"def f(:\n    print('x')\n",
		"def f(:\nprint('still seen')\n",
	}

	for _, source := range broken {
		_, _, err := analyzer.AnalyzeUnit(context.Background(), "broken.py", classify.LangPython,
			[]byte(source), nil)

		require.ErrorIs(t, err, astcheck.ErrParseFailed, "source: %q", source)
	}
}

func TestUnsupportedLanguageIsNoop(t *testing.T) {
	t.Parallel()

	analyzer := astcheck.NewAnalyzer(astcheck.Config{})

	findings, symbols, err := analyzer.AnalyzeUnit(context.Background(), "main.go", classify.LangGo,
		[]byte("package main\n"), nil)

	require.NoError(t, err)
	assert.Nil(t, findings)
	assert.Nil(t, symbols)
}

func TestCorpusUnreferenced(t *testing.T) {
	t.Parallel()

	pattern := treePattern("unreferenced_definition", astcheck.RuleUnreferenced, finding.SeverityLow)
	analyzer := astcheck.NewAnalyzer(astcheck.Config{})

	units := map[string]string{
		"lib.py":  "def helper():\n    pass\n\ndef orphan():\n    pass\n\ndef _private():\n    pass\n",
		"main.py": "from lib import helper\n\ndef main():\n    helper()\n",
	}

	index := astcheck.NewCorpusIndex()

	for path, source := range units {
		_, symbols, err := analyzer.AnalyzeUnit(context.Background(), path, classify.LangPython, []byte(source), nil)
		require.NoError(t, err)

		index.Add(symbols)
	}

	findings := index.Unreferenced(pattern)

	// helper is referenced, main and _private are skipped by convention,
	// orphan is the only hit.
	require.Len(t, findings, 1)
	assert.Contains(t, findings[0].Message, "orphan")
	assert.Equal(t, "lib.py", findings[0].File)
}
