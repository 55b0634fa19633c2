package clones_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sloppy/internal/classify"
	"github.com/Sumatoshi-tech/sloppy/internal/clones"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

// The default knobs are part of the observable contract: fingerprint windows
// cover 5 normalized statements and a reported span covers at least 10 lines.
func TestDefaults(t *testing.T) {
	t.Parallel()

	config := clones.DefaultConfig()

	assert.Equal(t, 5, config.WindowSize)
	assert.Equal(t, 10, config.MinSpanLines)
	assert.True(t, config.RenameIdentifiers)
}

func TestNormalizeStripsCommentsAndBlanks(t *testing.T) {
	t.Parallel()

	source := "x = 1  # set up\n\n# full comment line\ny = 2\n"

	statements := clones.Normalize(classify.LangPython, []byte(source), false)

	require.Len(t, statements, 2)
	assert.Equal(t, clones.Statement{Line: 1, Text: "x = 1"}, statements[0])
	assert.Equal(t, clones.Statement{Line: 4, Text: "y = 2"}, statements[1])
}

func TestNormalizeIgnoresCommentMarkerInString(t *testing.T) {
	t.Parallel()

	source := "url = \"http://example.com#anchor\"\n"

	statements := clones.Normalize(classify.LangPython, []byte(source), false)

	require.Len(t, statements, 1)
	assert.Contains(t, statements[0].Text, "#anchor")
}

func TestNormalizeGoBlockComments(t *testing.T) {
	t.Parallel()

	source := "a := 1 /* one\nstill comment\nend */ + 2\nb := 3 // trailing\n"

	statements := clones.Normalize(classify.LangGo, []byte(source), false)

	require.Len(t, statements, 3)
	assert.Equal(t, "a := 1", statements[0].Text)
	assert.Equal(t, "+ 2", statements[1].Text)
	assert.Equal(t, "b := 3", statements[2].Text)
}

func TestNormalizeRenamesIdentifiers(t *testing.T) {
	t.Parallel()

	left := clones.Normalize(classify.LangPython, []byte("total = price * 2\n"), true)
	right := clones.Normalize(classify.LangPython, []byte("amount = cost * 2\n"), true)

	require.Len(t, left, 1)
	require.Len(t, right, 1)

	// Renamed variants collapse to the same normalized text.
	assert.Equal(t, left[0].Text, right[0].Text)
	assert.Equal(t, "$id = $id * $num", left[0].Text)
}

func TestNormalizeKeepsKeywords(t *testing.T) {
	t.Parallel()

	statements := clones.Normalize(classify.LangPython, []byte("return value if flag else None\n"), true)

	require.Len(t, statements, 1)
	assert.Equal(t, "return $id if $id else None", statements[0].Text)
}

func TestNormalizeKeepIdentifiersMode(t *testing.T) {
	t.Parallel()

	left := clones.Normalize(classify.LangPython, []byte("total = price\n"), false)
	right := clones.Normalize(classify.LangPython, []byte("amount = cost\n"), false)

	assert.NotEqual(t, left[0].Text, right[0].Text)
}

// duplicateBlock builds a block of n distinct statements, one per line,
// using the given identifier prefix.
func duplicateBlock(prefix string, n int) string {
	var b strings.Builder

	for i := range n {
		fmt.Fprintf(&b, "%s_%d = load(%d)\n", prefix, i, i)
	}

	return b.String()
}

func addUnit(f *clones.Finder, config clones.Config, path, source string) {
	f.Add(path, clones.Normalize(classify.LangPython, []byte(source), config.RenameIdentifiers))
}

func TestFindCrossFileDuplicate(t *testing.T) {
	t.Parallel()

	config := clones.DefaultConfig()
	finder := clones.NewFinder(config)

	// Same 12-statement block in both files, with renamed identifiers.
	addUnit(finder, config, "a.py", duplicateBlock("alpha", 12))
	addUnit(finder, config, "b.py", "setup()\n\n"+duplicateBlock("beta", 12))

	groups := finder.Find()

	require.Len(t, groups, 1)
	group := groups[0]

	require.Len(t, group.Locations, 2)
	assert.Equal(t, clones.Location{File: "a.py", StartLine: 1, EndLine: 12}, group.Locations[0])
	assert.Equal(t, clones.Location{File: "b.py", StartLine: 3, EndLine: 14}, group.Locations[1])
	assert.Equal(t, 12, group.Statements)
	assert.InEpsilon(t, 1.0, group.Similarity, 1e-9)
}

func TestFindOrderIndependent(t *testing.T) {
	t.Parallel()

	config := clones.DefaultConfig()

	forward := clones.NewFinder(config)
	addUnit(forward, config, "a.py", duplicateBlock("alpha", 12))
	addUnit(forward, config, "b.py", duplicateBlock("beta", 12))

	reverse := clones.NewFinder(config)
	addUnit(reverse, config, "b.py", duplicateBlock("beta", 12))
	addUnit(reverse, config, "a.py", duplicateBlock("alpha", 12))

	assert.Equal(t, forward.Find(), reverse.Find())
}

func TestFindRequiresEqualRunExtent(t *testing.T) {
	t.Parallel()

	config := clones.DefaultConfig()
	finder := clones.NewFinder(config)

	// b.py repeats the block with one extra matching statement, so its
	// merged run is one window longer and carries a different chain
	// signature. The occurrences do not group.
	addUnit(finder, config, "a.py", duplicateBlock("alpha", 12))
	addUnit(finder, config, "b.py", duplicateBlock("beta", 13))

	assert.Empty(t, finder.Find())
}

func TestFindRespectsMinSpan(t *testing.T) {
	t.Parallel()

	config := clones.DefaultConfig()
	finder := clones.NewFinder(config)

	// 6 statements match the window size but span fewer than 10 lines.
	addUnit(finder, config, "a.py", duplicateBlock("alpha", 6))
	addUnit(finder, config, "b.py", duplicateBlock("beta", 6))

	assert.Empty(t, finder.Find())
}

func TestFindNoDuplicates(t *testing.T) {
	t.Parallel()

	config := clones.DefaultConfig()
	finder := clones.NewFinder(config)

	addUnit(finder, config, "a.py", duplicateBlock("alpha", 12))

	var b strings.Builder
	for i := range 12 {
		fmt.Fprintf(&b, "if check_%d():\n", i)
		fmt.Fprintf(&b, "    handle(%d, %d)\n", i, i+1)
	}

	addUnit(finder, config, "b.py", b.String())

	assert.Empty(t, finder.Find())
}

func TestFindShortUnitsIgnored(t *testing.T) {
	t.Parallel()

	config := clones.DefaultConfig()
	finder := clones.NewFinder(config)

	addUnit(finder, config, "a.py", "x = 1\ny = 2\n")
	addUnit(finder, config, "b.py", "x = 1\ny = 2\n")

	assert.Empty(t, finder.Find())
}

func TestFindings(t *testing.T) {
	t.Parallel()

	pattern := registry.Pattern{
		ID:       "duplicate_code",
		Axis:     finding.AxisStructure,
		Severity: finding.SeverityHigh,
		Message:  "Duplicated block",
	}

	groups := []clones.Group{{
		Locations: []clones.Location{
			{File: "a.py", StartLine: 1, EndLine: 12},
			{File: "b.py", StartLine: 3, EndLine: 14},
		},
		Statements: 12,
		Similarity: 1.0,
	}}

	findings := clones.Findings(groups, pattern, map[string]string{"a.py": "python", "b.py": "python"})

	require.Len(t, findings, 2)
	assert.Equal(t, "a.py", findings[0].File)
	assert.Equal(t, 1, findings[0].Line)
	assert.Contains(t, findings[0].Message, "b.py:3-14")
	assert.Equal(t, "b.py", findings[1].File)
	assert.Contains(t, findings[1].Message, "a.py:1-12")
	assert.Equal(t, "python", findings[0].Language)
}
