package finding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	t.Parallel()

	sev, err := ParseSeverity("CRITICAL")
	require.NoError(t, err)
	assert.Equal(t, SeverityCritical, sev)

	_, err = ParseSeverity("catastrophic")
	require.ErrorIs(t, err, ErrUnknownSeverity)
}

func TestParseAxis(t *testing.T) {
	t.Parallel()

	axis, err := ParseAxis("Structure")
	require.NoError(t, err)
	assert.Equal(t, AxisStructure, axis)

	_, err = ParseAxis("vibes")
	require.ErrorIs(t, err, ErrUnknownAxis)
}

func TestSeverityOrdering(t *testing.T) {
	t.Parallel()

	assert.True(t, SeverityCritical.AtLeast(SeverityLow))
	assert.True(t, SeverityMedium.AtLeast(SeverityMedium))
	assert.False(t, SeverityLow.AtLeast(SeverityHigh))

	// Unknown severities never pass a floor.
	assert.False(t, Severity("bogus").AtLeast(SeverityLow))
}

func TestSortIsDeterministic(t *testing.T) {
	t.Parallel()

	findings := []Finding{
		{File: "b.py", Line: 3, PatternID: "todo_comment"},
		{File: "a.py", Line: 9, PatternID: "hedging_comment"},
		{File: "a.py", Line: 2, PatternID: "todo_comment"},
		{File: "a.py", Line: 2, PatternID: "print_debugging"},
	}

	Sort(findings)

	assert.Equal(t, "print_debugging", findings[0].PatternID)
	assert.Equal(t, "todo_comment", findings[1].PatternID)
	assert.Equal(t, "hedging_comment", findings[2].PatternID)
	assert.Equal(t, "b.py", findings[3].File)
}
