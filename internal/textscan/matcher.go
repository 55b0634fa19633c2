// Package textscan applies compiled regex patterns to raw file content,
// independent of syntax validity.
package textscan

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

// maxSnippetLen bounds the snippet carried on a finding.
const maxSnippetLen = 160

// Source wraps file content with a precomputed line index so byte offsets
// resolve to line/column in O(log n).
type Source struct {
	content     []byte
	lineOffsets []int
}

// NewSource indexes content for offset resolution.
func NewSource(content []byte) *Source {
	offsets := []int{0}

	for i, b := range content {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}

	return &Source{content: content, lineOffsets: offsets}
}

// Position resolves a byte offset to a 1-based line and column.
func (s *Source) Position(offset int) (line, column int) {
	idx := sort.Search(len(s.lineOffsets), func(i int) bool {
		return s.lineOffsets[i] > offset
	}) - 1

	return idx + 1, offset - s.lineOffsets[idx] + 1
}

// Line returns the trimmed text of a 1-based line, bounded for snippets.
func (s *Source) Line(line int) string {
	if line < 1 || line > len(s.lineOffsets) {
		return ""
	}

	start := s.lineOffsets[line-1]

	end := len(s.content)
	if line < len(s.lineOffsets) {
		end = s.lineOffsets[line] - 1
	}

	text := strings.TrimSpace(string(s.content[start:end]))
	if len(text) > maxSnippetLen {
		text = text[:snippetCut(text, maxSnippetLen)]
	}

	return text
}

// snippetCut backs a byte limit off to the nearest rune boundary so a
// truncated snippet stays valid UTF-8.
func snippetCut(s string, limit int) int {
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}

	return limit
}

// Match runs every expression of a regex pattern over the source and returns
// findings. A single logical issue matched several times on one line is
// reported once: findings are de-duplicated by (pattern ID, line) before
// returning.
func Match(pattern registry.Pattern, path, language string, source *Source) []finding.Finding {
	var findings []finding.Finding

	seenLines := make(map[int]bool)

	for i := range pattern.Expressions {
		expr := &pattern.Expressions[i]

		for _, loc := range expr.Regexp().FindAllIndex(source.content, -1) {
			line, column := source.Position(loc[0])
			if seenLines[line] {
				continue
			}

			seenLines[line] = true

			findings = append(findings, finding.Finding{
				PatternID: pattern.ID,
				Axis:      pattern.Axis,
				Severity:  pattern.Severity,
				Language:  language,
				File:      path,
				Line:      line,
				Column:    column,
				Message:   pattern.Message,
				Snippet:   source.Line(line),
			})
		}
	}

	return findings
}
