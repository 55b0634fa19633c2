package clones

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/registry"
)

// Rule is the tree-rule tag of the duplicate-code pattern. The finder runs
// as a whole-corpus pass, not per file, so the rule is dispatched here after
// the barrier rather than inside the per-file analyzer.
const Rule = "duplicate-code"

// Default knobs. The window size and minimum span are policy, not
// invariants; these defaults are documented by the package tests.
const (
	DefaultWindowSize   = 5
	DefaultMinSpanLines = 10
)

// Config holds the duplicate-detection knobs.
type Config struct {
	// WindowSize is the number of consecutive normalized statements per
	// fingerprint window.
	WindowSize int

	// MinSpanLines is the minimum source-line span a group must cover.
	// Filters out trivial boilerplate matches such as import blocks.
	MinSpanLines int

	// RenameIdentifiers maps identifiers to positional placeholders during
	// normalization, catching copy-paste-with-rename.
	RenameIdentifiers bool
}

// DefaultConfig returns the default knobs.
func DefaultConfig() Config {
	return Config{
		WindowSize:        DefaultWindowSize,
		MinSpanLines:      DefaultMinSpanLines,
		RenameIdentifiers: true,
	}
}

func (c Config) normalize() Config {
	if c.WindowSize <= 0 {
		c.WindowSize = DefaultWindowSize
	}

	if c.MinSpanLines <= 0 {
		c.MinSpanLines = DefaultMinSpanLines
	}

	return c
}

// Location is one occurrence of a duplicated block.
type Location struct {
	File      string `json:"file"       yaml:"file"`
	StartLine int    `json:"start_line" yaml:"start_line"`
	EndLine   int    `json:"end_line"   yaml:"end_line"`
}

// Group is a set of locations sharing a chained fingerprint.
type Group struct {
	Locations  []Location `json:"locations"  yaml:"locations"`
	Statements int        `json:"statements" yaml:"statements"`
	Similarity float64    `json:"similarity" yaml:"similarity"`
}

// corpusUnit is one unit's normalized representation held by the finder.
type corpusUnit struct {
	path       string
	statements []Statement
}

// Finder accumulates normalized units and groups duplicated windows. Add is
// single-writer; Find may be called once after all units are added.
type Finder struct {
	config Config
	units  []corpusUnit
}

// NewFinder creates a Finder with the given knobs.
func NewFinder(config Config) *Finder {
	return &Finder{config: config.normalize()}
}

// Add registers a unit's normalized statement sequence.
func (f *Finder) Add(path string, statements []Statement) {
	f.units = append(f.units, corpusUnit{path: path, statements: statements})
}

// window is one fingerprinted slice of a unit's statement sequence.
type window struct {
	unit  int
	start int
}

// span is a merged run of chained matching windows within one unit.
type span struct {
	unit      int
	startStmt int
	endStmt   int // inclusive statement index
	signature uint64
}

// Find groups duplicated blocks across all added units. Groups are keyed by
// the chained fingerprint of a full run of matching windows, so results do
// not depend on the order units were added.
//
// Group identity requires runs of equal extent: when one occurrence's merged
// run extends past the shared block, because an adjacent statement also
// matches somewhere in the corpus, its chain signature differs and the
// occurrences do not group. The shared prefix is then reported only if at
// least two equal-extent runs remain.
func (f *Finder) Find() []Group {
	k := f.config.WindowSize

	hashes := make([][]uint64, len(f.units))
	counts := make(map[uint64]int)

	for i, unit := range f.units {
		if len(unit.statements) < k {
			continue
		}

		hashes[i] = make([]uint64, len(unit.statements)-k+1)

		for start := range hashes[i] {
			h := fingerprint(unit.statements[start : start+k])
			hashes[i][start] = h
			counts[h]++
		}
	}

	spans := f.collectSpans(hashes, counts)

	groups := make(map[uint64][]span)
	for _, s := range spans {
		groups[s.signature] = append(groups[s.signature], s)
	}

	var result []Group

	for _, members := range groups {
		group, ok := f.buildGroup(members)
		if ok {
			result = append(result, group)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Locations[0], result[j].Locations[0]
		if a.File != b.File {
			return a.File < b.File
		}

		return a.StartLine < b.StartLine
	})

	return result
}

// collectSpans merges consecutive matched windows of each unit into spans
// and signs each span with the chain of its window fingerprints.
func (f *Finder) collectSpans(hashes [][]uint64, counts map[uint64]int) []span {
	k := f.config.WindowSize

	var spans []span

	for unit, unitHashes := range hashes {
		runStart := -1

		flush := func(end int) {
			if runStart < 0 {
				return
			}

			spans = append(spans, span{
				unit:      unit,
				startStmt: runStart,
				endStmt:   end - 1 + k - 1,
				signature: chainSignature(unitHashes[runStart:end]),
			})
			runStart = -1
		}

		for start, h := range unitHashes {
			if counts[h] >= 2 {
				if runStart < 0 {
					runStart = start
				}

				continue
			}

			flush(start)
		}

		flush(len(unitHashes))
	}

	return spans
}

// buildGroup filters and assembles a group from spans sharing a signature.
// A group is reported only when it covers at least two distinct files, or
// the same file more than once (merge already guarantees non-adjacency),
// and its span meets the minimum size.
func (f *Finder) buildGroup(members []span) (Group, bool) {
	if len(members) < 2 {
		return Group{}, false
	}

	locations := make([]Location, 0, len(members))
	statements := 0

	for _, s := range members {
		unit := f.units[s.unit]
		start := unit.statements[s.startStmt].Line
		end := unit.statements[s.endStmt].Line

		if end-start+1 < f.config.MinSpanLines {
			return Group{}, false
		}

		if s.endStmt-s.startStmt+1 > statements {
			statements = s.endStmt - s.startStmt + 1
		}

		locations = append(locations, Location{File: unit.path, StartLine: start, EndLine: end})
	}

	sort.Slice(locations, func(i, j int) bool {
		if locations[i].File != locations[j].File {
			return locations[i].File < locations[j].File
		}

		return locations[i].StartLine < locations[j].StartLine
	})

	return Group{
		Locations:  locations,
		Statements: statements,
		Similarity: f.similarity(members),
	}, true
}

// similarity compares the normalized text of the first two members. Chained
// identical fingerprints give 1.0; near-duplicates diverge below it.
func (f *Finder) similarity(members []span) float64 {
	a := f.spanText(members[0])
	b := f.spanText(members[1])

	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)

	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}

	return 1.0 - float64(distance)/float64(longest)
}

func (f *Finder) spanText(s span) string {
	unit := f.units[s.unit]

	texts := make([]string, 0, s.endStmt-s.startStmt+1)
	for i := s.startStmt; i <= s.endStmt; i++ {
		texts = append(texts, unit.statements[i].Text)
	}

	return strings.Join(texts, "\n")
}

// fingerprint hashes one window of normalized statements.
func fingerprint(statements []Statement) uint64 {
	h := fnv.New64a()

	for _, stmt := range statements {
		h.Write([]byte(stmt.Text))
		h.Write([]byte{'\n'})
	}

	return h.Sum64()
}

// chainSignature hashes the fingerprint chain of a merged run.
func chainSignature(windowHashes []uint64) uint64 {
	h := fnv.New64a()

	var buf [8]byte

	for _, wh := range windowHashes {
		for i := range buf {
			buf[i] = byte(wh >> (8 * i))
		}

		h.Write(buf[:])
	}

	return h.Sum64()
}

// Findings converts groups into findings, one per location, using the
// registered duplicate-code pattern's metadata.
func Findings(groups []Group, pattern registry.Pattern, languages map[string]string) []finding.Finding {
	var findings []finding.Finding

	for _, group := range groups {
		for i, loc := range group.Locations {
			partners := make([]string, 0, len(group.Locations)-1)

			for j, other := range group.Locations {
				if j == i {
					continue
				}

				partners = append(partners, fmt.Sprintf("%s:%d-%d", other.File, other.StartLine, other.EndLine))
			}

			findings = append(findings, finding.Finding{
				PatternID: pattern.ID,
				Axis:      pattern.Axis,
				Severity:  pattern.Severity,
				Language:  languages[loc.File],
				File:      loc.File,
				Line:      loc.StartLine,
				Message:   fmt.Sprintf("%s: lines %d-%d duplicated at %s", pattern.Message, loc.StartLine, loc.EndLine, strings.Join(partners, ", ")),
				Snippet:   fmt.Sprintf("%d duplicated statements", group.Statements),
			})
		}
	}

	return findings
}
