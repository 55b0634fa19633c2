package render

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/sloppy/internal/engine"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
	"github.com/Sumatoshi-tech/sloppy/internal/score"
)

const maxMessageWidth = 72

var severityColors = map[finding.Severity]*color.Color{
	finding.SeverityLow:      color.New(color.FgHiBlack),
	finding.SeverityMedium:   color.New(color.FgYellow),
	finding.SeverityHigh:     color.New(color.FgRed),
	finding.SeverityCritical: color.New(color.FgRed, color.Bold),
}

var verdictColors = map[score.Verdict]*color.Color{
	score.VerdictClean:      color.New(color.FgGreen, color.Bold),
	score.VerdictAcceptable: color.New(color.FgCyan, color.Bold),
	score.VerdictSloppy:     color.New(color.FgYellow, color.Bold),
	score.VerdictDisaster:   color.New(color.FgRed, color.Bold),
}

func writeText(w io.Writer, result *engine.Result) error {
	fmt.Fprintf(w, "Scanned %s files, %s findings\n\n",
		humanize.Comma(int64(result.Scanned)),
		humanize.Comma(int64(len(result.Findings))))

	if len(result.Findings) > 0 {
		writeFindingsTable(w, result.Findings)
		fmt.Fprintln(w)
	}

	writeScoreTable(w, result.Score)

	if len(result.Diagnostics) > 0 {
		fmt.Fprintln(w)
		writeDiagnostics(w, result.Diagnostics)
	}

	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, "\n%d files skipped (unsupported or binary)\n", len(result.Skipped))
	}

	return nil
}

func writeFindingsTable(w io.Writer, findings []finding.Finding) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Location", "Severity", "Axis", "Pattern", "Message"})

	for _, f := range findings {
		tbl.AppendRow(table.Row{
			fmt.Sprintf("%s:%d", f.File, f.Line),
			colorSeverity(f.Severity),
			f.Axis,
			f.PatternID,
			truncate(f.Message, maxMessageWidth),
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d findings", len(findings))})
	tbl.Render()
}

func writeScoreTable(w io.Writer, report score.Report) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Axis", "Subtotal"})

	for _, axis := range finding.Axes() {
		tbl.AppendRow(table.Row{axis, report.AxisSubtotals[axis]})
	}

	tbl.AppendFooter(table.Row{"Total", report.Total})
	tbl.Render()

	verdict := string(report.Verdict)
	if c, ok := verdictColors[report.Verdict]; ok {
		verdict = c.Sprint(verdict)
	}

	fmt.Fprintf(w, "\nVerdict: %s\n", verdict)
}

func writeDiagnostics(w io.Writer, diagnostics []finding.Diagnostic) {
	fmt.Fprintln(w, "Diagnostics:")

	for _, d := range diagnostics {
		color.New(color.FgYellow).Fprintf(w, "  - %s: %s\n", d.File, d.Reason)
	}
}

func colorSeverity(severity finding.Severity) string {
	if c, ok := severityColors[severity]; ok {
		return c.Sprint(string(severity))
	}

	return string(severity)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	// Back off to a rune boundary so the cut never splits a multi-byte
	// character.
	cut := limit - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return s[:cut] + "..."
}
