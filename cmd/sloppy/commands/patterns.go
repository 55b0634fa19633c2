package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sloppy/internal/patterns"
)

// NewPatternsCommand creates the pattern listing command. Its output feeds
// the --disable workflow.
func NewPatternsCommand() *cobra.Command {
	var language string

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the built-in pattern catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := patterns.NewDefaultRegistry()
			if err != nil {
				return err
			}

			tbl := table.NewWriter()
			tbl.SetOutputMirror(cmd.OutOrStdout())
			tbl.SetStyle(table.StyleLight)
			tbl.AppendHeader(table.Row{"ID", "Axis", "Severity", "Strategy", "Languages"})

			total := 0

			for _, p := range reg.All() {
				if language != "" && !patternHasLanguage(p.Languages, language) {
					continue
				}

				tbl.AppendRow(table.Row{p.ID, p.Axis, p.Severity, p.Strategy, strings.Join(p.Languages, ", ")})
				total++
			}

			tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d patterns", total)})
			tbl.Render()

			return nil
		},
	}

	cmd.Flags().StringVar(&language, "lang", "", "Only list patterns for this language")

	return cmd
}

func patternHasLanguage(languages []string, wanted string) bool {
	for _, lang := range languages {
		if strings.EqualFold(lang, wanted) {
			return true
		}
	}

	return false
}
