package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/sloppy/internal/engine"
	"github.com/Sumatoshi-tech/sloppy/internal/finding"
)

const (
	chartWidth  = "900px"
	chartHeight = "500px"
)

func writeHTML(w io.Writer, result *engine.Result) error {
	page := components.NewPage()
	page.SetPageTitle("sloppy report")
	page.AddCharts(
		buildAxisChart(result),
		buildSeverityChart(result),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render html: %w", err)
	}

	return nil
}

func buildAxisChart(result *engine.Result) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Score by axis (total %d, verdict %s)", result.Score.Total, result.Score.Verdict),
			Subtitle: fmt.Sprintf("%d findings across %d files", len(result.Findings), result.Scanned),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)

	axes := finding.Axes()

	labels := make([]string, len(axes))
	data := make([]opts.BarData, len(axes))

	for i, axis := range axes {
		labels[i] = string(axis)
		data[i] = opts.BarData{Value: result.Score.AxisSubtotals[axis]}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("Subtotal", data)

	return bar
}

func buildSeverityChart(result *engine.Result) *charts.Bar {
	counts := make(map[finding.Severity]int)
	for _, f := range result.Findings {
		counts[f.Severity]++
	}

	severities := []finding.Severity{
		finding.SeverityLow,
		finding.SeverityMedium,
		finding.SeverityHigh,
		finding.SeverityCritical,
	}

	labels := make([]string, len(severities))
	data := make([]opts.BarData, len(severities))

	for i, severity := range severities {
		labels[i] = string(severity)
		data[i] = opts.BarData{Value: counts[severity]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Findings by severity"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Findings", data)

	return bar
}
