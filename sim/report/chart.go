package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
)

func globalOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: true,
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{
					Show:  true,
					Title: "Save",
				},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show: true,
				},
			},
		}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
	}
}

func stepAxis(results []*sim.RunResult) []string {
	n := 0
	for _, r := range results {
		n = max(n, len(r.WaitTimes))
	}
	axis := make([]string, n)
	for i := range axis {
		axis[i] = strconv.Itoa(i)
	}
	return axis
}

func lineData(series []int) []opts.LineData {
	items := make([]opts.LineData, 0, len(series))
	for _, v := range series {
		items = append(items, opts.LineData{Value: v})
	}
	return items
}

// newSeriesChart plots one per-step series for every run.
func newSeriesChart(title, subtitle string, results []*sim.RunResult, pick func(*sim.RunResult) []int) *charts.Line {
	chart := charts.NewLine()
	chart.SetGlobalOptions(globalOpts(title, subtitle)...)
	chart.SetXAxis(stepAxis(results))
	for _, r := range results {
		chart.AddSeries(displayName(r.Algorithm), lineData(pick(r)))
	}
	return chart
}

// newHistogramChart draws grouped bars, one group per bucket.
func newHistogramChart(results []*sim.RunResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts("Grouping", "dispatches per burst bucket")...)
	labels := make([]string, sim.BucketCount)
	for i := range labels {
		labels[i] = bucketLabel(i)
	}
	bar.SetXAxis(labels)
	for _, r := range results {
		items := make([]opts.BarData, 0, len(r.Histogram))
		for _, c := range r.Histogram {
			items = append(items, opts.BarData{Value: c})
		}
		bar.AddSeries(displayName(r.Algorithm), items)
	}
	return bar
}

// WriteHTML renders the comparison page: wait time, queue size and cumulative
// time per step, then the grouping histogram.
func WriteHTML(w io.Writer, results []*sim.RunResult) error {
	page := components.NewPage()
	page.AddCharts(
		newSeriesChart("Wait Time", "wait at the head position per step", results,
			func(r *sim.RunResult) []int { return r.WaitTimes }),
		newSeriesChart("Queue Size", "ready-queue occupancy per step", results,
			func(r *sim.RunResult) []int { return r.QueueSizes }),
		newSeriesChart("Total Time", "cumulative busy time before each step", results,
			func(r *sim.RunResult) []int { return r.TotalTimes }),
		newHistogramChart(results),
	)
	return page.Render(w)
}

// SaveHTML writes the comparison page to path.
func SaveHTML(path string, results []*sim.RunResult) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart page: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing chart page: %w", cerr)
		}
	}()
	if err := WriteHTML(file, results); err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return nil
}
