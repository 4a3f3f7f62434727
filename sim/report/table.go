package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
)

// WriteTable renders one row per algorithm with its wait and queue statistics.
func WriteTable(w io.Writer, summaries []RunSummary) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Algorithm", "Steps", "Clock", "Mean wait", "Std dev", "P95 wait", "Max wait", "Mean queue", "Clamped"})
	tbl.SetBorder(true)
	tbl.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, s := range summaries {
		tbl.Append([]string{
			displayName(s.Algorithm),
			strconv.Itoa(s.Steps),
			strconv.Itoa(s.Clock),
			fmt.Sprintf("%.2f", s.MeanWait),
			fmt.Sprintf("%.2f", s.StdDevWait),
			fmt.Sprintf("%.0f", s.P95Wait),
			fmt.Sprintf("%.0f", s.MaxWait),
			fmt.Sprintf("%.2f", s.MeanQueue),
			strconv.Itoa(s.Clamped),
		})
	}
	tbl.Render()
}

// WriteHistogramTable renders the bucket counts of every algorithm side by side.
func WriteHistogramTable(w io.Writer, summaries []RunSummary) {
	tbl := tablewriter.NewWriter(w)
	header := []string{"Bucket"}
	for _, s := range summaries {
		header = append(header, displayName(s.Algorithm))
	}
	tbl.SetHeader(header)
	tbl.SetBorder(true)

	for i := 0; i < sim.BucketCount; i++ {
		row := []string{bucketLabel(i)}
		for _, s := range summaries {
			count := ""
			if i < len(s.Histogram) {
				count = strconv.Itoa(s.Histogram[i])
			}
			row = append(row, count)
		}
		tbl.Append(row)
	}
	tbl.Render()
}

func bucketLabel(i int) string {
	lo, hi := sim.BucketBounds(i)
	return fmt.Sprintf("%d-%d", lo, hi)
}

func displayName(algorithm string) string {
	return strings.ToUpper(algorithm)
}
