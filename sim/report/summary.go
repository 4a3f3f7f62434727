// Package report compares dispatch runs: summary statistics, a console table
// and an HTML chart page.
package report

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
)

// RunSummary aggregates the statistics of one RunResult.
type RunSummary struct {
	Algorithm  string
	Steps      int
	Clock      int
	MeanWait   float64
	StdDevWait float64 // sample standard deviation
	P95Wait    float64 // empirical 95th percentile
	MaxWait    float64
	MeanQueue  float64
	Clamped    int
	Histogram  []int
}

// Summarize computes aggregate statistics from a RunResult.
// Safe for nil or empty results (returns zero-value fields).
func Summarize(res *sim.RunResult) RunSummary {
	if res == nil {
		return RunSummary{}
	}
	summary := RunSummary{
		Algorithm: res.Algorithm,
		Steps:     res.Steps,
		Clock:     res.Clock,
		Clamped:   res.Clamped,
		Histogram: append([]int(nil), res.Histogram...),
	}

	if waits := sim.Float64s(res.WaitTimes); len(waits) > 0 {
		summary.MeanWait, summary.StdDevWait = stat.MeanStdDev(waits, nil)
		summary.MaxWait = floats.Max(waits)
		sort.Float64s(waits)
		summary.P95Wait = stat.Quantile(0.95, stat.Empirical, waits, nil)
		if len(waits) == 1 {
			summary.StdDevWait = 0
		}
	}
	if queues := sim.Float64s(res.QueueSizes); len(queues) > 0 {
		summary.MeanQueue = stat.Mean(queues, nil)
	}
	return summary
}

// SummarizeAll summarizes each result, preserving order.
func SummarizeAll(results []*sim.RunResult) []RunSummary {
	out := make([]RunSummary, 0, len(results))
	for _, r := range results {
		out = append(out, Summarize(r))
	}
	return out
}
