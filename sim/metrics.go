// Tracks per-step and per-run dispatch metrics such as:
// wait time at the head position, ready-queue occupancy and cumulative busy time.

package sim

import "fmt"

// StepRecord is the observation emitted after one dispatch step.
type StepRecord struct {
	Step      int // zero-based dispatch index
	Job       int // burst quantum of the dispatched job
	Slice     int // simulated time granted in this step
	WaitTime  int // wait time recorded at ready-queue position 0
	QueueSize int // ready-queue occupancy
	TotalTime int // cumulative busy time before this step
}

// MetricsSink receives the observations of one dispatch run.
// Implementations live in sim/sink; the run does not own the sink's lifecycle.
type MetricsSink interface {
	RecordStep(rec StepRecord) error
	RecordHistogram(counts []int) error
}

type discardSink struct{}

func (discardSink) RecordStep(StepRecord) error { return nil }
func (discardSink) RecordHistogram([]int) error { return nil }

// RunResult aggregates everything one dispatch run observed, for reporting
// and cross-algorithm comparison.
type RunResult struct {
	Algorithm  string
	Steps      int // number of dispatch steps executed
	Clock      int // simulated busy time at the end of the run
	WaitTimes  []int
	QueueSizes []int
	TotalTimes []int
	Histogram  []int // final bucket counts, ascending bucket order
	Clamped    int   // replenishment draws that had to be clamped
}

func newRunResult(algorithm string) *RunResult {
	return &RunResult{
		Algorithm:  algorithm,
		WaitTimes:  make([]int, 0),
		QueueSizes: make([]int, 0),
		TotalTimes: make([]int, 0),
	}
}

func (r *RunResult) add(rec StepRecord) {
	r.WaitTimes = append(r.WaitTimes, rec.WaitTime)
	r.QueueSizes = append(r.QueueSizes, rec.QueueSize)
	r.TotalTimes = append(r.TotalTimes, rec.TotalTime)
}

func (r *RunResult) String() string {
	return fmt.Sprintf("%s: steps=%d clock=%d clamped=%d histogram=%v",
		r.Algorithm, r.Steps, r.Clock, r.Clamped, r.Histogram)
}

// Float64s converts an integer series for the statistics helpers.
func Float64s(series []int) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = float64(v)
	}
	return out
}
