package report

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
)

func sampleResult(alg string) *sim.RunResult {
	return &sim.RunResult{
		Algorithm:  alg,
		Steps:      4,
		Clock:      40,
		WaitTimes:  []int{2, 4, 4, 6},
		QueueSizes: []int{12, 11, 10, 11},
		TotalTimes: []int{0, 10, 20, 30},
		Histogram:  []int{12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 13},
		Clamped:    2,
	}
}

func TestSummarize_KnownInput(t *testing.T) {
	// GIVEN waits [2, 4, 4, 6]: mean 4, sample variance 8/3
	s := Summarize(sampleResult(sim.AlgorithmRR))

	assert.Equal(t, "rr", s.Algorithm)
	assert.InDelta(t, 4.0, s.MeanWait, 1e-9)
	assert.InDelta(t, math.Sqrt(8.0/3.0), s.StdDevWait, 1e-9)
	assert.Equal(t, 6.0, s.MaxWait)
	assert.Equal(t, 6.0, s.P95Wait)
	assert.InDelta(t, 11.0, s.MeanQueue, 1e-9)
	assert.Equal(t, 2, s.Clamped)
	assert.Equal(t, 13, s.Histogram[12])
}

func TestSummarize_NilAndEmpty(t *testing.T) {
	assert.Equal(t, RunSummary{}, Summarize(nil))

	s := Summarize(&sim.RunResult{Algorithm: "fcfs"})
	assert.Zero(t, s.MeanWait)
	assert.Zero(t, s.MaxWait)

	one := Summarize(&sim.RunResult{WaitTimes: []int{5}, QueueSizes: []int{3}})
	assert.Equal(t, 5.0, one.MeanWait)
	assert.Zero(t, one.StdDevWait, "single sample must not yield NaN")
}

func TestSummarize_DoesNotAliasHistogram(t *testing.T) {
	res := sampleResult(sim.AlgorithmFCFS)
	s := Summarize(res)
	res.Histogram[0] = 99
	assert.Equal(t, 12, s.Histogram[0])
}

func TestWriteTable_OneRowPerAlgorithm(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, SummarizeAll([]*sim.RunResult{sampleResult("fcfs"), sampleResult("mhrr")}))

	out := buf.String()
	assert.Contains(t, out, "FCFS")
	assert.Contains(t, out, "MHRR")
	assert.Contains(t, out, "4.00")
	assert.Contains(t, strings.ToUpper(out), "MEAN WAIT")
}

func TestWriteHistogramTable_ListsEveryBucket(t *testing.T) {
	var buf bytes.Buffer
	WriteHistogramTable(&buf, SummarizeAll([]*sim.RunResult{sampleResult("mrr")}))

	out := buf.String()
	assert.Contains(t, out, "2-5")
	assert.Contains(t, out, "61-65")
	assert.Contains(t, out, "MRR")
}

func TestSaveHTML_WritesChartPage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.html")
	results := []*sim.RunResult{sampleResult("fcfs"), sampleResult("rr")}

	require.NoError(t, SaveHTML(path, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)
	for _, want := range []string{"Wait Time", "Queue Size", "Total Time", "Grouping", "FCFS", "RR"} {
		assert.Contains(t, html, want)
	}
}

func TestSaveHTML_BadPath(t *testing.T) {
	err := SaveHTML(filepath.Join(t.TempDir(), "missing", "report.html"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating chart page")
}
