package sink

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "FCFS", Prefix(sim.AlgorithmFCFS))
	assert.Equal(t, "MHRR", Prefix(sim.AlgorithmMHRR))
}

func TestFileSink_WritesRecordedValues(t *testing.T) {
	// GIVEN a file sink in a fresh nested directory
	dir := filepath.Join(t.TempDir(), "out")
	s, err := NewFileSink(dir, "RR")
	require.NoError(t, err)

	// WHEN two steps and a histogram are recorded
	require.NoError(t, s.RecordStep(sim.StepRecord{WaitTime: 0, QueueSize: 11, TotalTime: 0}))
	require.NoError(t, s.RecordStep(sim.StepRecord{WaitTime: 10, QueueSize: 10, TotalTime: 10}))
	hist := []int{12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24}
	require.NoError(t, s.RecordHistogram(hist))
	require.NoError(t, s.Close())

	// THEN each file holds exactly its values, one per line
	assert.Equal(t, []string{"0", "10"}, readLines(t, filepath.Join(dir, "RRWaitTime.txt")))
	assert.Equal(t, []string{"11", "10"}, readLines(t, filepath.Join(dir, "RRQueueSize.txt")))
	assert.Equal(t, []string{"0", "10"}, readLines(t, filepath.Join(dir, "RRTotalTime.txt")))
	grouping := readLines(t, filepath.Join(dir, "RRGrouping.txt"))
	require.Len(t, grouping, sim.BucketCount)
	assert.Equal(t, "12", grouping[0])
	assert.Equal(t, "24", grouping[12])
}

func TestFileSink_TruncatesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "FCFSWaitTime.txt")
	require.NoError(t, os.WriteFile(path, []byte("999\n999\n999\n"), 0644))

	s, err := NewFileSink(dir, "FCFS")
	require.NoError(t, err)
	require.NoError(t, s.RecordStep(sim.StepRecord{WaitTime: 4}))
	require.NoError(t, s.Close())

	assert.Equal(t, []string{"4"}, readLines(t, path))
}

func TestNewFileSink_UnwritableDirectory(t *testing.T) {
	// A regular file where the directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := NewFileSink(filepath.Join(blocker, "out"), "MRR")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating output directory")
}

func TestFileSink_Simulation_LineCountsMatchSteps(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSink(dir, Prefix(sim.AlgorithmFCFS))
	require.NoError(t, err)

	cfg := sim.DefaultDispatchConfig()
	cfg.MaxSteps = 25
	jobs := make([]int, 200)
	for i := range jobs {
		jobs[i] = i%60 + 2
	}
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(1)).ForSubsystem(sim.SubsystemReplenish(sim.AlgorithmFCFS))
	res, err := sim.NewSimulator(cfg, &sim.FCFSPolicy{}, jobs, rng, s, nil).Run()
	require.True(t, errors.Is(err, sim.ErrHorizonReached))
	require.NoError(t, s.Close())

	assert.Len(t, readLines(t, filepath.Join(dir, "FCFSWaitTime.txt")), res.Steps)
	assert.Len(t, readLines(t, filepath.Join(dir, "FCFSTotalTime.txt")), res.Steps)
	assert.Len(t, readLines(t, filepath.Join(dir, "FCFSGrouping.txt")), sim.BucketCount)
}

type failingSink struct{ calls int }

func (f *failingSink) RecordStep(sim.StepRecord) error { f.calls++; return errors.New("boom") }
func (f *failingSink) RecordHistogram([]int) error     { f.calls++; return errors.New("boom") }

type countingSink struct{ steps, histograms int }

func (c *countingSink) RecordStep(sim.StepRecord) error { c.steps++; return nil }
func (c *countingSink) RecordHistogram([]int) error     { c.histograms++; return nil }

func TestMulti_FansOutAndStopsOnError(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	m := Multi{a, b}
	require.NoError(t, m.RecordStep(sim.StepRecord{}))
	require.NoError(t, m.RecordHistogram(nil))
	assert.Equal(t, 1, a.steps)
	assert.Equal(t, 1, b.histograms)

	f, c := &failingSink{}, &countingSink{}
	err := Multi{f, c}.RecordStep(sim.StepRecord{})
	require.Error(t, err)
	assert.Zero(t, c.steps)
}

func TestCloser_RunsAllAndJoins(t *testing.T) {
	ran := 0
	c := Closer{
		func() error { ran++; return errors.New("first") },
		func() error { ran++; return nil },
		func() error { ran++; return errors.New("third") },
	}
	err := c.Close()
	assert.Equal(t, 3, ran)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "third")
}
