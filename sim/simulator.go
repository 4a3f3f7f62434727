// sim/simulator.go
package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrHorizonReached is returned by Run when MaxSteps elapsed before every
// histogram bucket was sampled. The RunResult is still complete.
var ErrHorizonReached = errors.New("step horizon reached before sampling completed")

// Simulator is the core object that holds the dispatch state of one algorithm
// run: the ready/pool queue pair, position bookkeeping, the stopping oracle and
// the logical clock. A Simulator is single-use.
type Simulator struct {
	Config DispatchConfig
	// Ready holds the jobs eligible for dispatch, bounded by Config.ReadyCapacity.
	Ready *BoundedQueue
	// Pool is the backlog that replenishment draws from.
	Pool *BoundedQueue
	// Waits is the wait-time table, one slot per ready-queue position.
	Waits       *PositionTable
	Sampler     *BucketSampler
	Replenisher *Replenisher
	// Clock is the simulated busy time accumulated so far.
	Clock     int
	StepCount int

	policy DispatchPolicy
	sink   MetricsSink
	pacer  Pacer
	result *RunResult
}

// NewSimulator builds a run of policy over a private copy of jobs.
// The pool queue holds all of jobs; Config.SteadyState of them are moved into
// the ready queue before the first step. A nil sink discards observations and a
// nil pacer never blocks. Panics on an invalid config or nil policy/rng.
func NewSimulator(cfg DispatchConfig, policy DispatchPolicy, jobs []int, rng IntSource, sink MetricsSink, pacer Pacer) *Simulator {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("NewSimulator: %v", err))
	}
	if policy == nil {
		panic("NewSimulator: policy must not be nil")
	}
	if sink == nil {
		sink = discardSink{}
	}
	if pacer == nil {
		pacer = NoPause{}
	}
	s := &Simulator{
		Config:      cfg,
		Ready:       NewBoundedQueue(cfg.ReadyCapacity),
		Pool:        NewBoundedQueueFrom(max(1, len(jobs)), jobs),
		Waits:       NewPositionTable(cfg.ReadyCapacity),
		Sampler:     NewBucketSampler(cfg.BucketThreshold),
		Replenisher: NewReplenisher(cfg.MinReadyJobs, cfg.ReplenishDrawSpan, rng),
		policy:      policy,
		sink:        sink,
		pacer:       pacer,
		result:      newRunResult(policy.Name()),
	}
	Transfer(s.Ready, s.Pool, cfg.SteadyState)
	return s
}

// Run dispatches jobs until every histogram bucket holds Config.BucketThreshold
// samples, then emits the final histogram to the sink.
// An empty ready queue at dispatch time is fatal and returns an error wrapping
// ErrQueueEmpty without emitting the histogram.
func (sim *Simulator) Run() (*RunResult, error) {
	name := sim.policy.Name()
	logrus.Infof("[%s] starting: ready=%d pool=%d", name, sim.Ready.Len(), sim.Pool.Len())

	var runErr error
	for sim.Sampler.Incomplete() {
		if sim.Config.MaxSteps > 0 && sim.StepCount >= sim.Config.MaxSteps {
			runErr = fmt.Errorf("%s: stopped after %d steps: %w", name, sim.StepCount, ErrHorizonReached)
			break
		}
		if err := sim.policy.Step(sim); err != nil {
			sim.finish()
			return sim.result, fmt.Errorf("%s: dispatch step %d: %w", name, sim.StepCount, err)
		}
		sim.StepCount++
	}

	sim.finish()
	if err := sim.sink.RecordHistogram(sim.result.Histogram); err != nil {
		return sim.result, fmt.Errorf("%s: record histogram: %w", name, err)
	}
	logrus.Infof("[%s] finished: steps=%d clock=%d histogram=%v", name, sim.StepCount, sim.Clock, sim.result.Histogram)
	return sim.result, runErr
}

func (sim *Simulator) finish() {
	sim.result.Steps = sim.StepCount
	sim.result.Clock = sim.Clock
	sim.result.Histogram = sim.Sampler.Counts()
	sim.result.Clamped = sim.Replenisher.Clamped()
}

// Result returns the run's observations so far.
func (sim *Simulator) Result() *RunResult {
	return sim.result
}

// nextJob removes the head job and classifies its burst.
func (sim *Simulator) nextJob() (int, error) {
	burst, err := sim.Ready.Front()
	if err != nil {
		return 0, err
	}
	_ = sim.Ready.Dequeue()
	sim.Sampler.Classify(burst)
	return burst, nil
}

// execute occupies the simulated CPU for slice quanta and returns the clock
// value before the slice.
func (sim *Simulator) execute(slice int) int {
	sim.pacer.Pause(slice)
	before := sim.Clock
	sim.Clock += slice
	return before
}

// record emits the step observation from the current queue and table state.
func (sim *Simulator) record(job, slice, before int) error {
	rec := StepRecord{
		Step:      sim.StepCount,
		Job:       job,
		Slice:     slice,
		WaitTime:  sim.Waits.At(0),
		QueueSize: sim.Ready.Len(),
		TotalTime: before,
	}
	logrus.Debugf("[%s] step %d: job=%d slice=%d wait=%d queue=%d total=%d",
		sim.policy.Name(), rec.Step, rec.Job, rec.Slice, rec.WaitTime, rec.QueueSize, rec.TotalTime)
	sim.result.add(rec)
	return sim.sink.RecordStep(rec)
}

// requeue puts an unfinished remainder back at the rear of the ready queue.
// It always follows the step's dequeue, so the slot it needs is free; a full
// queue here means the bookkeeping is corrupt and ends the run.
func (sim *Simulator) requeue(remainder int) error {
	if err := sim.Ready.Enqueue(remainder); err != nil {
		return fmt.Errorf("requeue remainder %d: %w", remainder, err)
	}
	return nil
}

// replenish tops up the ready queue and zeroes the wait slots of fresh jobs.
func (sim *Simulator) replenish() {
	moved, start := sim.Replenisher.Replenish(sim.Ready, sim.Pool)
	sim.Waits.Reset(start, moved)
}
