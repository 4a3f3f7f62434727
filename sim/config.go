package sim

import (
	"errors"
	"fmt"
)

const (
	// DefaultReadyCapacity is the fixed size of the ready queue.
	DefaultReadyCapacity = 20
	// DefaultSteadyState is how many jobs prime the ready queue before the first dispatch.
	DefaultSteadyState = 12
	// DefaultTimeSlice is the RR quantum and the MRR slice unit.
	DefaultTimeSlice = 10
)

// DispatchConfig groups the parameters shared by every dispatch algorithm.
type DispatchConfig struct {
	ReadyCapacity     int  // ready-queue capacity (must be > 0)
	SteadyState       int  // jobs moved from pool to ready before the first step
	MinReadyJobs      int  // replenishment low-water mark
	ReplenishDrawSpan int  // replenishment draw is uniform in [0, span)
	TimeSlice         int  // RR quantum, MRR slice unit (must be > 0)
	BucketThreshold   int  // samples required in every histogram bucket
	MaxSteps          int  // safety horizon; 0 = run until sampling completes
	RequeueRemainder  bool // RR/MHRR re-enqueue the unexecuted remainder
}

// DefaultDispatchConfig returns the reference parameters of the simulator.
func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{
		ReadyCapacity:     DefaultReadyCapacity,
		SteadyState:       DefaultSteadyState,
		MinReadyJobs:      DefaultMinReadyJobs,
		ReplenishDrawSpan: DefaultReplenishDrawSpan,
		TimeSlice:         DefaultTimeSlice,
		BucketThreshold:   DefaultBucketThreshold,
	}
}

// Validate reports every invalid field at once.
func (c DispatchConfig) Validate() error {
	var errs []error
	if c.ReadyCapacity < 1 {
		errs = append(errs, fmt.Errorf("ready capacity must be >= 1, got %d", c.ReadyCapacity))
	}
	if c.SteadyState < 0 {
		errs = append(errs, fmt.Errorf("steady state must be >= 0, got %d", c.SteadyState))
	}
	if c.MinReadyJobs < 1 {
		errs = append(errs, fmt.Errorf("min ready jobs must be >= 1, got %d", c.MinReadyJobs))
	}
	if c.ReplenishDrawSpan < 1 {
		errs = append(errs, fmt.Errorf("replenish draw span must be >= 1, got %d", c.ReplenishDrawSpan))
	}
	if c.TimeSlice < 1 {
		errs = append(errs, fmt.Errorf("time slice must be >= 1, got %d", c.TimeSlice))
	}
	if c.BucketThreshold < 1 {
		errs = append(errs, fmt.Errorf("bucket threshold must be >= 1, got %d", c.BucketThreshold))
	}
	if c.MaxSteps < 0 {
		errs = append(errs, fmt.Errorf("max steps must be >= 0, got %d", c.MaxSteps))
	}
	return errors.Join(errs...)
}
