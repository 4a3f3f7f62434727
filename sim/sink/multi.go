package sink

import (
	"errors"

	"github.com/cpu-sched-sim/cpu-sched-sim/sim"
)

// Multi forwards every observation to each sink in order and stops at the
// first failure.
type Multi []sim.MetricsSink

func (m Multi) RecordStep(rec sim.StepRecord) error {
	for _, s := range m {
		if err := s.RecordStep(rec); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) RecordHistogram(counts []int) error {
	for _, s := range m {
		if err := s.RecordHistogram(counts); err != nil {
			return err
		}
	}
	return nil
}

// Closer collects io.Closer-style cleanups for the sinks of one run.
type Closer []func() error

// Close runs every cleanup, even after a failure, and joins the errors.
func (c Closer) Close() error {
	var errs []error
	for _, fn := range c {
		errs = append(errs, fn())
	}
	return errors.Join(errs...)
}
