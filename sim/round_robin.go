package sim

// RoundRobinPolicy grants the head job at most one slice per dispatch.
// Jobs shorter than the quantum finish and retire their position. Longer jobs
// receive the quantum (or half their burst when Halved is set) and their
// position is rotated to the tail of the wait-time table.
//
// Unless Config.RequeueRemainder is set the unexecuted remainder is discarded,
// so every job leaves the ready queue after exactly one dispatch.
type RoundRobinPolicy struct {
	Halved bool // MHRR: slice is burst/2 instead of the fixed quantum
}

func (p *RoundRobinPolicy) Name() string {
	if p.Halved {
		return AlgorithmMHRR
	}
	return AlgorithmRR
}

func (p *RoundRobinPolicy) Step(s *Simulator) error {
	burst, err := s.nextJob()
	if err != nil {
		return err
	}
	waiting := s.Ready.Len()
	quantum := s.Config.TimeSlice

	var slice, before int
	if burst < quantum {
		slice = burst
		before = s.execute(slice)
		s.Waits.Complete(waiting, slice)
	} else {
		slice = p.slice(burst, quantum)
		before = s.execute(slice)
		s.Waits.Rotate(waiting, slice)
		if remainder := burst - slice; remainder > 0 && s.Config.RequeueRemainder {
			if err := s.requeue(remainder); err != nil {
				return err
			}
		}
	}

	if err := s.record(burst, slice, before); err != nil {
		return err
	}
	s.replenish()
	return nil
}

func (p *RoundRobinPolicy) slice(burst, quantum int) int {
	if p.Halved {
		return burst / 2
	}
	return quantum
}
