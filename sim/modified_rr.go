package sim

// ModifiedRoundRobinPolicy grants growing slices keyed by queue position.
// A tracker table counts the slice units already granted at each position;
// the job dispatched while the cursor is at location receives
// TimeSlice * tracker[location]. Unfinished remainders are re-enqueued.
type ModifiedRoundRobinPolicy struct {
	tracker  *PositionTable
	location int
}

func (*ModifiedRoundRobinPolicy) Name() string { return AlgorithmMRR }

func (p *ModifiedRoundRobinPolicy) Step(s *Simulator) error {
	if p.tracker == nil {
		p.tracker = NewPositionTable(s.Ready.Cap())
	}
	burst, err := s.nextJob()
	if err != nil {
		return err
	}
	waiting := s.Ready.Len()
	executed := s.Config.TimeSlice * p.tracker.At(p.location)
	before := s.execute(executed)

	if burst < executed {
		p.tracker.RemoveAt(p.location, waiting)
		s.Waits.Complete(waiting, executed)
	} else {
		p.tracker.Increment(p.location)
		s.Waits.Rotate(waiting, executed)
	}
	if remainder := burst - executed; remainder > 0 {
		if err := s.requeue(remainder); err != nil {
			return err
		}
	}

	if err := s.record(burst, executed, before); err != nil {
		return err
	}
	s.replenish()

	p.location++
	if p.location > s.Ready.Len() || p.location >= s.Ready.Cap() {
		p.location = 0
	}
	return nil
}

// Location returns the current tracker cursor.
func (p *ModifiedRoundRobinPolicy) Location() int {
	return p.location
}
