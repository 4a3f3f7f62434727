package sim

// FCFSPolicy runs the head job to completion with no preemption.
// Every job behind it waits the full burst.
type FCFSPolicy struct{}

func (*FCFSPolicy) Name() string { return AlgorithmFCFS }

func (*FCFSPolicy) Step(s *Simulator) error {
	burst, err := s.nextJob()
	if err != nil {
		return err
	}
	before := s.execute(burst)

	// Recorded before the table update: slot 0 still holds the dispatched job's wait.
	if err := s.record(burst, burst, before); err != nil {
		return err
	}
	s.Waits.Complete(s.Ready.Len(), burst)
	s.replenish()
	return nil
}
