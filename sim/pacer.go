package sim

import "time"

// Pacer turns simulated busy time into wall-clock time for live presentation.
// The logical clock advances regardless of the pacer.
type Pacer interface {
	Pause(quanta int)
}

// NoPause advances only the logical clock.
type NoPause struct{}

func (NoPause) Pause(int) {}

// SleepPacer blocks for quanta * Unit.
type SleepPacer struct {
	Unit time.Duration
}

func (p SleepPacer) Pause(quanta int) {
	if quanta <= 0 || p.Unit <= 0 {
		return
	}
	time.Sleep(time.Duration(quanta) * p.Unit)
}

// NewPacer returns a SleepPacer for a positive unit and NoPause otherwise.
func NewPacer(unit time.Duration) Pacer {
	if unit <= 0 {
		return NoPause{}
	}
	return SleepPacer{Unit: unit}
}
