package sim

import "github.com/sirupsen/logrus"

const (
	// DefaultMinReadyJobs is the ready-queue low-water mark below which replenishment runs.
	DefaultMinReadyJobs = 5
	// DefaultReplenishDrawSpan bounds the random batch draw: the draw is uniform in [0, span).
	DefaultReplenishDrawSpan = 15
)

// IntSource is the subset of *rand.Rand the replenisher draws from.
type IntSource interface {
	Intn(n int) int
}

// Replenisher keeps the ready queue populated from the backlog pool.
// Thread-safety: NOT thread-safe; owned by a single dispatch run.
type Replenisher struct {
	MinJobs  int // low-water mark
	DrawSpan int // exclusive upper bound of the random draw
	rng      IntSource

	clamped int
}

// NewReplenisher creates a replenisher drawing batch sizes from rng.
// Non-positive minJobs or drawSpan fall back to the defaults.
func NewReplenisher(minJobs, drawSpan int, rng IntSource) *Replenisher {
	if rng == nil {
		panic("NewReplenisher: rng must not be nil")
	}
	if minJobs < 1 {
		minJobs = DefaultMinReadyJobs
	}
	if drawSpan < 1 {
		drawSpan = DefaultReplenishDrawSpan
	}
	return &Replenisher{MinJobs: minJobs, DrawSpan: drawSpan, rng: rng}
}

// Replenish tops up ready from pool when ready is below the low-water mark.
// The batch size is draw - ready.Len() + 1, clamped to what the pool holds and
// the ready queue can accept. Returns how many jobs moved and the ready-queue
// position of the first one.
func (r *Replenisher) Replenish(ready, pool *BoundedQueue) (moved, start int) {
	start = ready.Len()
	if start >= r.MinJobs {
		return 0, start
	}
	want := r.rng.Intn(r.DrawSpan) - start + 1
	n := clampTransfer(want, pool.Len(), ready.Free())
	if n != want {
		r.clamped++
		logrus.Debugf("replenish: clamped batch %d to %d (pool=%d, free=%d)", want, n, pool.Len(), ready.Free())
	}
	return Transfer(ready, pool, n), start
}

// Clamped returns how many draws had to be clamped so far.
func (r *Replenisher) Clamped() int {
	return r.clamped
}
