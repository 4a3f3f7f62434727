package sim

// PositionTable is position-indexed bookkeeping over the ready queue: slot i
// belongs to whichever job currently sits at queue position i, not to a job
// identity. It backs both the wait-time table and the MRR tracker table.
//
// Methods take waiting, the number of jobs still queued behind the dispatched
// one (ready.Len() right after the dequeue). Slot 0 is the dispatched job's
// position and slots 1..waiting are the jobs behind it.
type PositionTable struct {
	slots []int
}

// NewPositionTable creates a zeroed table with one slot per ready-queue position.
func NewPositionTable(size int) *PositionTable {
	return &PositionTable{slots: make([]int, size)}
}

// At returns the value held at position i.
func (t *PositionTable) At(i int) int {
	return t.slots[i]
}

// Slots returns a copy of the table.
func (t *PositionTable) Slots() []int {
	out := make([]int, len(t.slots))
	copy(out, t.slots)
	return out
}

// Complete retires position 0: each position behind it gains elapsed, all of
// them move down one slot, and the freed tail slot is cleared.
func (t *PositionTable) Complete(waiting, elapsed int) {
	waiting = t.bound(waiting)
	for i := 1; i <= waiting; i++ {
		t.slots[i] += elapsed
	}
	copy(t.slots[:waiting], t.slots[1:waiting+1])
	t.slots[waiting] = 0
}

// Rotate recycles position 0: each position behind it gains elapsed and moves
// down one slot, and position 0's previous value is placed at the tail.
func (t *PositionTable) Rotate(waiting, elapsed int) {
	waiting = t.bound(waiting)
	head := t.slots[0]
	for i := 1; i <= waiting; i++ {
		t.slots[i-1] = t.slots[i] + elapsed
	}
	t.slots[waiting] = head
}

// RemoveAt drops position pos, shifting the positions after it (up to waiting)
// down one slot and clearing the tail. Values before pos are untouched.
func (t *PositionTable) RemoveAt(pos, waiting int) {
	waiting = t.bound(waiting)
	for i := pos; i < waiting; i++ {
		t.slots[i] = t.slots[i+1]
	}
	t.slots[waiting] = 0
}

// Increment adds one to position pos.
func (t *PositionTable) Increment(pos int) {
	t.slots[pos]++
}

// Reset zeroes n slots starting at from, for positions taken by fresh jobs.
func (t *PositionTable) Reset(from, n int) {
	for i := from; i < from+n && i < len(t.slots); i++ {
		if i >= 0 {
			t.slots[i] = 0
		}
	}
}

func (t *PositionTable) bound(waiting int) int {
	return max(0, min(waiting, len(t.slots)-1))
}
