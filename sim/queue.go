// Implements the BoundedQueue, the fixed-capacity ring buffer that backs both
// the ready queue and the backlog pool of every dispatch run.

package sim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// ErrQueueFull is returned by Enqueue when the queue has no free slot.
	// The rejected value is dropped.
	ErrQueueFull = errors.New("queue is full")

	// ErrQueueEmpty is returned by Front and Dequeue on an empty queue.
	// Dispatch engines treat it as fatal when it comes from Front.
	ErrQueueEmpty = errors.New("queue is empty")
)

// BoundedQueue is a FIFO of burst quanta over a fixed backing array.
// Indices wrap modulo capacity; the queue never grows.
type BoundedQueue struct {
	elements []int
	size     int
	front    int // index of the oldest element
	rear     int // index of the newest element
}

// NewBoundedQueue creates an empty queue holding at most capacity values.
// Panics if capacity < 1.
func NewBoundedQueue(capacity int) *BoundedQueue {
	if capacity < 1 {
		panic(fmt.Sprintf("NewBoundedQueue: capacity must be >= 1, got %d", capacity))
	}
	return &BoundedQueue{
		elements: make([]int, capacity),
		rear:     capacity - 1, // first enqueue lands on index 0
	}
}

// NewBoundedQueueFrom creates a queue of the given capacity pre-filled with values
// in order. Values beyond capacity are dropped (and logged) like any other
// enqueue on a full queue.
func NewBoundedQueueFrom(capacity int, values []int) *BoundedQueue {
	q := NewBoundedQueue(capacity)
	for _, v := range values {
		_ = q.Enqueue(v)
	}
	return q
}

// Enqueue adds a value at the rear of the queue.
func (q *BoundedQueue) Enqueue(value int) error {
	if q.size == len(q.elements) {
		logrus.Warnf("enqueue %d: %v (capacity %d)", value, ErrQueueFull, len(q.elements))
		return ErrQueueFull
	}
	q.rear = (q.rear + 1) % len(q.elements)
	q.elements[q.rear] = value
	q.size++
	return nil
}

// Dequeue discards the value at the front of the queue.
// On an empty queue it logs and leaves the state unchanged.
func (q *BoundedQueue) Dequeue() error {
	if q.size == 0 {
		logrus.Warnf("dequeue: %v", ErrQueueEmpty)
		return ErrQueueEmpty
	}
	q.front = (q.front + 1) % len(q.elements)
	q.size--
	return nil
}

// Front returns the oldest value without removing it.
func (q *BoundedQueue) Front() (int, error) {
	if q.size == 0 {
		return 0, ErrQueueEmpty
	}
	return q.elements[q.front], nil
}

// Len returns the number of values in the queue.
func (q *BoundedQueue) Len() int {
	return q.size
}

// Cap returns the fixed capacity of the queue.
func (q *BoundedQueue) Cap() int {
	return len(q.elements)
}

// Free returns the number of values that can still be enqueued.
func (q *BoundedQueue) Free() int {
	return len(q.elements) - q.size
}

// Items returns a copy of the queue contents in FIFO order.
func (q *BoundedQueue) Items() []int {
	out := make([]int, q.size)
	for i := 0; i < q.size; i++ {
		out[i] = q.elements[(q.front+i)%len(q.elements)]
	}
	return out
}

func (q *BoundedQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, val := range q.Items() {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(fmt.Sprint(val))
	}
	sb.WriteString("]")
	return sb.String()
}

// Transfer moves up to amount values from the front of src to the rear of dst,
// preserving their order. The amount is bounded to [0, min(src.Len(), dst.Free())]
// so a transfer can never underflow src or overflow dst.
// Returns the number of values actually moved.
func Transfer(dst, src *BoundedQueue, amount int) int {
	n := clampTransfer(amount, src.Len(), dst.Free())
	for i := 0; i < n; i++ {
		value, _ := src.Front()
		_ = src.Dequeue()
		_ = dst.Enqueue(value)
	}
	return n
}

func clampTransfer(amount, available, free int) int {
	return max(0, min(amount, available, free))
}
