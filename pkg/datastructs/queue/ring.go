package queue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/huynhanx03/go-fastqueue/pkg/utils"
)

var _ Queue[int] = (*RingQueue[int])(nil)

// RingQueue is a growable FIFO queue over a contiguous circular buffer.
//
// Logical position i lives at physical slot (head+i) % capacity. Elements only
// move when the buffer is reallocated (growth on a full Enqueue, or ShrinkToFit),
// which lays them out from slot 0 in logical order.
//
// It is NOT thread-safe. Callers sharing a queue between goroutines must
// serialise every call. Front, Back, At and Values return copies, so they stay
// valid across reallocations.
type RingQueue[T any] struct {
	buf    []T // backing storage, len(buf) is the capacity
	head   int // physical index of the first element
	count  int // number of valid elements
	logger *zap.Logger
}

// NewRing creates an empty RingQueue with capacity 1.
func NewRing[T any]() *RingQueue[T] {
	return &RingQueue[T]{
		buf: make([]T, initialCapacity),
	}
}

// WithLogger attaches a logger that records reallocations at debug level.
func (q *RingQueue[T]) WithLogger(logger *zap.Logger) *RingQueue[T] {
	q.logger = logger
	return q
}

// slot maps a 0-based logical position to its physical index.
func (q *RingQueue[T]) slot(logical int) int {
	return (q.head + logical) % len(q.buf)
}

// Enqueue appends item at the tail, doubling the capacity when the buffer is full.
func (q *RingQueue[T]) Enqueue(item T) {
	if q.count == len(q.buf) {
		q.grow()
	}
	q.buf[q.slot(q.count)] = item
	q.count++
}

// EnqueueBatch appends items in order.
func (q *RingQueue[T]) EnqueueBatch(items []T) {
	for _, item := range items {
		q.Enqueue(item)
	}
}

// Dequeue removes the head element. It does nothing if the queue is empty.
func (q *RingQueue[T]) Dequeue() {
	if q.count == 0 {
		return
	}
	var zero T
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.count--
}

// Pop removes and returns the head element.
// Returns (zero, false) if the queue is empty.
func (q *RingQueue[T]) Pop() (T, bool) {
	if q.count == 0 {
		var zero T
		return zero, false
	}
	item := q.buf[q.head]
	q.Dequeue()
	return item, true
}

// DequeueBatch pops up to len(out) elements into out. Returns count dequeued.
func (q *RingQueue[T]) DequeueBatch(out []T) int {
	n := 0
	for i := range out {
		item, ok := q.Pop()
		if !ok {
			break
		}
		out[i] = item
		n++
	}
	return n
}

// Front returns the head element.
func (q *RingQueue[T]) Front() (T, error) {
	if q.count == 0 {
		var zero T
		return zero, emptyQueue()
	}
	return q.buf[q.head], nil
}

// Back returns the tail element.
func (q *RingQueue[T]) Back() (T, error) {
	if q.count == 0 {
		var zero T
		return zero, emptyQueue()
	}
	return q.buf[q.slot(q.count-1)], nil
}

// At returns the element at the 1-based position index, so At(1) is the front.
func (q *RingQueue[T]) At(index int) (T, error) {
	if !q.inRange(index) {
		var zero T
		return zero, outOfRange(index, q.count)
	}
	return q.buf[q.slot(index-1)], nil
}

// Set overwrites the element at the 1-based position index.
func (q *RingQueue[T]) Set(index int, item T) error {
	if !q.inRange(index) {
		return outOfRange(index, q.count)
	}
	q.buf[q.slot(index-1)] = item
	return nil
}

func (q *RingQueue[T]) inRange(index int) bool {
	return q.count > 0 && index >= 1 && index <= q.count
}

// Size returns the number of elements in the queue.
func (q *RingQueue[T]) Size() int { return q.count }

// Capacity returns the number of allocated slots.
func (q *RingQueue[T]) Capacity() int { return len(q.buf) }

// IsEmpty reports whether the queue holds no elements.
func (q *RingQueue[T]) IsEmpty() bool { return q.count == 0 }

// IsFull reports whether the next Enqueue will reallocate.
func (q *RingQueue[T]) IsFull() bool { return q.count == len(q.buf) }

// Values returns a copy of the elements in FIFO order.
func (q *RingQueue[T]) Values() []T {
	out := make([]T, q.count)
	q.copyTo(out)
	return out
}

// Reserve grows the capacity by doubling until it can hold n elements.
// It panics if n is above the largest power of two an int can hold.
func (q *RingQueue[T]) Reserve(n int) {
	if n <= len(q.buf) {
		return
	}
	if n > maxReserve {
		panic(fmt.Errorf("queue: reserve %d exceeds max capacity %d", n, maxReserve))
	}
	newCap := len(q.buf)
	if utils.IsPowerOfTwo(newCap) {
		newCap = utils.CeilToPowerOfTwo(n)
	} else {
		for newCap < n {
			newCap *= growthFactor
		}
	}
	q.resize(newCap, "reserve")
}

// ShrinkToFit reallocates the storage to exactly Size() slots.
// An empty queue keeps a single slot.
func (q *RingQueue[T]) ShrinkToFit() {
	newCap := q.count
	if newCap < initialCapacity {
		newCap = initialCapacity
	}
	q.resize(newCap, "shrink")
}

// Clear removes all elements without releasing the storage.
func (q *RingQueue[T]) Clear() {
	clear(q.buf)
	q.head = 0
	q.count = 0
}

// grow doubles the capacity.
func (q *RingQueue[T]) grow() {
	q.resize(len(q.buf)*growthFactor, "grow")
}

// resize moves the elements into a new buffer of newCap slots starting at slot 0.
func (q *RingQueue[T]) resize(newCap int, reason string) {
	oldCap := len(q.buf)
	newBuf := make([]T, newCap)
	q.copyTo(newBuf)
	q.buf = newBuf
	q.head = 0

	if q.logger != nil {
		q.logger.Debug("ring queue reallocated",
			zap.String("reason", reason),
			zap.Int("old_capacity", oldCap),
			zap.Int("new_capacity", newCap),
			zap.Int("size", q.count),
		)
	}
}

// copyTo copies the elements in logical order into dst, handling wrap-around.
func (q *RingQueue[T]) copyTo(dst []T) {
	if q.count == 0 {
		return
	}
	tail := q.head + q.count
	if tail <= len(q.buf) {
		copy(dst, q.buf[q.head:tail])
		return
	}
	n := copy(dst, q.buf[q.head:])
	copy(dst[n:], q.buf[:tail-len(q.buf)])
}
