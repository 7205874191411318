// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpmc

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Bounded is a fixed-capacity multi-producer multi-consumer FIFO queue
// backed by a ring of stamped slots.
//
// Two monotonically increasing counters index the ring: tail counts pushes,
// head counts pops. Counter value pos maps to slot pos % capacity on lap
// pos / capacity. Each slot carries a stamp encoding the position it serves
// next together with an occupancy bit in the lowest stamp bit:
//
//	free for push at pos   → pos<<1
//	occupied by push at pos → pos<<1 | 1
//	released by pop at pos  → (pos+capacity)<<1
//
// An operation claims its position by CAS on the counter once the slot
// stamp matches, then publishes through the stamp with release ordering.
// A stamp one lap behind the claimed position means the queue was full
// (push) or empty (pop); after confirming against the opposite counter the
// operation returns ErrFull or ErrEmpty immediately instead of waiting.
//
// Properties:
//   - capacity is exact for any capacity >= 1: the (capacity+1)-th push
//     without an intervening pop fails
//   - elements dequeue in the order their pushes claimed positions
//   - no operation blocks; full and empty are reported, never waited out
type Bounded[T any] struct {
	_        pad
	tail     atomix.Uint64 // Producer counter: positions claimed by pushes
	_        pad
	head     atomix.Uint64 // Consumer counter: positions claimed by pops
	_        pad
	buffer   []boundedSlot[T]
	capacity uint64
}

type boundedSlot[T any] struct {
	stamp atomix.Uint64
	data  T
	_     padShort
}

// occupiedBit is the lowest stamp bit: set while the slot holds a value
// awaiting its pop. Shifting positions left by one keeps free and occupied
// stamps distinct for every capacity, including capacity 1.
const occupiedBit = 1

// NewBounded creates a bounded MPMC queue holding at most capacity
// elements.
//
// The capacity is exact: it is never rounded up or clamped. Returns
// ErrCapacity if capacity < 1.
func NewBounded[T any](capacity int) (*Bounded[T], error) {
	if capacity < 1 {
		return nil, ErrCapacity
	}
	n := uint64(capacity)
	q := &Bounded[T]{
		buffer:   make([]boundedSlot[T], n),
		capacity: n,
	}
	for i := uint64(0); i < n; i++ {
		q.buffer[i].stamp.StoreRelaxed(i << 1)
	}
	return q, nil
}

// Enqueue adds an element to the queue (non-blocking).
// The element is copied into the queue's internal buffer.
// Returns nil on success, ErrFull if the queue already holds capacity
// elements. On ErrFull the element is not consumed.
//
// Safe for any number of concurrent producers.
func (q *Bounded[T]) Enqueue(elem *T) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		slot := &q.buffer[tail%q.capacity]
		stamp := slot.stamp.LoadAcquire()
		diff := int64(stamp) - int64(tail<<1)

		if diff == 0 {
			// Slot free for this position: claim it.
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				slot.data = *elem
				slot.stamp.StoreRelease(tail<<1 | occupiedBit)
				return nil
			}
		} else if diff < 0 {
			// Stamp a lap behind: the slot still carries the element
			// pushed capacity positions earlier, or its pop has claimed
			// but not yet released it.
			head := q.head.LoadAcquire()
			if tail-head == q.capacity {
				return ErrFull
			}
			// A pop is in flight; the slot is about to be released.
		}
		// Stale tail or lost the claim race.
		sw.Once()
	}
}

// Dequeue removes and returns the oldest element (non-blocking).
// Returns (zero-value, ErrEmpty) immediately if the queue is empty.
// The vacated slot is cleared so referenced objects can be collected.
//
// Safe for any number of concurrent consumers.
func (q *Bounded[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		head := q.head.LoadAcquire()
		slot := &q.buffer[head%q.capacity]
		stamp := slot.stamp.LoadAcquire()
		diff := int64(stamp) - int64(head<<1|occupiedBit)

		if diff == 0 {
			// Slot occupied by this position: claim it.
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				elem := slot.data
				var zero T
				slot.data = zero
				slot.stamp.StoreRelease((head + q.capacity) << 1)
				return elem, nil
			}
		} else if diff < 0 {
			// Nothing published for this position yet.
			tail := q.tail.LoadAcquire()
			if tail == head {
				var zero T
				return zero, ErrEmpty
			}
			// A push has claimed this position and is about to publish.
		}
		// Stale head or lost the claim race.
		sw.Once()
	}
}

// Len returns the number of elements currently in the queue.
//
// The count is exact for some moment during the call, but under concurrent
// traffic it may be stale by the time the caller inspects it. An element
// counts from the moment its push claims a position until a pop claims it.
func (q *Bounded[T]) Len() int {
	for {
		head := q.head.LoadAcquire()
		tail := q.tail.LoadAcquire()
		if head == q.head.LoadAcquire() {
			return int(tail - head)
		}
	}
}

// Cap returns the queue capacity.
func (q *Bounded[T]) Cap() int {
	return int(q.capacity)
}

// IsEmpty reports whether the queue held no elements at some moment during
// the call.
func (q *Bounded[T]) IsEmpty() bool {
	return q.Len() == 0
}

// IsFull reports whether the queue held capacity elements at some moment
// during the call.
func (q *Bounded[T]) IsFull() bool {
	return q.Len() == int(q.capacity)
}
