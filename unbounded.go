// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpmc

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// blockSize is the number of slots per linked block. Keeping it a small
// power of two amortizes allocation across pushes without holding large
// empty tails alive.
const blockSize = 32

// Unbounded is a multi-producer multi-consumer FIFO queue that grows on
// demand. Enqueue never reports ErrFull.
//
// Storage is a singly linked list of fixed-size blocks. Each block carries
// two counters in [0, blockSize]: write counts push claims, read counts pop
// claims. Producers claim a slot by CAS on write in the tail block; the
// claim that finds write == blockSize allocates a successor, links it with
// a single CAS on next (losers adopt the winner's block), and advances the
// tail pointer. Slots publish through a per-slot ready flag with release
// ordering.
//
// Consumers drain the head block in claim order and retire it once all
// blockSize slots are consumed and a successor exists. Retired blocks are
// never reused; unlinking them leaves reclamation to the garbage collector,
// so a straggler still holding a reference stays safe and addresses are
// never recycled into the queue.
type Unbounded[T any] struct {
	_      pad
	tail   atomic.Pointer[unboundedBlock[T]] // block accepting push claims
	_      pad
	head   atomic.Pointer[unboundedBlock[T]] // block serving pop claims
	_      pad
	pushed atomix.Uint64 // total push claims
	_      pad
	popped atomix.Uint64 // total pop claims
	_      pad
}

type unboundedBlock[T any] struct {
	write atomix.Uint64 // push claims in this block [0, blockSize]
	_     padShort
	read  atomix.Uint64 // pop claims in this block [0, blockSize]
	_     padShort
	next  atomic.Pointer[unboundedBlock[T]]
	_     padPtr
	slots [blockSize]unboundedSlot[T]
}

type unboundedSlot[T any] struct {
	ready atomix.Uint64 // 0 until the value is published
	data  T
}

// NewUnbounded creates an unbounded MPMC queue.
//
// The queue starts with a single empty block and allocates further blocks
// as pushes fill them. There is no capacity to configure and no error to
// return; running out of memory surfaces as a runtime panic like any other
// failed allocation.
func NewUnbounded[T any]() *Unbounded[T] {
	q := &Unbounded[T]{}
	b := &unboundedBlock[T]{}
	q.tail.Store(b)
	q.head.Store(b)
	return q
}

// Enqueue adds an element to the queue (non-blocking).
// The element is copied into the queue's internal buffer.
// Always returns nil; the queue grows instead of reporting ErrFull.
//
// Safe for any number of concurrent producers.
func (q *Unbounded[T]) Enqueue(elem *T) error {
	sw := spin.Wait{}
	for {
		blk := q.tail.Load()
		w := blk.write.LoadAcquire()
		if w == blockSize {
			q.grow(blk)
			continue
		}
		if blk.write.CompareAndSwapAcqRel(w, w+1) {
			q.pushed.AddAcqRel(1)
			slot := &blk.slots[w]
			slot.data = *elem
			slot.ready.StoreRelease(1)
			return nil
		}
		// Lost the claim race.
		sw.Once()
	}
}

// grow links a successor behind the exhausted block and advances the tail
// pointer. Exactly one racing producer wins the link CAS; the others adopt
// the winner's block. The tail CAS is idempotent: it only ever moves the
// pointer from the exhausted block to its successor.
func (q *Unbounded[T]) grow(blk *unboundedBlock[T]) {
	next := blk.next.Load()
	if next == nil {
		nb := &unboundedBlock[T]{}
		if blk.next.CompareAndSwap(nil, nb) {
			next = nb
		} else {
			next = blk.next.Load()
		}
	}
	q.tail.CompareAndSwap(blk, next)
}

// Dequeue removes and returns the oldest element (non-blocking).
// Returns (zero-value, ErrEmpty) immediately if the queue is empty, or if
// the oldest slot has been claimed by a push that has not published yet.
// The vacated slot is cleared so referenced objects can be collected.
//
// Safe for any number of concurrent consumers.
func (q *Unbounded[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		blk := q.head.Load()
		r := blk.read.LoadAcquire()
		if r == blockSize {
			// Block fully consumed: retire it if a successor exists.
			next := blk.next.Load()
			if next == nil {
				var zero T
				return zero, ErrEmpty
			}
			q.head.CompareAndSwap(blk, next)
			continue
		}
		if r == blk.write.LoadAcquire() {
			var zero T
			return zero, ErrEmpty
		}
		slot := &blk.slots[r]
		if slot.ready.LoadAcquire() == 0 {
			// Claimed but not yet published.
			var zero T
			return zero, ErrEmpty
		}
		if blk.read.CompareAndSwapAcqRel(r, r+1) {
			elem := slot.data
			var zero T
			slot.data = zero
			q.popped.AddAcqRel(1)
			if r+1 == blockSize {
				// Last slot of the block: retire eagerly when possible.
				if next := blk.next.Load(); next != nil {
					q.head.CompareAndSwap(blk, next)
				}
			}
			return elem, nil
		}
		// Lost the claim race.
		sw.Once()
	}
}

// Len returns the number of elements currently in the queue.
//
// The count is best-effort: it reads two counters that trail the push and
// pop claims, so under concurrent traffic it can lag in either direction.
// An element counts from the moment its push claims a slot until a pop
// claims it.
func (q *Unbounded[T]) Len() int {
	popped := q.popped.LoadAcquire()
	pushed := q.pushed.LoadAcquire()
	return int(pushed - popped)
}

// IsEmpty reports whether the queue held no elements at some moment during
// the call (best-effort).
func (q *Unbounded[T]) IsEmpty() bool {
	return q.Len() == 0
}
