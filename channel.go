// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpmc

import "code.hybscloud.com/atomix"

// Chan creates a bounded channel and returns its producer and consumer
// handles. Both handles may be shared freely across goroutines.
//
// The channel stores at most capacity elements; TrySend reports ErrFull at
// capacity. Returns ErrCapacity if capacity < 1: rendezvous (capacity 0)
// channels are not provided, use the standard library for handoff
// semantics.
//
// Example:
//
//	tx, rx, err := mpmc.Chan[Job](128)
//	if err != nil {
//	    return err
//	}
//	go producer(tx)
//	go consumer(rx)
func Chan[T any](capacity int) (*Sender[T], *Receiver[T], error) {
	q, err := NewBounded[T](capacity)
	if err != nil {
		return nil, nil, err
	}
	ch := &chanCore[T]{bounded: q}
	return &Sender[T]{ch: ch}, &Receiver[T]{ch: ch}, nil
}

// ChanUnbounded creates an unbounded channel and returns its producer and
// consumer handles. TrySend never reports ErrFull.
func ChanUnbounded[T any]() (*Sender[T], *Receiver[T]) {
	ch := &chanCore[T]{unbounded: NewUnbounded[T]()}
	return &Sender[T]{ch: ch}, &Receiver[T]{ch: ch}
}

// chanCore is the state shared by the two channel handles. Exactly one of
// the engine fields is non-nil.
type chanCore[T any] struct {
	bounded   *Bounded[T]
	unbounded *Unbounded[T]
	closed    atomix.Uint64 // 0 open, 1 closed
}

func (c *chanCore[T]) enqueue(elem *T) error {
	if c.bounded != nil {
		return c.bounded.Enqueue(elem)
	}
	return c.unbounded.Enqueue(elem)
}

func (c *chanCore[T]) dequeue() (T, error) {
	if c.bounded != nil {
		return c.bounded.Dequeue()
	}
	return c.unbounded.Dequeue()
}

func (c *chanCore[T]) length() int {
	if c.bounded != nil {
		return c.bounded.Len()
	}
	return c.unbounded.Len()
}

func (c *chanCore[T]) isClosed() bool {
	return c.closed.LoadAcquire() != 0
}

// Sender is the producer handle of a channel created by Chan or
// ChanUnbounded.
type Sender[T any] struct {
	ch *chanCore[T]
}

// TrySend adds an element to the channel (non-blocking).
// Returns nil on success, ErrFull if a bounded channel is at capacity, or
// ErrClosed after Close. On any error the element is not consumed.
//
// A TrySend racing with Close may still deliver its element; values placed
// before the close is observed remain receivable.
func (s *Sender[T]) TrySend(elem *T) error {
	if s.ch.isClosed() {
		return ErrClosed
	}
	return s.ch.enqueue(elem)
}

// Close marks the channel closed. Subsequent TrySend calls fail with
// ErrClosed; TryRecv keeps draining buffered elements and reports ErrClosed
// only once the channel is empty.
//
// The first Close returns nil; every later Close returns ErrClosed.
func (s *Sender[T]) Close() error {
	if s.ch.closed.CompareAndSwapAcqRel(0, 1) {
		return nil
	}
	return ErrClosed
}

// Len returns the number of buffered elements (best-effort).
func (s *Sender[T]) Len() int { return s.ch.length() }

// Cap returns the channel capacity, or -1 for an unbounded channel.
func (s *Sender[T]) Cap() int {
	if s.ch.bounded != nil {
		return s.ch.bounded.Cap()
	}
	return -1
}

// IsEmpty reports whether the channel buffered no elements at some moment
// during the call (best-effort).
func (s *Sender[T]) IsEmpty() bool { return s.ch.length() == 0 }

// IsFull reports whether a bounded channel was at capacity at some moment
// during the call. An unbounded channel is never full.
func (s *Sender[T]) IsFull() bool {
	if s.ch.bounded != nil {
		return s.ch.bounded.IsFull()
	}
	return false
}

// IsClosed reports whether the channel has been closed.
func (s *Sender[T]) IsClosed() bool { return s.ch.isClosed() }

// Receiver is the consumer handle of a channel created by Chan or
// ChanUnbounded.
type Receiver[T any] struct {
	ch *chanCore[T]
}

// TryRecv removes and returns the oldest buffered element (non-blocking).
// Returns ErrEmpty when the channel is open and empty, and ErrClosed once
// the channel is closed and drained. Buffered elements are always
// delivered before ErrClosed.
func (r *Receiver[T]) TryRecv() (T, error) {
	elem, err := r.ch.dequeue()
	if err != nil && r.ch.isClosed() {
		var zero T
		return zero, ErrClosed
	}
	return elem, err
}

// Len returns the number of buffered elements (best-effort).
func (r *Receiver[T]) Len() int { return r.ch.length() }

// Cap returns the channel capacity, or -1 for an unbounded channel.
func (r *Receiver[T]) Cap() int {
	if r.ch.bounded != nil {
		return r.ch.bounded.Cap()
	}
	return -1
}

// IsEmpty reports whether the channel buffered no elements at some moment
// during the call (best-effort).
func (r *Receiver[T]) IsEmpty() bool { return r.ch.length() == 0 }

// IsFull reports whether a bounded channel was at capacity at some moment
// during the call. An unbounded channel is never full.
func (r *Receiver[T]) IsFull() bool {
	if r.ch.bounded != nil {
		return r.ch.bounded.IsFull()
	}
	return false
}

// IsClosed reports whether the channel has been closed.
func (r *Receiver[T]) IsClosed() bool { return r.ch.isClosed() }
