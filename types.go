// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpmc

// Queue is the combined producer-consumer interface shared by the bounded
// and unbounded engines.
//
// Queue provides non-blocking Enqueue and Dequeue operations. Both return
// an error wrapping ErrWouldBlock when they cannot proceed: ErrFull from a
// bounded Enqueue, ErrEmpty from Dequeue.
//
// Len and IsEmpty report a moment-in-time snapshot. Under concurrent
// traffic the count may be stale by the time the caller inspects it; use it
// for monitoring and heuristics, not for synchronization.
//
// Example:
//
//	q, err := mpmc.NewBounded[int](1024)
//	if err != nil {
//	    // Capacity below 1 is rejected, never clamped.
//	}
//
//	// Enqueue
//	val := 42
//	if err := q.Enqueue(&val); err != nil {
//	    // Queue full: val is untouched and still owned by the caller.
//	}
//
//	// Dequeue
//	elem, err := q.Dequeue()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Queue[T any] interface {
	Producer[T]
	Consumer[T]

	// Len returns the number of elements currently queued (best-effort).
	Len() int

	// IsEmpty reports whether the queue held no elements at the time of
	// the call (best-effort).
	IsEmpty() bool
}

// Producer is the interface for enqueueing elements.
//
// Producer provides non-blocking enqueue operations. The element is passed
// by pointer to avoid copying large structs. The queue stores a copy of
// the pointed-to value, so the original can be modified after Enqueue
// returns. On failure the pointed-to value is never consumed.
type Producer[T any] interface {
	// Enqueue adds an element to the queue (non-blocking).
	// The element is copied into the queue's internal buffer.
	// Returns nil on success, ErrFull if a bounded queue is at capacity.
	// An unbounded queue always returns nil.
	//
	// Safe for any number of concurrent producers.
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
//
// Consumer provides non-blocking dequeue operations. The element is
// returned by value (copied from the queue's internal buffer). The original
// slot is cleared to allow garbage collection of referenced objects.
type Consumer[T any] interface {
	// Dequeue removes and returns the oldest element (non-blocking).
	// Returns (zero-value, ErrEmpty) immediately if the queue is empty.
	//
	// Safe for any number of concurrent consumers.
	Dequeue() (T, error)
}
