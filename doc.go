// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package mpmc provides lock-free multi-producer multi-consumer FIFO
// queues.
//
// The package offers two independent engines plus a channel facade built
// on top of them:
//
//   - Bounded: fixed-capacity ring with exact capacity and backpressure
//   - Unbounded: linked blocks that grow on demand, Enqueue never fails
//   - Chan/ChanUnbounded: Sender and Receiver handles with close semantics
//
// # Quick Start
//
// Direct constructors (recommended for most cases):
//
//	q, err := mpmc.NewBounded[Event](1024)
//	u := mpmc.NewUnbounded[*Request]()
//
// Builder API selects the engine from the growth policy:
//
//	q, err := mpmc.Build[Event](mpmc.New(1024))          // → Bounded
//	q, err := mpmc.Build[Event](mpmc.New(0).Unbounded()) // → Unbounded
//
// # Basic Usage
//
// Both engines share the same interface for enqueueing and dequeueing:
//
//	// Create a queue
//	q, err := mpmc.NewBounded[int](1024)
//	if err != nil {
//	    // Capacity below 1 is rejected, never clamped
//	}
//
//	// Enqueue (non-blocking)
//	value := 42
//	err = q.Enqueue(&value)
//	if mpmc.IsWouldBlock(err) {
//	    // Queue is full - handle backpressure; value is still yours
//	}
//
//	// Dequeue (non-blocking)
//	elem, err := q.Dequeue()
//	if mpmc.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// # Common Patterns
//
// Backpressured Pipeline (Bounded):
//
//	// Stage 1 → Queue → Stage 2, capacity caps memory and latency
//	q, _ := mpmc.NewBounded[Data](1024)
//
//	go func() { // Producer (Stage 1)
//	    backoff := iox.Backoff{}
//	    for data := range input {
//	        for q.Enqueue(&data) != nil {
//	            backoff.Wait()
//	        }
//	        backoff.Reset()
//	    }
//	}()
//
//	go func() { // Consumer (Stage 2)
//	    backoff := iox.Backoff{}
//	    for {
//	        data, err := q.Dequeue()
//	        if err != nil {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        process(data)
//	    }
//	}()
//
// Burst Absorption (Unbounded):
//
//	// Producers must never stall, consumers catch up later
//	q := mpmc.NewUnbounded[Event]()
//
//	// Producers (hot path, Enqueue cannot fail)
//	for sensor := range slices.Values(sensors) {
//	    go func(s Sensor) {
//	        for ev := range s.Events() {
//	            q.Enqueue(&ev)
//	        }
//	    }(sensor)
//	}
//
//	// Consumers drain at their own pace
//	go func() {
//	    backoff := iox.Backoff{}
//	    for {
//	        ev, err := q.Dequeue()
//	        if err != nil {
//	            backoff.Wait()
//	            continue
//	        }
//	        backoff.Reset()
//	        aggregate(ev)
//	    }
//	}()
//
// Worker Pool (Bounded):
//
//	// Multiple submitters → Multiple workers
//	q, _ := mpmc.NewBounded[Job](4096)
//
//	// Workers
//	for range numWorkers {
//	    go func() {
//	        for {
//	            job, err := q.Dequeue()
//	            if err == nil {
//	                job.Run()
//	            }
//	        }
//	    }()
//	}
//
//	// Submit jobs from anywhere; ErrFull is the admission control
//	func Submit(j Job) error {
//	    return q.Enqueue(&j)
//	}
//
// # Engine Selection
//
// Bounded (stamped ring, capacity fixed at creation):
//
//   - one allocation up front, none per operation
//   - exact capacity: the (capacity+1)-th push without a pop fails
//   - ErrFull doubles as backpressure for admission control
//
// Unbounded (linked blocks of 32 slots):
//
//   - Enqueue always succeeds; one block allocation amortized per 32
//     pushes
//   - consumed blocks unlink and return to the garbage collector
//   - no backpressure: memory grows with the producer/consumer gap
//
// Prefer Bounded when a capacity can be named; reach for Unbounded when
// producers must never stall or drop.
//
// # Channels
//
// Chan and ChanUnbounded wrap the engines in Sender and Receiver handles
// that add close semantics:
//
//	tx, rx, _ := mpmc.Chan[Job](128)
//
//	// Producer side
//	if err := tx.TrySend(&job); errors.Is(err, mpmc.ErrClosed) {
//	    // Channel closed, stop producing
//	}
//
//	// Consumer side
//	job, err := rx.TryRecv()
//	if errors.Is(err, mpmc.ErrClosed) {
//	    // Closed and fully drained
//	}
//
//	// Shutdown: close, then drain
//	tx.Close()
//
// TryRecv delivers every buffered element before reporting ErrClosed, so a
// close never loses values.
//
// # Error Handling
//
// Queues return [ErrFull] and [ErrEmpty] when operations cannot proceed.
// Both wrap [ErrWouldBlock], sourced from [code.hybscloud.com/iox] for
// ecosystem consistency.
//
//	// Retry loop with backoff
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if !mpmc.IsWouldBlock(err) {
//	        return err // Unexpected error
//	    }
//	    backoff.Wait()
//	}
//
// For semantic error classification (delegates to iox):
//
//	mpmc.IsWouldBlock(err)  // true if queue full/empty
//	mpmc.IsSemantic(err)    // true if control flow signal
//	mpmc.IsNonFailure(err)  // true if nil or a would-block condition
//
// [ErrClosed] from the channel handles is terminal and does not wrap
// ErrWouldBlock: retrying cannot succeed.
//
// # Capacity and Length
//
// Bounded capacity is exact. It is never rounded to a power of two and
// never clamped:
//
//	q, err := mpmc.NewBounded[int](3)  // Holds exactly 3
//	q, err := mpmc.NewBounded[int](1)  // Holds exactly 1
//	q, err := mpmc.NewBounded[int](0)  // err == mpmc.ErrCapacity
//
// Len, IsEmpty and IsFull report a moment-in-time snapshot. On a quiescent
// queue the snapshot is accurate; under concurrent traffic it may be stale
// by the time the caller inspects it. Use it for monitoring and
// heuristics, not for synchronization.
//
// # Thread Safety
//
// Every operation on every type in this package is safe for any number of
// concurrent goroutines. There are no single-producer or single-consumer
// constraints to violate, and the Sender and Receiver channel handles may
// be shared freely.
//
// # Race Detection
//
// Go's race detector is not designed for lock-free algorithm verification.
// The race detector tracks explicit synchronization primitives (mutex,
// channels, WaitGroup) but cannot observe happens-before relationships
// established through atomic memory orderings (acquire-release semantics).
//
// Both engines publish slot contents through stamps and ready flags with
// acquire-release semantics. The algorithms are correct, but the race
// detector may report false positives because it cannot track
// synchronization provided by atomic operations on separate variables.
//
// For lock-free algorithm correctness verification, use:
//   - Formal verification tools (TLA+, SPIN)
//   - Stress testing without race detector
//   - Memory model analysis
//
// Tests incompatible with race detection are excluded via //go:build !race.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, and [code.hybscloud.com/spin] for CPU pause
// instructions.
package mpmc
