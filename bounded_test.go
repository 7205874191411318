// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpmc_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/mpmc"
)

// =============================================================================
// Bounded Queue - Basic Operations
// =============================================================================

// TestBoundedBasic tests basic bounded queue operations: fill to capacity,
// reject the overflowing push, drain in FIFO order, reject the empty pop.
func TestBoundedBasic(t *testing.T) {
	q, err := mpmc.NewBounded[int](4)
	if err != nil {
		t.Fatalf("NewBounded(4): %v", err)
	}

	if q.Cap() != 4 {
		t.Fatalf("Cap: got %d, want 4", q.Cap())
	}

	// Enqueue to capacity
	for i := range 4 {
		v := i + 100
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}

	// Full queue returns ErrFull
	v := 999
	if err := q.Enqueue(&v); !errors.Is(err, mpmc.ErrFull) {
		t.Fatalf("Enqueue on full: got %v, want ErrFull", err)
	}

	// Dequeue in FIFO order
	for i := range 4 {
		val, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if val != i+100 {
			t.Fatalf("Dequeue(%d): got %d, want %d", i, val, i+100)
		}
	}

	// Empty queue returns ErrEmpty
	if _, err := q.Dequeue(); !errors.Is(err, mpmc.ErrEmpty) {
		t.Fatalf("Dequeue on empty: got %v, want ErrEmpty", err)
	}
}

// TestBoundedErrorClassification tests that ErrFull and ErrEmpty wrap
// ErrWouldBlock and classify as non-failure conditions.
func TestBoundedErrorClassification(t *testing.T) {
	q, err := mpmc.NewBounded[int](1)
	if err != nil {
		t.Fatalf("NewBounded(1): %v", err)
	}

	v := 1
	if err := q.Enqueue(&v); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	err = q.Enqueue(&v)
	if !errors.Is(err, mpmc.ErrWouldBlock) {
		t.Fatalf("ErrFull should wrap ErrWouldBlock: got %v", err)
	}
	if !mpmc.IsWouldBlock(err) {
		t.Fatalf("IsWouldBlock(ErrFull): got false, want true")
	}
	if !mpmc.IsNonFailure(err) {
		t.Fatalf("IsNonFailure(ErrFull): got false, want true")
	}

	if _, err := q.Dequeue(); err != nil {
		t.Fatalf("Dequeue: %v", err)
	}

	_, err = q.Dequeue()
	if !errors.Is(err, mpmc.ErrWouldBlock) {
		t.Fatalf("ErrEmpty should wrap ErrWouldBlock: got %v", err)
	}
	if !mpmc.IsWouldBlock(err) {
		t.Fatalf("IsWouldBlock(ErrEmpty): got false, want true")
	}
}

// =============================================================================
// Bounded Queue - Exact Capacity
// =============================================================================

// TestBoundedExactCapacity tests that the requested capacity is honored
// exactly: no rounding to a power of two, no clamping, and the push after
// the capacity-th fails.
func TestBoundedExactCapacity(t *testing.T) {
	capacities := []int{1, 2, 3, 5, 7, 100, 128, 1000}

	for _, capacity := range capacities {
		q, err := mpmc.NewBounded[int](capacity)
		if err != nil {
			t.Fatalf("NewBounded(%d): %v", capacity, err)
		}
		if q.Cap() != capacity {
			t.Fatalf("NewBounded(%d).Cap() = %d, want %d", capacity, q.Cap(), capacity)
		}

		for i := range capacity {
			v := i
			if err := q.Enqueue(&v); err != nil {
				t.Fatalf("capacity %d: Enqueue(%d): %v", capacity, i, err)
			}
		}

		v := capacity
		if err := q.Enqueue(&v); !errors.Is(err, mpmc.ErrFull) {
			t.Fatalf("capacity %d: push %d: got %v, want ErrFull", capacity, capacity+1, err)
		}

		// One pop frees exactly one slot.
		if _, err := q.Dequeue(); err != nil {
			t.Fatalf("capacity %d: Dequeue: %v", capacity, err)
		}
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("capacity %d: Enqueue after pop: %v", capacity, err)
		}
		if err := q.Enqueue(&v); !errors.Is(err, mpmc.ErrFull) {
			t.Fatalf("capacity %d: refilled queue should be full: got %v", capacity, err)
		}
	}
}

// TestBoundedCapacityOne tests the single-slot ring, where free and
// occupied states of the same slot alternate every operation.
func TestBoundedCapacityOne(t *testing.T) {
	q, err := mpmc.NewBounded[string](1)
	if err != nil {
		t.Fatalf("NewBounded(1): %v", err)
	}

	for round := range 100 {
		s := "value"
		if err := q.Enqueue(&s); err != nil {
			t.Fatalf("round %d: Enqueue: %v", round, err)
		}
		if err := q.Enqueue(&s); !errors.Is(err, mpmc.ErrFull) {
			t.Fatalf("round %d: second Enqueue: got %v, want ErrFull", round, err)
		}
		val, err := q.Dequeue()
		if err != nil {
			t.Fatalf("round %d: Dequeue: %v", round, err)
		}
		if val != "value" {
			t.Fatalf("round %d: got %q, want %q", round, val, "value")
		}
		if _, err := q.Dequeue(); !errors.Is(err, mpmc.ErrEmpty) {
			t.Fatalf("round %d: second Dequeue: got %v, want ErrEmpty", round, err)
		}
	}
}

// TestBoundedZeroCapacity tests that capacity < 1 is rejected with
// ErrCapacity instead of being clamped.
func TestBoundedZeroCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		q, err := mpmc.NewBounded[int](capacity)
		if !errors.Is(err, mpmc.ErrCapacity) {
			t.Fatalf("NewBounded(%d): got %v, want ErrCapacity", capacity, err)
		}
		if q != nil {
			t.Fatalf("NewBounded(%d): got non-nil queue with error", capacity)
		}
	}
}

// =============================================================================
// Bounded Queue - Wrap-Around
// =============================================================================

// TestBoundedWrapAround tests fill/drain cycles past the ring boundary.
func TestBoundedWrapAround(t *testing.T) {
	q, err := mpmc.NewBounded[int](4)
	if err != nil {
		t.Fatalf("NewBounded(4): %v", err)
	}

	for round := range 10 {
		for i := range 4 {
			v := round*100 + i
			if err := q.Enqueue(&v); err != nil {
				t.Fatalf("round %d enqueue %d: %v", round, i, err)
			}
		}

		for i := range 4 {
			val, err := q.Dequeue()
			if err != nil {
				t.Fatalf("round %d dequeue %d: %v", round, i, err)
			}
			expected := round*100 + i
			if val != expected {
				t.Fatalf("round %d dequeue %d: got %d, want %d", round, i, val, expected)
			}
		}
	}
}

// TestBoundedOddCapacityWrapAround tests wrap-around on a capacity that is
// not a power of two, where position and slot index drift apart every lap.
func TestBoundedOddCapacityWrapAround(t *testing.T) {
	q, err := mpmc.NewBounded[int](3)
	if err != nil {
		t.Fatalf("NewBounded(3): %v", err)
	}

	next := 0
	for round := range 20 {
		for range 3 {
			v := next
			if err := q.Enqueue(&v); err != nil {
				t.Fatalf("round %d enqueue %d: %v", round, v, err)
			}
			next++
		}

		for i := range 3 {
			val, err := q.Dequeue()
			if err != nil {
				t.Fatalf("round %d dequeue %d: %v", round, i, err)
			}
			expected := next - 3 + i
			if val != expected {
				t.Fatalf("round %d dequeue %d: got %d, want %d", round, i, val, expected)
			}
		}
	}
}

// =============================================================================
// Bounded Queue - Length and State Queries
// =============================================================================

// TestBoundedLen tests Len, IsEmpty and IsFull through a full fill/drain
// cycle on a quiescent queue.
func TestBoundedLen(t *testing.T) {
	q, err := mpmc.NewBounded[int](8)
	if err != nil {
		t.Fatalf("NewBounded(8): %v", err)
	}

	if !q.IsEmpty() {
		t.Fatal("new queue should be empty")
	}
	if q.IsFull() {
		t.Fatal("new queue should not be full")
	}
	if q.Len() != 0 {
		t.Fatalf("Len: got %d, want 0", q.Len())
	}

	for i := range 8 {
		v := i
		if err := q.Enqueue(&v); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
		if q.Len() != i+1 {
			t.Fatalf("Len after %d pushes: got %d, want %d", i+1, q.Len(), i+1)
		}
	}

	if q.IsEmpty() {
		t.Fatal("full queue should not be empty")
	}
	if !q.IsFull() {
		t.Fatal("queue at capacity should be full")
	}

	for i := range 8 {
		if _, err := q.Dequeue(); err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if q.Len() != 7-i {
			t.Fatalf("Len after %d pops: got %d, want %d", i+1, q.Len(), 7-i)
		}
	}

	if !q.IsEmpty() {
		t.Fatal("drained queue should be empty")
	}
	if q.IsFull() {
		t.Fatal("drained queue should not be full")
	}
}

// TestBoundedEmptyIdempotent tests that failed pops leave the queue usable.
func TestBoundedEmptyIdempotent(t *testing.T) {
	q, err := mpmc.NewBounded[int](4)
	if err != nil {
		t.Fatalf("NewBounded(4): %v", err)
	}

	for i := range 50 {
		if _, err := q.Dequeue(); !errors.Is(err, mpmc.ErrEmpty) {
			t.Fatalf("empty dequeue %d: got %v, want ErrEmpty", i, err)
		}
	}

	v := 7
	if err := q.Enqueue(&v); err != nil {
		t.Fatalf("Enqueue after failed pops: %v", err)
	}
	val, err := q.Dequeue()
	if err != nil {
		t.Fatalf("Dequeue: %v", err)
	}
	if val != 7 {
		t.Fatalf("got %d, want 7", val)
	}
}

// =============================================================================
// Edge Cases - Zero values, non-trivial payloads
// =============================================================================

// TestBoundedZeroValue tests that the zero value is a valid element.
func TestBoundedZeroValue(t *testing.T) {
	q, err := mpmc.NewBounded[int](4)
	if err != nil {
		t.Fatalf("NewBounded(4): %v", err)
	}

	v := 0
	if err := q.Enqueue(&v); err != nil {
		t.Fatalf("enqueue 0: %v", err)
	}
	val, err := q.Dequeue()
	if err != nil {
		t.Fatalf("dequeue: %v", err)
	}
	if val != 0 {
		t.Fatalf("got %d, want 0", val)
	}
}

// TestBoundedStructPayload tests round-tripping a struct with heap-backed
// fields: the element must come back intact, not just a header.
func TestBoundedStructPayload(t *testing.T) {
	type payload struct {
		ID   int
		Name string
		Data []byte
	}

	q, err := mpmc.NewBounded[payload](4)
	if err != nil {
		t.Fatalf("NewBounded(4): %v", err)
	}

	for i := range 4 {
		p := payload{
			ID:   i,
			Name: "payload",
			Data: []byte{byte(i), byte(i + 1), byte(i + 2)},
		}
		if err := q.Enqueue(&p); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}

	for i := range 4 {
		p, err := q.Dequeue()
		if err != nil {
			t.Fatalf("Dequeue(%d): %v", i, err)
		}
		if p.ID != i || p.Name != "payload" {
			t.Fatalf("Dequeue(%d): got %+v", i, p)
		}
		if len(p.Data) != 3 || p.Data[0] != byte(i) {
			t.Fatalf("Dequeue(%d): data corrupted: %v", i, p.Data)
		}
	}
}

// =============================================================================
// Builder
// =============================================================================

// TestBuild tests engine selection through the builder.
func TestBuild(t *testing.T) {
	q, err := mpmc.Build[int](mpmc.New(16))
	if err != nil {
		t.Fatalf("Build bounded: %v", err)
	}
	v := 1
	if err := q.Enqueue(&v); err != nil {
		t.Fatalf("bounded Enqueue: %v", err)
	}
	if val, err := q.Dequeue(); err != nil || val != 1 {
		t.Fatalf("bounded Dequeue: got %d, %v", val, err)
	}

	u, err := mpmc.Build[int](mpmc.New(0).Unbounded())
	if err != nil {
		t.Fatalf("Build unbounded: %v", err)
	}
	if err := u.Enqueue(&v); err != nil {
		t.Fatalf("unbounded Enqueue: %v", err)
	}
	if val, err := u.Dequeue(); err != nil || val != 1 {
		t.Fatalf("unbounded Dequeue: got %d, %v", val, err)
	}

	if _, err := mpmc.Build[int](mpmc.New(0)); !errors.Is(err, mpmc.ErrCapacity) {
		t.Fatalf("Build with capacity 0: got %v, want ErrCapacity", err)
	}
}

// TestBuildTyped tests the type-safe builder functions and their
// misconfiguration panics.
func TestBuildTyped(t *testing.T) {
	q, err := mpmc.BuildBounded[int](mpmc.New(8))
	if err != nil {
		t.Fatalf("BuildBounded: %v", err)
	}
	if q.Cap() != 8 {
		t.Fatalf("Cap: got %d, want 8", q.Cap())
	}

	u := mpmc.BuildUnbounded[int](mpmc.New(0).Unbounded())
	if u == nil {
		t.Fatal("BuildUnbounded returned nil")
	}

	tests := []struct {
		name   string
		create func()
	}{
		{"BoundedFromUnbounded", func() { mpmc.BuildBounded[int](mpmc.New(8).Unbounded()) }},
		{"UnboundedFromBounded", func() { mpmc.BuildUnbounded[int](mpmc.New(8)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Fatal("expected panic for mismatched builder")
				}
			}()
			tt.create()
		})
	}
}

// =============================================================================
// Interface Compliance
// =============================================================================

func TestQueueInterface(t *testing.T) {
	b, err := mpmc.NewBounded[int](8)
	if err != nil {
		t.Fatalf("NewBounded(8): %v", err)
	}
	var _ mpmc.Queue[int] = b
	var _ mpmc.Queue[int] = mpmc.NewUnbounded[int]()
	var _ mpmc.Producer[int] = b
	var _ mpmc.Consumer[int] = b
}
