// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpmc

import "unsafe"

// Options configures queue creation and engine selection.
type Options struct {
	// Growth policy (determines engine)
	unbounded bool

	// Capacity of the bounded engine (exact, never rounded)
	capacity int
}

// Builder creates queues with fluent configuration.
//
// Builder provides a fluent API for configuring and creating queues. The
// builder selects the engine from the growth policy: a fixed-capacity ring
// by default, a linked-block queue after Unbounded().
//
// Example:
//
//	// Bounded queue (backpressure via ErrFull)
//	q, err := mpmc.Build[Event](mpmc.New(4096))
//
//	// Unbounded queue (Enqueue never fails)
//	q, _ := mpmc.Build[Event](mpmc.New(0).Unbounded())
//
// The direct constructors NewBounded and NewUnbounded remain the
// recommended path when the engine is known at the call site.
type Builder struct {
	opts Options
}

// New creates a queue builder with the given capacity.
//
// The capacity is exact: it is never rounded up or clamped. Build returns
// ErrCapacity when a bounded queue is requested with capacity < 1. The
// capacity is ignored after Unbounded().
func New(capacity int) *Builder {
	return &Builder{opts: Options{capacity: capacity}}
}

// Unbounded selects the linked-block engine, which grows on demand and
// never reports ErrFull.
func (b *Builder) Unbounded() *Builder {
	b.opts.unbounded = true
	return b
}

// Build creates a Queue[T] with automatic engine selection.
//
// Engine selection:
//
//	default     → Bounded (fixed-capacity ring, ErrFull at capacity)
//	Unbounded() → Unbounded (linked blocks, grows on demand)
//
// For type-safe returns with concrete types, use:
//   - BuildBounded[T](b) → *Bounded[T]
//   - BuildUnbounded[T](b) → *Unbounded[T]
func Build[T any](b *Builder) (Queue[T], error) {
	if b.opts.unbounded {
		return NewUnbounded[T](), nil
	}
	return NewBounded[T](b.opts.capacity)
}

// BuildBounded creates a bounded queue with compile-time type safety.
// Panics if the builder is configured with Unbounded().
func BuildBounded[T any](b *Builder) (*Bounded[T], error) {
	if b.opts.unbounded {
		panic("mpmc: BuildBounded requires a builder without Unbounded()")
	}
	return NewBounded[T](b.opts.capacity)
}

// BuildUnbounded creates an unbounded queue with compile-time type safety.
// Panics if the builder is not configured with Unbounded().
func BuildUnbounded[T any](b *Builder) *Unbounded[T] {
	if !b.opts.unbounded {
		panic("mpmc: BuildUnbounded requires Unbounded()")
	}
	return NewUnbounded[T]()
}

// ptrSize is the size of a pointer in bytes.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// pad is cache line padding to prevent false sharing.
type pad [64]byte

// padShort is padding to fill cache line after 8-byte field.
type padShort [64 - 8]byte

// padPtr is padding to fill cache line after pointer-sized field.
type padPtr [64 - ptrSize]byte
