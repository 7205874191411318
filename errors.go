// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package mpmc

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For Enqueue: the queue is full (backpressure)
// For Dequeue: the queue is empty (no data available)
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry the operation later (with backoff or yield) rather than propagating
// the error.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
// ErrFull and ErrEmpty wrap it, so a caller that does not care which side
// blocked can match on ErrWouldBlock alone:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.Enqueue(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if mpmc.IsWouldBlock(err) {
//	        backoff.Wait()  // Adaptive backpressure
//	        continue
//	    }
//	    return err  // Unexpected error
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// ErrFull is returned by Enqueue on a bounded queue that already holds
// exactly its capacity of elements. The element is not consumed: the caller
// keeps ownership and decides whether to retry, redirect, or drop.
//
// ErrFull wraps [ErrWouldBlock]; errors.Is(err, mpmc.ErrWouldBlock)
// reports true.
var ErrFull = fmt.Errorf("mpmc: queue full: %w", iox.ErrWouldBlock)

// ErrEmpty is returned by Dequeue when no element is available. Observing
// an empty queue is the ordinary idle state of a consumer, not a failure.
//
// ErrEmpty wraps [ErrWouldBlock]; errors.Is(err, mpmc.ErrWouldBlock)
// reports true.
var ErrEmpty = fmt.Errorf("mpmc: queue empty: %w", iox.ErrWouldBlock)

// ErrClosed is returned by TrySend after the channel has been closed, and
// by TryRecv once the channel is closed and fully drained. Close itself
// returns ErrClosed when called more than once.
//
// Unlike ErrFull and ErrEmpty, ErrClosed is terminal: retrying the
// operation cannot succeed.
var ErrClosed = errors.New("mpmc: channel closed")

// ErrCapacity is returned by NewBounded, Build and Chan when the requested
// capacity is less than 1. The capacity is never clamped to a usable value.
var ErrCapacity = errors.New("mpmc: capacity must be at least 1")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support, so it matches
// ErrFull and ErrEmpty as well as ErrWouldBlock itself.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
