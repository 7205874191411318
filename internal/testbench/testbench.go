// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package testbench drives configurable producer/consumer load through a
// queue and reports how many elements actually moved. It backs cmd/bench;
// the queues themselves never depend on it.
package testbench

import (
	"context"
	"sync"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/mpmc"
)

// Config sets the concurrency shape of a timed run.
type Config struct {
	NumProducers int
	NumConsumers int
}

// RunTimedTest spawns cfg.NumProducers producers and cfg.NumConsumers
// consumers against q and lets them run for testDuration. Producers call
// valueGenerator with a global sequence index and enqueue the result,
// backing off while the queue is full. When the window expires producers
// stop and consumers drain whatever is left, so on return producedCount
// equals consumedCount.
//
// elapsed is the wall time from the first enqueue attempt until the last
// consumer exits, which includes the drain tail.
func RunTimedTest[T any](
	q mpmc.Queue[T],
	cfg Config,
	testDuration time.Duration,
	valueGenerator func(int) T,
) (producedCount, consumedCount int64, elapsed time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), testDuration)
	defer cancel()

	var totalProduced, totalConsumed atomix.Int64
	var msgIndex atomix.Int64
	var productionDone, producersExited atomix.Bool

	start := time.Now()

	go func() {
		<-ctx.Done()
		productionDone.Store(true)
	}()

	var prodWg sync.WaitGroup
	prodWg.Add(cfg.NumProducers)
	for range cfg.NumProducers {
		go func() {
			defer prodWg.Done()
			backoff := iox.Backoff{}
			for !productionDone.Load() {
				idx := msgIndex.Add(1) - 1
				msg := valueGenerator(int(idx))
				for q.Enqueue(&msg) != nil {
					if productionDone.Load() {
						return
					}
					backoff.Wait()
				}
				backoff.Reset()
				totalProduced.Add(1)
			}
		}()
	}

	var consWg sync.WaitGroup
	consWg.Add(cfg.NumConsumers)
	for range cfg.NumConsumers {
		go func() {
			defer consWg.Done()
			backoff := iox.Backoff{}
			for {
				// Load the exit flag before the dequeue: a producer
				// finishing between a failed dequeue and the flag check
				// could otherwise strand its element.
				exited := producersExited.Load()
				if _, err := q.Dequeue(); err == nil {
					totalConsumed.Add(1)
					backoff.Reset()
					continue
				}
				if exited {
					return
				}
				backoff.Wait()
			}
		}()
	}

	<-ctx.Done()
	prodWg.Wait()
	producersExited.Store(true)
	consWg.Wait()

	elapsed = time.Since(start)
	return totalProduced.Load(), totalConsumed.Load(), elapsed
}
