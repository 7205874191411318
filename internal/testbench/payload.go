// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package testbench

import (
	"encoding/binary"

	"github.com/valyala/fastrand"
)

// Values returns a generator of uint64 payloads: the sequence index in the
// high half and random bits in the low half, so slots carry distinct
// non-constant data without allocating.
func Values() func(int) uint64 {
	return func(i int) uint64 {
		return uint64(i)<<32 | uint64(fastrand.Uint32())
	}
}

// Blobs returns a generator of byte-slice payloads whose sizes jitter in
// [minSize, maxSize]. The first 8 bytes hold the sequence index so a blob
// stays identifiable; the rest is random. minSize must be at least 8 and
// at most maxSize.
func Blobs(minSize, maxSize int) func(int) []byte {
	if minSize < 8 || maxSize < minSize {
		panic("testbench: Blobs requires 8 <= minSize <= maxSize")
	}
	span := uint32(maxSize - minSize + 1)
	return func(i int) []byte {
		n := minSize + int(fastrand.Uint32n(span))
		b := make([]byte, n)
		binary.LittleEndian.PutUint64(b, uint64(i))
		for off := 8; off < n; off += 4 {
			r := fastrand.Uint32()
			for k := 0; k < 4 && off+k < n; k++ {
				b[off+k] = byte(r >> (8 * k))
			}
		}
		return b
	}
}
