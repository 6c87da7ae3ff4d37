// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5simd

import (
	"fmt"

	"github.com/klauspost/cpuid"
)

// Lanes8 - width of a double lane batch
const Lanes8 = 2 * Lanes4

var hasAVX2 bool

func init() {
	hasAVX2 = cpuid.CPU.AVX2()
}

// Engine hashes messages in batches of four lanes. All lanes of a batch are
// laid out in one scratch buffer with a shared stride, so the lane kernel
// always sees the same number of blocks per lane; lanes with shorter messages
// are masked out once their own blocks are done.
//
// An Engine is not safe for concurrent use. Close releases its scratch
// buffer.
type Engine struct {
	buf   Buffer
	lanes int
}

// NewEngine - create an engine with an empty scratch buffer
func NewEngine() *Engine {
	e := &Engine{lanes: Lanes4}
	if hasAVX2 {
		e.lanes = Lanes8
	}
	return e
}

// Lanes returns the number of messages SumBatch dispatches per step: 8 (two
// batches of four) when the CPU has 256-bit vector units, 4 otherwise.
func (e *Engine) Lanes() int {
	return e.lanes
}

// Kernel names the lane kernel selected at build time.
func (e *Engine) Kernel() string {
	if hasLaneKernel {
		return "vector"
	}
	return "scalar"
}

// BufferCap - bytes of scratch memory currently held
func (e *Engine) BufferCap() int { return e.buf.Cap() }

// Sum4 returns the digest of each of the four messages. Result i equals
// Sum(msgs[i]).
func (e *Engine) Sum4(msgs [Lanes4]string) (out [Lanes4]State) {
	maxLen := 0
	for _, m := range msgs {
		if len(m) > maxLen {
			maxLen = len(m)
		}
	}

	// every lane gets a stride of the longest padded message
	stride := PaddedLen(maxLen)
	base := e.buf.Reserve(Lanes4 * stride)

	var input [Lanes4][]byte
	for i, m := range msgs {
		lane := base[i*stride : (i+1)*stride]
		input[i] = lane[:padInto(lane, m)]
	}

	// Sanity check: a lane must never run past its stride
	for i := range input {
		if len(input[i]) > stride {
			panic(fmt.Sprintf("Sanity check fails for lane %d: padded length %d exceeds stride %d", i, len(input[i]), stride))
		}
	}

	s := newDigest4()
	sdup := s // receives intermediate updates for all lanes
	offs := [Lanes4]int{0, stride, 2 * stride, 3 * stride}

	for _, m := range generateMaskAndRounds4(input) {
		n := int(BlockSize * m.rounds)
		block4(&sdup, base, offs, n)

		for j := range offs {
			offs[j] += n            // update offsets for next segment
			if m.mask&(1<<j) != 0 { // update digest if still masked as active
				s.setLane(j, &sdup)
			}
		}
	}

	for i := range out {
		out[i] = finalize(s.lane(i))
	}
	return
}

// Sum8 hashes eight messages as two independent batches of four.
func (e *Engine) Sum8(msgs [Lanes8]string) (out [Lanes8]State) {
	var lo, hi [Lanes4]string
	copy(lo[:], msgs[:Lanes4])
	copy(hi[:], msgs[Lanes4:])

	slo := e.Sum4(lo)
	shi := e.Sum4(hi)
	copy(out[:Lanes4], slo[:])
	copy(out[Lanes4:], shi[:])
	return
}

// SumBatch hashes any number of messages, Lanes() at a time. An incomplete
// final batch is filled with empty lanes whose digests are dropped.
func (e *Engine) SumBatch(msgs []string) []State {
	out := make([]State, 0, len(msgs))
	for len(msgs) > 0 {
		var n int
		if e.lanes == Lanes8 {
			var batch [Lanes8]string
			n = copy(batch[:], msgs)
			sums := e.Sum8(batch)
			out = append(out, sums[:n]...)
		} else {
			var batch [Lanes4]string
			n = copy(batch[:], msgs)
			sums := e.Sum4(batch)
			out = append(out, sums[:n]...)
		}
		msgs = msgs[n:]
	}
	return out
}

// Close releases the scratch buffer.
func (e *Engine) Close() {
	e.buf.Release()
}
