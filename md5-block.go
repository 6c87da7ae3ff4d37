// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5simd

import (
	"encoding/binary"
	"math/bits"
)

// The four nonlinear functions, one per round.
func fnF(x, y, z uint32) uint32 { return (x & y) | (^x & z) }
func fnG(x, y, z uint32) uint32 { return (x & z) | (y & ^z) }
func fnH(x, y, z uint32) uint32 { return x ^ y ^ z }
func fnI(x, y, z uint32) uint32 { return y ^ (x | ^z) }

var roundFuncs = [4]func(x, y, z uint32) uint32{fnF, fnG, fnH, fnI}

// round applies the 16 steps of round r to state s for message words x and
// returns the new state. The step order a,b,c,d -> d,a,b,c is restored after
// every fourth step, so the result is aligned again.
func round(s [4]uint32, x *[16]uint32, r int) [4]uint32 {
	f := roundFuncs[r]
	a, b, c, d := s[0], s[1], s[2], s[3]
	for i := 0; i < 16; i++ {
		k := r*16 + i
		a = b + bits.RotateLeft32(a+f(b, c, d)+x[md5schedule[k]]+md5consts[k], md5shifts[r][i&3])
		a, b, c, d = d, a, b, c
	}
	return [4]uint32{a, b, c, d}
}

// blockGeneric folds every whole block of p into dig.
func blockGeneric(dig *[4]uint32, p []byte) {
	var x [16]uint32
	for len(p) >= BlockSize {
		for i := range x {
			x[i] = binary.LittleEndian.Uint32(p[4*i:])
		}

		s := *dig
		for r := range roundFuncs {
			s = round(s, &x, r)
		}

		dig[0] += s[0]
		dig[1] += s[1]
		dig[2] += s[2]
		dig[3] += s[3]

		p = p[BlockSize:]
	}
}
