// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5simd

import "math/bits"

// Lanes4 - number of messages hashed in lockstep by one lane batch
const Lanes4 = 4

// vec4 - one 32-bit word for each of 4 lanes
type vec4 [Lanes4]uint32

func splat(v uint32) vec4 { return vec4{v, v, v, v} }

func (a vec4) add(b vec4) vec4 { return vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]} }
func (a vec4) and(b vec4) vec4 { return vec4{a[0] & b[0], a[1] & b[1], a[2] & b[2], a[3] & b[3]} }
func (a vec4) or(b vec4) vec4  { return vec4{a[0] | b[0], a[1] | b[1], a[2] | b[2], a[3] | b[3]} }
func (a vec4) xor(b vec4) vec4 { return vec4{a[0] ^ b[0], a[1] ^ b[1], a[2] ^ b[2], a[3] ^ b[3]} }
func (a vec4) not() vec4       { return vec4{^a[0], ^a[1], ^a[2], ^a[3]} }

func (a vec4) rotl(s int) vec4 {
	return vec4{
		bits.RotateLeft32(a[0], s),
		bits.RotateLeft32(a[1], s),
		bits.RotateLeft32(a[2], s),
		bits.RotateLeft32(a[3], s),
	}
}

// Lane-wise versions of the round functions.
func vecF(x, y, z vec4) vec4 { return x.and(y).or(x.not().and(z)) }
func vecG(x, y, z vec4) vec4 { return x.and(z).or(y.and(z.not())) }
func vecH(x, y, z vec4) vec4 { return x.xor(y).xor(z) }
func vecI(x, y, z vec4) vec4 { return y.xor(x.or(z.not())) }

var vecRoundFuncs = [4]func(x, y, z vec4) vec4{vecF, vecG, vecH, vecI}

// roundVec is round() re-expressed on lane vectors.
func roundVec(a, b, c, d vec4, x *[16]vec4, r int) (vec4, vec4, vec4, vec4) {
	f := vecRoundFuncs[r]
	for i := 0; i < 16; i++ {
		k := r*16 + i
		a = b.add(a.add(f(b, c, d)).add(x[md5schedule[k]]).add(splat(md5consts[k])).rotl(md5shifts[r][i&3]))
		a, b, c, d = d, a, b, c
	}
	return a, b, c, d
}
