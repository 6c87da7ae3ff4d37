// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

// Package md5simd computes MD5 digests of short messages such as password
// guesses, either one message at a time or four messages in lockstep across
// fixed-width lanes.
package md5simd

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// BlockSize - MD5 block size in bytes
const BlockSize = 64

// Size - size of an MD5 checksum in bytes
const Size = 16

// MD5 initialization constants
const (
	init0 = 0x67452301
	init1 = 0xefcdab89
	init2 = 0x98badcfe
	init3 = 0x10325476
)

// State holds the four digest words of a finished MD5 computation. The words
// are byte swapped, so printing them in order as %08x yields the canonical
// hex digest.
type State [4]uint32

// Hex - canonical lowercase hex digest
func (s State) Hex() string {
	return fmt.Sprintf("%08x%08x%08x%08x", s[0], s[1], s[2], s[3])
}

func (s State) String() string { return s.Hex() }

// Bytes - digest bytes, identical to crypto/md5.Sum
func (s State) Bytes() (sum [Size]byte) {
	for i, w := range s {
		binary.BigEndian.PutUint32(sum[i*4:], w)
	}
	return
}

// Sum - MD5 digest of msg
func Sum(msg string) State {
	dig := [4]uint32{init0, init1, init2, init3}
	blockGeneric(&dig, Pad(msg))
	return finalize(dig)
}

// SumBytes - MD5 digest of msg
func SumBytes(msg []byte) State {
	dig := [4]uint32{init0, init1, init2, init3}
	blockGeneric(&dig, Pad(msg))
	return finalize(dig)
}

func finalize(dig [4]uint32) State {
	return State{
		bits.ReverseBytes32(dig[0]),
		bits.ReverseBytes32(dig[1]),
		bits.ReverseBytes32(dig[2]),
		bits.ReverseBytes32(dig[3]),
	}
}

// PaddedLen returns the length of an n byte message after MD5 padding: the
// message, a 0x80 marker, zeros, and the 64-bit bit length, rounded up to a
// whole number of blocks.
func PaddedLen(n int) int {
	return (n + 8 + BlockSize) &^ (BlockSize - 1)
}

// Pad returns msg followed by its MD5 padding in a freshly allocated buffer.
func Pad[T string | []byte](msg T) []byte {
	p := make([]byte, PaddedLen(len(msg)))
	padInto(p, msg)
	return p
}

// padInto writes msg and its padding to the front of dst, which must hold at
// least PaddedLen(len(msg)) bytes, and returns the padded length. Bytes of dst
// past the padded length are left untouched.
func padInto[T string | []byte](dst []byte, msg T) int {
	n := copy(dst, msg)
	plen := PaddedLen(n)
	dst[n] = 0x80
	clear(dst[n+1 : plen-8])
	// Length in bits.
	binary.LittleEndian.PutUint64(dst[plen-8:plen], uint64(n)<<3)
	return plen
}
