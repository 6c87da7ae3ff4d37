//go:build noasm

// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5simd

const hasLaneKernel = false

// block4 - portable fallback: hash each lane on its own with the scalar
// compression function.
func block4(s *digest4, base []byte, offs [Lanes4]int, n int) {
	for l, off := range offs {
		dig := s.lane(l)
		blockGeneric(&dig, base[off:off+n])
		s.v0[l], s.v1[l], s.v2[l], s.v3[l] = dig[0], dig[1], dig[2], dig[3]
	}
}
