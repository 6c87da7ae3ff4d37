//go:build !noasm

// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5simd

import "encoding/binary"

const hasLaneKernel = true

// block4 runs n bytes (a whole number of blocks) of all four lanes through
// the lane kernel. Lane l reads base starting at offs[l].
func block4(s *digest4, base []byte, offs [Lanes4]int, n int) {
	var x [16]vec4
	a0, b0, c0, d0 := s.v0, s.v1, s.v2, s.v3

	for done := 0; done < n; done += BlockSize {
		// gather word j of the current block from every lane
		for j := range x {
			for l, off := range offs {
				x[j][l] = binary.LittleEndian.Uint32(base[off+done+4*j:])
			}
		}

		a, b, c, d := a0, b0, c0, d0
		for r := range vecRoundFuncs {
			a, b, c, d = roundVec(a, b, c, d, &x, r)
		}

		a0, b0, c0, d0 = a0.add(a), b0.add(b), c0.add(c), d0.add(d)
	}

	s.v0, s.v1, s.v2, s.v3 = a0, b0, c0, d0
}
