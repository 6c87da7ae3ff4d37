// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5simd

// 4-way 4x uint32 digests, one word of each lane per vector
type digest4 struct {
	v0, v1, v2, v3 vec4
}

// MD5 magic numbers for one lane of hashing, indexed by round*16+step.
var md5consts = [64]uint32{
	0xd76aa478, 0xe8c7b756, 0x242070db, 0xc1bdceee,
	0xf57c0faf, 0x4787c62a, 0xa8304613, 0xfd469501,
	0x698098d8, 0x8b44f7af, 0xffff5bb1, 0x895cd7be,
	0x6b901122, 0xfd987193, 0xa679438e, 0x49b40821,
	0xf61e2562, 0xc040b340, 0x265e5a51, 0xe9b6c7aa,
	0xd62f105d, 0x02441453, 0xd8a1e681, 0xe7d3fbc8,
	0x21e1cde6, 0xc33707d6, 0xf4d50d87, 0x455a14ed,
	0xa9e3e905, 0xfcefa3f8, 0x676f02d9, 0x8d2a4c8a,
	0xfffa3942, 0x8771f681, 0x6d9d6122, 0xfde5380c,
	0xa4beea44, 0x4bdecfa9, 0xf6bb4b60, 0xbebfbc70,
	0x289b7ec6, 0xeaa127fa, 0xd4ef3085, 0x04881d05,
	0xd9d4d039, 0xe6db99e5, 0x1fa27cf8, 0xc4ac5665,
	0xf4292244, 0x432aff97, 0xab9423a7, 0xfc93a039,
	0x655b59c3, 0x8f0ccc92, 0xffeff47d, 0x85845dd1,
	0x6fa87e4f, 0xfe2ce6e0, 0xa3014314, 0x4e0811a1,
	0xf7537e82, 0xbd3af235, 0x2ad7d2bb, 0xeb86d391,
}

// Left rotation per round; steps cycle through the four amounts.
var md5shifts = [4][4]int{
	{7, 12, 17, 22},
	{5, 9, 14, 20},
	{4, 11, 16, 23},
	{6, 10, 15, 21},
}

// Message word consumed by each of the 64 steps.
var md5schedule = func() (sch [64]uint8) {
	for i := 0; i < 16; i++ {
		sch[i] = uint8(i)
		sch[16+i] = uint8((5*i + 1) & 15)
		sch[32+i] = uint8((3*i + 5) & 15)
		sch[48+i] = uint8((7 * i) & 15)
	}
	return
}()

// initial lane state: every lane seeded with the MD5 initialization constants
func newDigest4() (d digest4) {
	d.v0, d.v1, d.v2, d.v3 = splat(init0), splat(init1), splat(init2), splat(init3)
	return
}

// lane extracts the (not yet byte swapped) state of lane i
func (d *digest4) lane(i int) [4]uint32 {
	return [4]uint32{d.v0[i], d.v1[i], d.v2[i], d.v3[i]}
}

// setLane copies lane i of src into d
func (d *digest4) setLane(i int, src *digest4) {
	d.v0[i], d.v1[i], d.v2[i], d.v3[i] = src.v0[i], src.v1[i], src.v2[i], src.v3[i]
}
