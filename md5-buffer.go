// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5simd

// Buffer is scratch memory for lane batches. It is reused across batches,
// reallocated only when a batch needs more than its capacity, never shrunk,
// and released once by Release.
//
// A Buffer must not be shared between goroutines.
type Buffer struct {
	buf    []byte
	allocs int
}

// Reserve returns n bytes of scratch memory. The contents are whatever the
// previous batch left behind.
func (b *Buffer) Reserve(n int) []byte {
	if cap(b.buf) < n {
		b.buf = make([]byte, n)
		b.allocs++
	}
	return b.buf[:n]
}

// Cap - bytes currently held
func (b *Buffer) Cap() int { return cap(b.buf) }

// Allocs - number of times the buffer had to be (re)allocated
func (b *Buffer) Allocs() int { return b.allocs }

// Release drops the memory. The buffer may be reused afterwards and will
// allocate again on the next Reserve.
func (b *Buffer) Release() {
	b.buf = nil
}
