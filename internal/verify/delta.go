// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package verify

// DeltaCounter turns samples of a cumulative counter into a running total of
// new work: each sample contributes only its difference to the previous one,
// so work already counted is never counted again however irregularly the
// samples are taken.
type DeltaCounter struct {
	prev  int64
	total int64
}

// Observe adds sample-previous to the total and returns it. Samples must not
// decrease; a smaller sample contributes nothing.
func (d *DeltaCounter) Observe(sample int64) int64 {
	if sample < d.prev {
		return 0
	}
	delta := sample - d.prev
	d.prev = sample
	d.total += delta
	return delta
}

// Total of all deltas
func (d *DeltaCounter) Total() int64 { return d.total }
