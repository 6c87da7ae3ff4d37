// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package verify

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// Report summarizes a run. On rank 0 the counts cover every rank; on the
// other ranks they are local.
type Report struct {
	Rank, Size int

	Generated int64
	Hashed    int64
	Cracked   int64

	TrainTime time.Duration
	WallTime  time.Duration // generation and hashing
	HashTime  time.Duration // worker busy hashing
}

// GuessTime is the part of the wall time not spent hashing.
func (r Report) GuessTime() time.Duration {
	if r.HashTime > r.WallTime {
		return 0
	}
	return r.WallTime - r.HashTime
}

// CrackRate - cracked per hashed guess
func (r Report) CrackRate() float64 {
	if r.Hashed == 0 {
		return 0
	}
	return float64(r.Cracked) / float64(r.Hashed)
}

// Write prints the report for humans.
func (r Report) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, `Ranks:      %d
Generated:  %s
Hashed:     %s
Cracked:    %s (%.4f%%)
Guess time: %.3f seconds
Hash time:  %.3f seconds
Train time: %.3f seconds
`,
		r.Size,
		humanize.Comma(r.Generated),
		humanize.Comma(r.Hashed),
		humanize.Comma(r.Cracked), 100*r.CrackRate(),
		r.GuessTime().Seconds(),
		r.HashTime.Seconds(),
		r.TrainTime.Seconds(),
	)
	return err
}
