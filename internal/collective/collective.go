// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

// Package collective provides the blocking reductions the ranks of a
// verification run use to agree on progress and termination.
//
// Every rank must issue the same sequence of operations with the same roots.
// A round whose participants disagree fails with ErrDivergence on every rank.
package collective

import (
	"context"

	"github.com/pkg/errors"
)

// Op identifies a collective operation.
type Op string

// Supported operations
const (
	OpMax       Op = "allreduce-max"
	OpSum       Op = "allreduce-sum"
	OpBroadcast Op = "broadcast"
	OpReduceSum Op = "reduce-sum"
)

var (
	// ErrDivergence - ranks issued different operations (or roots) for the same round
	ErrDivergence = errors.New("collective: ranks diverged")

	// ErrClosed - the communicator or its rendezvous is closed
	ErrClosed = errors.New("collective: closed")

	// ErrAborted - a rank left a round or did not show up in time
	ErrAborted = errors.New("collective: round aborted")
)

// Communicator is one rank's handle on a group.
type Communicator interface {
	Rank() int
	Size() int

	// AllReduceMax returns the maximum of v over all ranks.
	AllReduceMax(ctx context.Context, v int64) (int64, error)
	// AllReduceSum returns the sum of v over all ranks.
	AllReduceSum(ctx context.Context, v int64) (int64, error)
	// Broadcast returns root's v on every rank.
	Broadcast(ctx context.Context, root int, v int64) (int64, error)
	// ReduceSum returns the sum of v on root and 0 elsewhere.
	ReduceSum(ctx context.Context, root int, v int64) (int64, error)

	Close() error
}

// Contribution is one rank's input to a round.
type Contribution struct {
	Rank  int   `json:"rank"`
	Op    Op    `json:"op"`
	Root  int   `json:"root"`
	Value int64 `json:"value"`
}

// reduce computes the value rank receives once all contributions of a
// round are in. vals is indexed by rank.
func reduce(op Op, root, rank int, vals []int64) int64 {
	switch op {
	case OpMax:
		m := vals[0]
		for _, v := range vals[1:] {
			if v > m {
				m = v
			}
		}
		return m
	case OpSum:
		return sum(vals)
	case OpBroadcast:
		return vals[root]
	case OpReduceSum:
		if rank == root {
			return sum(vals)
		}
		return 0
	}
	panic("collective: unknown op " + string(op))
}

func sum(vals []int64) (s int64) {
	for _, v := range vals {
		s += v
	}
	return
}

func validOp(op Op) bool {
	switch op {
	case OpMax, OpSum, OpBroadcast, OpReduceSum:
		return true
	}
	return false
}
