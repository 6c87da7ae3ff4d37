// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package collective

import (
	"context"
	"sync/atomic"
)

// localComm is a rank attached directly to a rendezvous in the same process.
type localComm struct {
	rv     *Rendezvous
	rank   int
	seq    uint64
	closed atomic.Bool
}

// NewLocalGroup returns n communicators, ranks 0..n-1, sharing one
// in-process rendezvous. Each communicator must be driven by a single
// goroutine.
func NewLocalGroup(n int) []Communicator {
	rv := NewRendezvous(n)
	comms := make([]Communicator, n)
	for i := range comms {
		comms[i] = Attach(rv, i)
	}
	return comms
}

// Attach returns the communicator for rank on rv.
func Attach(rv *Rendezvous, rank int) Communicator {
	return &localComm{rv: rv, rank: rank}
}

func (c *localComm) Rank() int { return c.rank }
func (c *localComm) Size() int { return c.rv.Size() }

func (c *localComm) do(ctx context.Context, op Op, root int, v int64) (int64, error) {
	if c.closed.Load() {
		return 0, ErrClosed
	}
	seq := c.seq
	c.seq++
	return c.rv.Contribute(ctx, seq, Contribution{Rank: c.rank, Op: op, Root: root, Value: v})
}

func (c *localComm) AllReduceMax(ctx context.Context, v int64) (int64, error) {
	return c.do(ctx, OpMax, 0, v)
}

func (c *localComm) AllReduceSum(ctx context.Context, v int64) (int64, error) {
	return c.do(ctx, OpSum, 0, v)
}

func (c *localComm) Broadcast(ctx context.Context, root int, v int64) (int64, error) {
	return c.do(ctx, OpBroadcast, root, v)
}

func (c *localComm) ReduceSum(ctx context.Context, root int, v int64) (int64, error) {
	return c.do(ctx, OpReduceSum, root, v)
}

// Close detaches the rank. The rendezvous stays usable by the others.
func (c *localComm) Close() error {
	c.closed.Store(true)
	return nil
}
