// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package collective

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// round collects the contributions for one sequence number.
type round struct {
	op      Op
	root    int
	vals    []int64
	seen    []bool
	count   int
	left    int // participants that have not yet picked up the result
	done    chan struct{}
	err     error
	settled bool
	timer   *time.Timer
}

// Rendezvous is the meeting point of a group of size ranks. Rounds are
// numbered; each rank numbers its own calls from 0 so that the n-th call of
// every rank lands in round n.
type Rendezvous struct {
	size    int
	timeout time.Duration

	mu     sync.Mutex
	rounds map[uint64]*round
	closed bool
}

// NewRendezvous creates a rendezvous for size ranks.
func NewRendezvous(size int) *Rendezvous {
	if size < 1 {
		panic("collective: group size must be positive")
	}
	return &Rendezvous{size: size, rounds: make(map[uint64]*round)}
}

// Size of the group
func (r *Rendezvous) Size() int { return r.size }

// SetRoundTimeout bounds how long a round waits for its last contribution
// after the first one arrived. A round that times out fails with ErrAborted
// on every rank. Zero waits forever. Applies to rounds opened afterwards.
func (r *Rendezvous) SetRoundTimeout(d time.Duration) {
	r.mu.Lock()
	r.timeout = d
	r.mu.Unlock()
}

// Contribute adds c to round seq and blocks until every rank has contributed,
// the round fails, or ctx is done.
func (r *Rendezvous) Contribute(ctx context.Context, seq uint64, c Contribution) (int64, error) {
	if c.Rank < 0 || c.Rank >= r.size {
		return 0, errors.Errorf("collective: rank %d outside group of %d", c.Rank, r.size)
	}
	if !validOp(c.Op) {
		return 0, errors.Errorf("collective: unknown op %q", c.Op)
	}
	if (c.Op == OpBroadcast || c.Op == OpReduceSum) && (c.Root < 0 || c.Root >= r.size) {
		return 0, errors.Errorf("collective: root %d outside group of %d", c.Root, r.size)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return 0, ErrClosed
	}
	rd := r.rounds[seq]
	if rd == nil {
		rd = &round{
			op:   c.Op,
			root: c.Root,
			vals: make([]int64, r.size),
			seen: make([]bool, r.size),
			left: r.size,
			done: make(chan struct{}),
		}
		r.rounds[seq] = rd
		if r.timeout > 0 {
			rd.timer = time.AfterFunc(r.timeout, func() { r.expire(seq, rd) })
		}
	}
	switch {
	case rd.settled:
		// already failed; fall through to pick up the error
	case rd.seen[c.Rank]:
		rd.fail(errors.Wrapf(ErrDivergence, "round %d: rank %d contributed twice", seq, c.Rank))
	case rd.op != c.Op || rd.root != c.Root:
		rd.fail(errors.Wrapf(ErrDivergence, "round %d: rank %d issued %s(root %d), expected %s(root %d)",
			seq, c.Rank, c.Op, c.Root, rd.op, rd.root))
	case ctx.Err() != nil:
		rd.fail(errors.Wrapf(ErrAborted, "rank %d left round %d: %v", c.Rank, seq, ctx.Err()))
	default:
		rd.seen[c.Rank] = true
		rd.vals[c.Rank] = c.Value
		rd.count++
		if rd.count == r.size {
			rd.settle(nil)
		}
	}
	r.mu.Unlock()

	select {
	case <-rd.done:
	case <-ctx.Done():
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if !rd.settled {
		// the others cannot complete this round without us
		rd.fail(errors.Wrapf(ErrAborted, "rank %d left round %d: %v", c.Rank, seq, ctx.Err()))
	}
	// failed rounds stay so that late ranks still see the error
	rd.left--
	if rd.left == 0 {
		delete(r.rounds, seq)
	}
	if rd.err == nil {
		return reduce(rd.op, rd.root, c.Rank, rd.vals), nil
	}
	if err := ctx.Err(); err != nil {
		return 0, errors.Wrapf(err, "collective round %d", seq)
	}
	return 0, rd.err
}

// expire fails rd if it is still waiting for contributions.
func (r *Rendezvous) expire(seq uint64, rd *round) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rd.settled {
		return
	}
	var missing []int
	for rank, ok := range rd.seen {
		if !ok {
			missing = append(missing, rank)
		}
	}
	rd.fail(errors.Wrapf(ErrAborted, "round %d: no contribution from ranks %v within %v", seq, missing, r.timeout))
}

// fail settles the round with err. Must be called with the lock held.
func (rd *round) fail(err error) {
	if rd.settled {
		return
	}
	rd.settle(err)
}

func (rd *round) settle(err error) {
	rd.err = err
	rd.settled = true
	if rd.timer != nil {
		rd.timer.Stop()
	}
	close(rd.done)
}

// Close fails every pending round with ErrClosed and rejects new ones.
func (r *Rendezvous) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, rd := range r.rounds {
		rd.fail(ErrClosed)
	}
}

// pending - number of rounds still held, for tests
func (r *Rendezvous) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rounds)
}
