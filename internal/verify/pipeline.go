// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

// Package verify runs the guess verification loop of one rank: a worker
// goroutine hashes queued guesses while the coordinator generates more and
// agrees with the other ranks on progress and termination.
package verify

import (
	"sync/atomic"
	"time"
)

// Pipeline is the state shared by the coordinator and the hash worker.
type Pipeline struct {
	Queue *Queue
	Known KnownSet

	hashed   atomic.Int64
	cracked  atomic.Int64
	exit     atomic.Bool
	hashBusy atomic.Int64 // nanoseconds
}

// NewPipeline wires a fresh queue to known.
func NewPipeline(known KnownSet) *Pipeline {
	if known == nil {
		known = KnownSet{}
	}
	return &Pipeline{Queue: NewQueue(), Known: known}
}

// Hashed - guesses hashed so far by this rank
func (p *Pipeline) Hashed() int64 { return p.hashed.Load() }

// Cracked - guesses found in the known set so far by this rank
func (p *Pipeline) Cracked() int64 { return p.cracked.Load() }

// HashTime - time the worker spent hashing
func (p *Pipeline) HashTime() time.Duration { return time.Duration(p.hashBusy.Load()) }

// requestExit sets the exit flag. It is never cleared.
func (p *Pipeline) requestExit() {
	p.exit.Store(true)
	p.Queue.wake()
}

func (p *Pipeline) exitRequested() bool { return p.exit.Load() }
