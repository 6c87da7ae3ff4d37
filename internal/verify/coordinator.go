// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package verify

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/pcfg-lab/md5-simd/internal/collective"
	"github.com/pcfg-lab/md5-simd/internal/model"
)

const root = 0

// Options of the coordinator loop.
type Options struct {
	// Threshold on the global hashed count that ends the run
	Threshold int64
	// BatchPerRank units of model work per rank and iteration
	BatchPerRank int
	// ClearEvery generated guesses the model's output is dropped
	ClearEvery int64
	// ProgressEvery hashed guesses rank 0 logs progress
	ProgressEvery int64
	// TrainTime is carried into the report
	TrainTime time.Duration
}

// DefaultOptions - values of a plain run
func DefaultOptions() Options {
	return Options{
		Threshold:     10000000,
		BatchPerRank:  1,
		ClearEvery:    1000000,
		ProgressEvery: 500000,
	}
}

// Coordinator drives one rank: it pulls guesses from the model into the
// pipeline and agrees with the other ranks on when to stop.
type Coordinator struct {
	comm    collective.Communicator
	model   model.Model
	pipe    *Pipeline
	worker  *Worker
	opt     Options
	metrics *Metrics
	log     *logrus.Entry

	consumed   int   // model guesses already queued
	sinceClear int64 // local guesses since the model output was last dropped
	history    int64 // local guesses dropped so far
	generated  int64 // global guesses generated
	hashed     DeltaCounter
	nextReport int64
}

// NewCoordinator wires the pieces of one rank. The model must already be
// trained, ordered and initialized; the worker must not be started.
func NewCoordinator(comm collective.Communicator, m model.Model, p *Pipeline, w *Worker, opt Options, metrics *Metrics) *Coordinator {
	if opt.BatchPerRank < 1 {
		opt.BatchPerRank = 1
	}
	if opt.ProgressEvery < 1 {
		opt.ProgressEvery = DefaultOptions().ProgressEvery
	}
	if metrics == nil {
		metrics = NewMetrics(comm.Rank())
	}
	return &Coordinator{
		comm:       comm,
		model:      m,
		pipe:       p,
		worker:     w,
		opt:        opt,
		metrics:    metrics,
		log:        logrus.WithField("rank", comm.Rank()),
		nextReport: opt.ProgressEvery,
	}
}

// Run executes the loop until the model is exhausted on every rank or the
// threshold is reached, then stops the worker and gathers the final counts.
// Every rank leaves through the same sequence of collectives. Any collective
// error ends the run.
func (c *Coordinator) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	c.worker.Start()

	err := c.loop(ctx)

	c.worker.Stop()
	c.worker.Wait()
	wall := time.Since(start)
	c.metrics.Pending.Set(float64(c.pipe.Queue.Len()))
	if err != nil {
		return Report{}, err
	}

	hashed, err := c.comm.AllReduceSum(ctx, c.pipe.Hashed())
	if err != nil {
		return Report{}, errors.Wrap(err, "final hashed reduction")
	}
	c.hashed.Observe(hashed)
	c.metrics.GlobalHash.Set(float64(c.hashed.Total()))

	cracked, err := c.comm.ReduceSum(ctx, root, c.pipe.Cracked())
	if err != nil {
		return Report{}, errors.Wrap(err, "final cracked reduction")
	}

	r := Report{
		Rank:      c.comm.Rank(),
		Size:      c.comm.Size(),
		TrainTime: c.opt.TrainTime,
		WallTime:  wall,
		HashTime:  c.pipe.HashTime(),
	}
	if c.comm.Rank() == root {
		r.Generated, r.Hashed, r.Cracked = c.generated, c.hashed.Total(), cracked
	} else {
		r.Generated, r.Hashed, r.Cracked = c.history+c.sinceClear, c.pipe.Hashed(), c.pipe.Cracked()
	}
	return r, nil
}

func (c *Coordinator) loop(ctx context.Context) error {
	batch := c.opt.BatchPerRank * c.comm.Size()
	for {
		var hasWork int64
		if !c.model.Empty() {
			hasWork = 1
		}
		anyWork, err := c.comm.AllReduceMax(ctx, hasWork)
		if err != nil {
			return errors.Wrap(err, "work reduction")
		}
		if anyWork == 0 {
			c.log.Debug("model exhausted on every rank")
			return nil
		}

		if !c.model.Empty() {
			c.model.PopNextBatch(batch)
		}
		fresh := c.handOff()

		generated, err := c.comm.AllReduceSum(ctx, fresh)
		if err != nil {
			return errors.Wrap(err, "generated reduction")
		}
		c.generated += generated

		hashed, err := c.comm.AllReduceSum(ctx, c.pipe.Hashed())
		if err != nil {
			return errors.Wrap(err, "hashed reduction")
		}
		c.hashed.Observe(hashed)
		c.metrics.GlobalHash.Set(float64(c.hashed.Total()))

		var exit int64
		if c.comm.Rank() == root {
			c.progress()
			if c.hashed.Total() >= c.opt.Threshold {
				exit = 1
			}
		}
		exit, err = c.comm.Broadcast(ctx, root, exit)
		if err != nil {
			return errors.Wrap(err, "exit broadcast")
		}
		c.metrics.Iterations.Inc()
		if exit != 0 {
			c.log.Debugf("threshold of %s hashed guesses reached", humanize.Comma(c.opt.Threshold))
			return nil
		}

		if c.opt.ClearEvery > 0 && c.sinceClear > c.opt.ClearEvery {
			c.model.ClearGuesses()
			c.consumed = 0
			c.history += c.sinceClear
			c.sinceClear = 0
		}
	}
}

// handOff queues the model guesses produced since the last call and returns
// how many there were.
func (c *Coordinator) handOff() int64 {
	guesses := c.model.Guesses()
	if c.consumed > len(guesses) {
		// the model dropped its output on its own
		c.consumed = 0
	}
	fresh := guesses[c.consumed:]
	c.consumed = len(guesses)
	c.pipe.Queue.Append(fresh)

	n := int64(len(fresh))
	c.sinceClear += n
	c.metrics.Generated.Add(float64(n))
	c.metrics.Pending.Set(float64(c.pipe.Queue.Len()))
	return n
}

func (c *Coordinator) progress() {
	total := c.hashed.Total()
	if total < c.nextReport {
		return
	}
	c.log.Infof("Guesses generated: %s, hashed: %s", humanize.Comma(c.generated), humanize.Comma(total))
	for c.nextReport <= total {
		c.nextReport += c.opt.ProgressEvery
	}
}
