// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package verify

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	md5simd "github.com/pcfg-lab/md5-simd"
)

// Recorder receives every cracked guess with its digest.
type Recorder interface {
	Record(guess string, sum md5simd.State) error
}

// WorkerOptions configure a Worker.
type WorkerOptions struct {
	// Poll bounds how long an idle worker sleeps between queue checks
	Poll time.Duration
	// Lanes hashes drained guesses in lane batches
	Lanes    bool
	Recorder Recorder
	Metrics  *Metrics
	Log      *logrus.Entry
}

// Worker drains the pipeline queue on its own goroutine, hashes every guess,
// checks it against the known set and counts the results.
type Worker struct {
	p   *Pipeline
	opt WorkerOptions

	engine *md5simd.Engine

	startOnce sync.Once
	started   bool
	done      chan struct{}
}

// NewWorker returns a worker for p. It does nothing until Start.
func NewWorker(p *Pipeline, opt WorkerOptions) *Worker {
	if opt.Poll <= 0 {
		opt.Poll = time.Millisecond
	}
	if opt.Log == nil {
		opt.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	w := &Worker{p: p, opt: opt, done: make(chan struct{})}
	if opt.Lanes {
		w.engine = md5simd.NewEngine()
	}
	return w
}

// Start launches the worker goroutine. Later calls do nothing.
func (w *Worker) Start() {
	w.startOnce.Do(func() {
		w.started = true
		go w.run()
	})
}

// Stop asks the worker to finish. Everything appended before Stop is still
// hashed.
func (w *Worker) Stop() {
	w.p.requestExit()
}

// Wait blocks until the worker has exited.
func (w *Worker) Wait() {
	if !w.started {
		return
	}
	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)
	if w.engine != nil {
		defer w.engine.Close()
		w.opt.Log.Debugf("hash worker: %d lanes, %s kernel", w.engine.Lanes(), w.engine.Kernel())
	}

	idle := time.NewTimer(w.opt.Poll)
	defer idle.Stop()

	for {
		if w.p.exitRequested() {
			// pick up what was appended before the flag was set
			w.hash(w.p.Queue.Drain())
			return
		}
		if batch := w.p.Queue.Drain(); len(batch) > 0 {
			w.hash(batch)
			continue
		}
		idle.Reset(w.opt.Poll)
		select {
		case <-w.p.Queue.Signal():
		case <-idle.C:
		}
	}
}

func (w *Worker) hash(batch []string) {
	if len(batch) == 0 {
		return
	}
	start := time.Now()

	var cracked int64
	if w.engine != nil {
		for i, sum := range w.engine.SumBatch(batch) {
			cracked += w.check(batch[i], sum)
		}
	} else {
		for _, pw := range batch {
			cracked += w.check(pw, md5simd.Sum(pw))
		}
	}

	w.p.hashBusy.Add(int64(time.Since(start)))
	w.p.hashed.Add(int64(len(batch)))
	w.p.cracked.Add(cracked)
	if m := w.opt.Metrics; m != nil {
		m.Hashed.Add(float64(len(batch)))
		m.Cracked.Add(float64(cracked))
	}
}

func (w *Worker) check(pw string, sum md5simd.State) int64 {
	if !w.p.Known.Has(pw) {
		return 0
	}
	if w.opt.Recorder != nil {
		if err := w.opt.Recorder.Record(pw, sum); err != nil {
			w.opt.Log.Warnf("failed to record cracked guess: %v", err)
		}
	}
	return 1
}
