// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/pcfg-lab/md5-simd/internal/collective"
	"github.com/pcfg-lab/md5-simd/internal/config"
	"github.com/pcfg-lab/md5-simd/internal/crackstore"
	"github.com/pcfg-lab/md5-simd/internal/model"
	"github.com/pcfg-lab/md5-simd/internal/verify"
)

// runRank trains the model, loads the known set and runs the verification
// loop of comm's rank. A missing corpus is reported and the rank carries on
// with nothing to generate or nothing to match.
func runRank(ctx context.Context, opts config.Options, comm collective.Communicator, rec verify.Recorder, metrics *verify.Metrics, log *logrus.Entry) (verify.Report, error) {
	start := time.Now()
	m := model.NewWordlist(comm.Rank(), comm.Size())
	if err := m.Train(opts.Corpus); err != nil {
		log.Warnf("Training corpus unavailable, this rank generates nothing: %v", err)
	}
	m.Order()
	trainTime := time.Since(start)

	known, err := verify.LoadKnownSet(opts.Known(), opts.KnownLimit)
	if err != nil {
		log.Warnf("Known-password corpus unavailable, nothing can be cracked: %v", err)
	} else {
		log.Debugf("Loaded %s known passwords", humanize.Comma(int64(len(known))))
	}

	m.Init()
	if comm.Rank() == 0 {
		log.Infof("Starting verification on %d ranks", comm.Size())
	}

	p := verify.NewPipeline(known)
	w := verify.NewWorker(p, verify.WorkerOptions{
		Poll:     opts.PollInterval,
		Lanes:    opts.LaneHashing,
		Recorder: rec,
		Metrics:  metrics,
		Log:      log,
	})
	c := verify.NewCoordinator(comm, m, p, w, verify.Options{
		Threshold:     opts.Threshold,
		BatchPerRank:  opts.BatchPerRank,
		ClearEvery:    opts.ClearEvery,
		ProgressEvery: opts.ProgressEvery,
		TrainTime:     trainTime,
	}, metrics)
	return c.Run(ctx)
}

// openStore opens the crack store at path, or returns a nil recorder when
// path is empty.
func openStore(path string) (verify.Recorder, func() error, error) {
	if path == "" {
		return nil, func() error { return nil }, nil
	}
	s, err := crackstore.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return s, s.Close, nil
}

// crackDBPath gives every rank of a multi-rank run its own database file.
func crackDBPath(path string, rank, size int) string {
	if path == "" || size <= 1 {
		return path
	}
	return fmt.Sprintf("%s.%d", path, rank)
}

// serveMetrics serves h under /metrics on addr until the returned server
// is shut down.
func serveMetrics(addr string, h http.Handler) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "metrics listen on %s", addr)
	}
	r := chi.NewRouter()
	r.Get("/metrics", h.ServeHTTP)
	srv := &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logrus.Errorf("metrics server: %v", err)
		}
	}()
	logrus.Infof("Serving metrics on http://%s/metrics", ln.Addr())
	return srv, nil
}

func shutdown(srv *http.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Debugf("shutdown: %v", err)
	}
}
