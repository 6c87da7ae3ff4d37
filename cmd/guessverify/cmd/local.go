// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/remeh/sizedwaitgroup"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pcfg-lab/md5-simd/internal/collective"
	"github.com/pcfg-lab/md5-simd/internal/config"
	"github.com/pcfg-lab/md5-simd/internal/verify"
)

func newCmdLocal() *cobra.Command {
	opts := config.Defaults()
	var ranks int

	cmd := &cobra.Command{
		Use:   "local",
		Short: "Run all ranks of a verification inside this process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Resolve(cmd.Flags(), &opts); err != nil {
				return err
			}
			if ranks < 1 {
				return errors.Errorf("--ranks %d must be at least 1", ranks)
			}
			opts.Rank, opts.Size = 0, ranks
			if err := opts.Validate(); err != nil {
				return errors.Wrap(err, "invalid options")
			}
			if opts.Run == "" {
				opts.Run = uuid.NewString()
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			// one store shared by all ranks
			rec, closeStore, err := openStore(opts.CrackedDB)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					logrus.Warnf("closing crack store: %v", err)
				}
			}()

			comms := collective.NewLocalGroup(ranks)
			metrics := make([]*verify.Metrics, ranks)
			for i := range metrics {
				metrics[i] = verify.NewMetrics(i)
			}
			if opts.MetricsAddr != "" {
				srv, err := serveMetrics(opts.MetricsAddr, verify.MetricsHandler(metrics...))
				if err != nil {
					return err
				}
				defer shutdown(srv)
			}

			reports := make([]verify.Report, ranks)
			errs := make([]error, ranks)
			swg := sizedwaitgroup.New(ranks)
			for i := range comms {
				swg.Add()
				go func(i int) {
					defer swg.Done()
					log := logrus.WithFields(logrus.Fields{"rank": i, "run": opts.Run})
					reports[i], errs[i] = runRank(ctx, opts, comms[i], rec, metrics[i], log)
				}(i)
			}
			swg.Wait()

			for i, err := range errs {
				if err != nil {
					return errors.Wrapf(err, "rank %d", i)
				}
			}
			return reports[0].Write(cmd.OutOrStdout())
		},
	}
	cmd.Flags().IntVarP(&ranks, "ranks", "n", 4, "Number of ranks to run")
	config.AddFlags(cmd.Flags(), &opts)
	return cmd
}
