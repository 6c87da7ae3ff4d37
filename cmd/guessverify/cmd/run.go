// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pcfg-lab/md5-simd/internal/collective"
	"github.com/pcfg-lab/md5-simd/internal/config"
	"github.com/pcfg-lab/md5-simd/internal/verify"
)

func newCmdRun() *cobra.Command {
	opts := config.Defaults()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one rank of a verification spread over several processes",
		Long: `Run one rank. Rank and size come from --rank/--size, else from
GUESSVERIFY_RANK/GUESSVERIFY_SIZE, else from the MPI launcher environment
(OMPI_COMM_WORLD_RANK/SIZE or PMI_RANK/PMI_SIZE), else a single rank is run.
Rank 0 serves the collective hub on --hub; the other ranks connect to it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Resolve(cmd.Flags(), &opts); err != nil {
				return err
			}
			if err := discoverRank(&opts); err != nil {
				return err
			}
			if err := opts.Validate(); err != nil {
				return errors.Wrap(err, "invalid options")
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			comm, closeComm, err := connect(ctx, &opts)
			if err != nil {
				return err
			}
			defer closeComm()
			log := logrus.WithFields(logrus.Fields{"rank": opts.Rank, "run": opts.Run})

			rec, closeStore, err := openStore(crackDBPath(opts.CrackedDB, opts.Rank, opts.Size))
			if err != nil {
				return err
			}
			defer func() {
				if err := closeStore(); err != nil {
					log.Warnf("closing crack store: %v", err)
				}
			}()

			metrics := verify.NewMetrics(opts.Rank)
			if opts.MetricsAddr != "" {
				srv, err := serveMetrics(opts.MetricsAddr, metrics.Handler())
				if err != nil {
					return err
				}
				defer shutdown(srv)
			}

			report, err := runRank(ctx, opts, comm, rec, metrics, log)
			if err != nil {
				return errors.Wrap(err, "verification aborted")
			}
			if opts.Rank != 0 {
				log.Debugf("rank done: hashed %d, cracked %d", report.Hashed, report.Cracked)
				return nil
			}
			return report.Write(cmd.OutOrStdout())
		},
	}
	config.AddFlags(cmd.Flags(), &opts)
	return cmd
}

// discoverRank fills in rank and size from the environment unless both were
// given explicitly.
func discoverRank(opts *config.Options) error {
	if opts.Rank >= 0 && opts.Size > 0 {
		return nil
	}
	if opts.Rank >= 0 || opts.Size > 0 {
		return errors.New("--rank and --size must be given together")
	}
	rank, size, ok, err := collective.RankFromEnv()
	if err != nil {
		return err
	}
	if !ok {
		logrus.Debug("no launcher environment, running a single rank")
	}
	opts.Rank, opts.Size = rank, size
	return nil
}

// connect joins the group described by opts. A single rank needs no
// transport; rank 0 hosts the hub and the others dial it.
func connect(ctx context.Context, opts *config.Options) (collective.Communicator, func(), error) {
	if opts.Size == 1 {
		if opts.Run == "" {
			opts.Run = uuid.NewString()
		}
		return collective.NewLocalGroup(1)[0], func() {}, nil
	}

	if opts.Rank == 0 {
		if opts.Run == "" {
			opts.Run = uuid.NewString()
		}
		hub := collective.NewHub(opts.Run, opts.Size)
		hub.SetRoundTimeout(opts.RoundTimeout)
		if err := hub.Listen(opts.HubAddr); err != nil {
			return nil, nil, err
		}
		logrus.Infof("Collective hub for run %s on %s", opts.Run, hub.Addr())
		closeHub := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := hub.Close(ctx); err != nil {
				logrus.Debugf("closing hub: %v", err)
			}
		}
		return hub.Comm(), closeHub, nil
	}

	comm, err := collective.Dial(ctx, opts.HubAddr, opts.Run, opts.Rank, collective.DialOptions{JoinTimeout: opts.JoinTimeout})
	if err != nil {
		return nil, nil, err
	}
	if comm.Size() != opts.Size {
		_ = comm.Close()
		return nil, nil, errors.Errorf("hub runs %d ranks, this rank was launched for %d", comm.Size(), opts.Size)
	}
	return comm, func() { _ = comm.Close() }, nil
}
