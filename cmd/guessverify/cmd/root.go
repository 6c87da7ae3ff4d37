// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

// Package cmd implements the guessverify command line.
package cmd

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at link time.
var Version = "dev"

// NewCommand builds the root command writing to out and logging to errOut.
func NewCommand(out, errOut io.Writer) *cobra.Command {
	var level string

	root := &cobra.Command{
		Use:           "guessverify",
		Short:         "Verify generated password guesses against a known-password corpus",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return setUpLogs(errOut, level)
	}
	root.PersistentFlags().StringVarP(&level, "verbosity", "v", logrus.InfoLevel.String(), "Log level (debug, info, warn, error, fatal, panic)")

	root.AddCommand(newCmdRun())
	root.AddCommand(newCmdLocal())
	root.AddCommand(newCmdDigest())
	root.AddCommand(newCmdVersion())
	return root
}

func setUpLogs(out io.Writer, level string) error {
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "parsing log level")
	}
	logrus.SetLevel(lvl)
	return nil
}
