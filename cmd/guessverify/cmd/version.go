// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	md5simd "github.com/pcfg-lab/md5-simd"
)

func newCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and the selected hashing kernel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := md5simd.NewEngine()
			defer e.Close()
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "guessverify %s %s/%s (%s kernel, %d lanes)\n",
				Version, runtime.GOOS, runtime.GOARCH, e.Kernel(), e.Lanes())
			return err
		},
	}
}
