// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package cmd

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	md5simd "github.com/pcfg-lab/md5-simd"
)

func newCmdDigest() *cobra.Command {
	var lanes bool

	cmd := &cobra.Command{
		Use:   "digest [string...]",
		Short: "Print the MD5 digest of each argument",
		RunE: func(cmd *cobra.Command, args []string) error {
			var sums []md5simd.State
			if lanes {
				e := md5simd.NewEngine()
				defer e.Close()
				sums = e.SumBatch(args)
			} else {
				for _, a := range args {
					sums = append(sums, md5simd.Sum(a))
				}
			}

			w := bufio.NewWriter(cmd.OutOrStdout())
			for i, s := range sums {
				fmt.Fprintf(w, "%s  %s\n", s.Hex(), args[i])
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&lanes, "lanes", false, "Hash the arguments in lane batches")
	return cmd
}
