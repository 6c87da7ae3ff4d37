// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

// Command guessverify generates password guesses on one or more ranks and
// verifies them against a known-password corpus.
package main

import (
	"os"

	"github.com/pcfg-lab/md5-simd/cmd/guessverify/cmd"
)

func main() {
	if err := cmd.NewCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
