// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package collective

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
)

// envPairs are checked in order; the first pair with both variables set wins.
var envPairs = [][2]string{
	{"GUESSVERIFY_RANK", "GUESSVERIFY_SIZE"},
	{"OMPI_COMM_WORLD_RANK", "OMPI_COMM_WORLD_SIZE"},
	{"PMI_RANK", "PMI_SIZE"},
}

// RankFromEnv returns the rank and group size advertised by the launcher.
// ok is false when no launcher variables are present.
func RankFromEnv() (rank, size int, ok bool, err error) {
	return rankFromLookup(os.LookupEnv)
}

func rankFromLookup(lookup func(string) (string, bool)) (rank, size int, ok bool, err error) {
	for _, p := range envPairs {
		rs, rok := lookup(p[0])
		ss, sok := lookup(p[1])
		if !rok || !sok {
			continue
		}
		if rank, err = strconv.Atoi(rs); err != nil {
			return 0, 0, false, errors.Wrapf(err, "parsing %s", p[0])
		}
		if size, err = strconv.Atoi(ss); err != nil {
			return 0, 0, false, errors.Wrapf(err, "parsing %s", p[1])
		}
		if size < 1 || rank < 0 || rank >= size {
			return 0, 0, false, errors.Errorf("%s=%d %s=%d is not a valid rank", p[0], rank, p[1], size)
		}
		return rank, size, true, nil
	}
	return 0, 1, false, nil
}
