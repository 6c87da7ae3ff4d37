// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcfg-lab/md5-simd/internal/collective"
	"github.com/pcfg-lab/md5-simd/internal/config"
	"github.com/pcfg-lab/md5-simd/internal/crackstore"
	"github.com/pcfg-lab/md5-simd/internal/verify"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewCommand(&out, &errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestDigest(t *testing.T) {
	for _, lanes := range []string{"--lanes=false", "--lanes=true"} {
		out, err := execute(t, "digest", lanes, "", "abc", "password")
		require.NoError(t, err)
		assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e  \n"+
			"900150983cd24fb0d6963f7d28e17f72  abc\n"+
			"5f4dcc3b5aa765d61d8327deb882cf99  password\n", out)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "guessverify dev "), out)
	assert.Contains(t, out, "kernel")
}

func TestBadVerbosity(t *testing.T) {
	_, err := execute(t, "-v", "loud", "version")
	assert.Error(t, err)
}

func TestLocalRun(t *testing.T) {
	dir := t.TempDir()
	corpus := filepath.Join(dir, "corpus.txt")
	require.NoError(t, os.WriteFile(corpus, []byte("abc password abc xyz qqq abc1\n"), 0o644))
	db := filepath.Join(dir, "cracked.db")

	out, err := execute(t, "local", "-n", "3", "--corpus", corpus, "--cracked-db", db, "--lanes", "-v", "error")
	require.NoError(t, err)

	// 5 distinct words, 5 suffixes each; abc, abc1, password, xyz, qqq are known
	// and abc1 also comes out as abc + "1"
	assert.Contains(t, out, "Ranks:      3")
	assert.Contains(t, out, "Generated:  25")
	assert.Contains(t, out, "Hashed:     25")
	assert.Contains(t, out, "Cracked:    6 ")

	s, err := crackstore.Open(db)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestLocalRunMissingCorpus(t *testing.T) {
	out, err := execute(t, "local", "-n", "2", "--corpus", filepath.Join(t.TempDir(), "missing.txt"), "-v", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Hashed:     0")
}

func TestRunSingleRank(t *testing.T) {
	corpus := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(corpus, []byte("abc password"), 0o644))

	out, err := execute(t, "run", "--rank", "0", "--size", "1", "--corpus", corpus, "-v", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Hashed:     10")
	assert.Contains(t, out, "Cracked:    2 ")
}

func TestCrackDBPath(t *testing.T) {
	assert.Equal(t, "", crackDBPath("", 1, 4))
	assert.Equal(t, "c.db", crackDBPath("c.db", 0, 1))
	assert.Equal(t, "c.db.3", crackDBPath("c.db", 3, 4))
}

func TestDiscoverRank(t *testing.T) {
	t.Setenv("GUESSVERIFY_RANK", "2")
	t.Setenv("GUESSVERIFY_SIZE", "3")

	o := config.Defaults()
	require.NoError(t, discoverRank(&o))
	assert.Equal(t, 2, o.Rank)
	assert.Equal(t, 3, o.Size)

	o = config.Defaults()
	o.Rank, o.Size = 0, 5
	require.NoError(t, discoverRank(&o))
	assert.Equal(t, 5, o.Size)

	o = config.Defaults()
	o.Rank = 1
	assert.Error(t, discoverRank(&o))
}

func TestRanksOverHub(t *testing.T) {
	corpus := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(corpus, []byte("abc password"), 0o644))
	opts := config.Defaults()
	opts.Corpus = corpus
	opts.LaneHashing = true

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hub := collective.NewHub("hub-run", 2)
	require.NoError(t, hub.Listen("127.0.0.1:0"))
	defer hub.Close(context.Background())

	c1, err := collective.Dial(ctx, hub.Addr(), "", 1, collective.DialOptions{JoinTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer c1.Close()

	comms := []collective.Communicator{hub.Comm(), c1}
	reports := make([]verify.Report, 2)
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, c := range comms {
		wg.Add(1)
		go func(i int, c collective.Communicator) {
			defer wg.Done()
			log := logrus.WithField("rank", i)
			reports[i], errs[i] = runRank(ctx, opts, c, nil, verify.NewMetrics(i), log)
		}(i, c)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	// abc goes to rank 0 and password to rank 1, five variants each
	assert.Equal(t, int64(10), reports[0].Generated)
	assert.Equal(t, int64(10), reports[0].Hashed)
	assert.Equal(t, int64(2), reports[0].Cracked)
	assert.Equal(t, int64(5), reports[1].Hashed)
	assert.Equal(t, int64(1), reports[1].Cracked)
}

func TestServeMetrics(t *testing.T) {
	m := verify.NewMetrics(0)
	srv, err := serveMetrics("127.0.0.1:0", m.Handler())
	require.NoError(t, err)
	defer shutdown(srv)
	assert.NotZero(t, srv.ReadHeaderTimeout)
}
