// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	o := Defaults()
	require.NoError(t, o.Validate())
	assert.Equal(t, DefaultCorpus, o.Corpus)
	assert.Equal(t, DefaultCorpus, o.Known())
	assert.Equal(t, int64(10000000), o.Threshold)
	assert.Equal(t, 1000000, o.KnownLimit)
	assert.Equal(t, time.Millisecond, o.PollInterval)
	assert.Equal(t, 5*time.Minute, o.RoundTimeout)
}

func TestResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
corpus: /data/train.txt
known_path: /data/known.txt
threshold: 5000
poll_interval: 5ms
lane_hashing: true
`), 0o644))

	o := Defaults()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs, &o)
	require.NoError(t, fs.Parse([]string{"--config", path, "--threshold", "42"}))
	require.NoError(t, Resolve(fs, &o))

	assert.Equal(t, "/data/train.txt", o.Corpus)
	assert.Equal(t, "/data/known.txt", o.Known())
	assert.Equal(t, 5*time.Millisecond, o.PollInterval)
	assert.True(t, o.LaneHashing)
	// flag beats file
	assert.Equal(t, int64(42), o.Threshold)
	// untouched by either
	assert.Equal(t, 1, o.BatchPerRank)
}

func TestResolveWithoutFile(t *testing.T) {
	o := Defaults()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(fs, &o)
	require.NoError(t, fs.Parse([]string{"--lanes"}))
	require.NoError(t, Resolve(fs, &o))
	assert.True(t, o.LaneHashing)
}

func TestLoadFileErrors(t *testing.T) {
	o := Defaults()
	assert.Error(t, LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &o))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: [1, 2"), 0o644))
	assert.Error(t, LoadFile(path, &o))
}

func TestValidate(t *testing.T) {
	for name, mutate := range map[string]func(o *Options){
		"corpus":    func(o *Options) { o.Corpus = "" },
		"threshold": func(o *Options) { o.Threshold = 0 },
		"batch":     func(o *Options) { o.BatchPerRank = 0 },
		"clear":     func(o *Options) { o.ClearEvery = 0 },
		"progress":  func(o *Options) { o.ProgressEvery = 0 },
		"poll":      func(o *Options) { o.PollInterval = 0 },
		"rank":      func(o *Options) { o.Rank, o.Size = 2, 2 },
		"limit":     func(o *Options) { o.KnownLimit = -1 },
		"no limit":  func(o *Options) { o.KnownLimit = 0 },
		"round":     func(o *Options) { o.RoundTimeout = -time.Second },
	} {
		t.Run(name, func(t *testing.T) {
			o := Defaults()
			mutate(&o)
			assert.Error(t, o.Validate())
		})
	}
}
