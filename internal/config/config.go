// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

// Package config holds the options of a verification run. Values come from
// the defaults, then an optional YAML file, then command line flags.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// DefaultCorpus is read both to train the model and to build the known set.
const DefaultCorpus = "/guessdata/Rockyou-singleLined-full.txt"

// Options of one rank.
type Options struct {
	ConfigFile string `yaml:"-"`

	Corpus    string `yaml:"corpus"`
	KnownPath string `yaml:"known_path"` // defaults to Corpus

	KnownLimit    int           `yaml:"known_limit"`
	Threshold     int64         `yaml:"threshold"`
	BatchPerRank  int           `yaml:"batch_per_rank"`
	ClearEvery    int64         `yaml:"clear_every"`
	ProgressEvery int64         `yaml:"progress_every"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	LaneHashing   bool          `yaml:"lane_hashing"`

	Rank         int           `yaml:"rank"`
	Size         int           `yaml:"size"`
	Run          string        `yaml:"run"`
	HubAddr      string        `yaml:"hub_addr"`
	JoinTimeout  time.Duration `yaml:"join_timeout"`
	RoundTimeout time.Duration `yaml:"round_timeout"`

	CrackedDB   string `yaml:"cracked_db"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Defaults returns the options of a plain run.
func Defaults() Options {
	return Options{
		Corpus:        DefaultCorpus,
		KnownLimit:    1000000,
		Threshold:     10000000,
		BatchPerRank:  1,
		ClearEvery:    1000000,
		ProgressEvery: 500000,
		PollInterval:  time.Millisecond,
		Rank:          -1,
		Size:          0,
		HubAddr:       "127.0.0.1:7946",
		JoinTimeout:   30 * time.Second,
		RoundTimeout:  5 * time.Minute,
	}
}

// AddFlags registers the run flags on fs, bound to o.
func AddFlags(fs *pflag.FlagSet, o *Options) {
	fs.StringVarP(&o.ConfigFile, "config", "c", o.ConfigFile, "YAML file with options; flags given explicitly win")
	fs.StringVar(&o.Corpus, "corpus", o.Corpus, "Training corpus")
	fs.StringVar(&o.KnownPath, "known", o.KnownPath, "Corpus of known passwords (default: same as --corpus)")
	fs.IntVar(&o.KnownLimit, "known-limit", o.KnownLimit, "Number of known-password tokens to load")
	fs.Int64Var(&o.Threshold, "threshold", o.Threshold, "Stop once this many guesses have been hashed over all ranks")
	fs.IntVar(&o.BatchPerRank, "batch-per-rank", o.BatchPerRank, "Units of model work per iteration, multiplied by the number of ranks")
	fs.Int64Var(&o.ClearEvery, "clear-every", o.ClearEvery, "Drop generated guesses from the model once this many accumulated")
	fs.Int64Var(&o.ProgressEvery, "progress-every", o.ProgressEvery, "Log progress each time the hashed total crosses a multiple of this")
	fs.DurationVar(&o.PollInterval, "poll-interval", o.PollInterval, "Hash worker poll interval when the queue is empty")
	fs.BoolVar(&o.LaneHashing, "lanes", o.LaneHashing, "Hash in 4/8 lane batches instead of one guess at a time")
	fs.IntVar(&o.Rank, "rank", o.Rank, "Rank of this process (default: from the launcher environment)")
	fs.IntVar(&o.Size, "size", o.Size, "Number of ranks (default: from the launcher environment)")
	fs.StringVar(&o.Run, "run-id", o.Run, "Run id shared by all ranks")
	fs.StringVar(&o.HubAddr, "hub", o.HubAddr, "Address rank 0 serves the collective hub on")
	fs.DurationVar(&o.JoinTimeout, "join-timeout", o.JoinTimeout, "How long ranks wait for the hub to come up")
	fs.DurationVar(&o.RoundTimeout, "round-timeout", o.RoundTimeout, "Abort the run when a rank misses a collective round for this long (0: wait forever)")
	fs.StringVar(&o.CrackedDB, "cracked-db", o.CrackedDB, "Record cracked guesses in this bolt database")
	fs.StringVar(&o.MetricsAddr, "metrics-addr", o.MetricsAddr, "Serve prometheus metrics on this address")
}

// LoadFile reads YAML options from path over o.
func LoadFile(path string, o *Options) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(buf, o); err != nil {
		return errors.Wrapf(err, "parsing config %s", path)
	}
	return nil
}

// Resolve applies o.ConfigFile, if set, under the flags the user gave on fs.
func Resolve(fs *pflag.FlagSet, o *Options) error {
	if o.ConfigFile == "" {
		return nil
	}
	changed := map[string]string{}
	fs.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})
	if err := LoadFile(o.ConfigFile, o); err != nil {
		return err
	}
	for name, v := range changed {
		if err := fs.Set(name, v); err != nil {
			return errors.Wrapf(err, "re-applying --%s", name)
		}
	}
	return nil
}

// Known returns the path of the known-password corpus.
func (o *Options) Known() string {
	if o.KnownPath != "" {
		return o.KnownPath
	}
	return o.Corpus
}

// Validate checks o for values the run cannot work with.
func (o *Options) Validate() error {
	switch {
	case o.Corpus == "":
		return errors.New("corpus path is empty")
	case o.KnownLimit < 1:
		return errors.Errorf("known limit %d must be at least 1", o.KnownLimit)
	case o.Threshold <= 0:
		return errors.Errorf("threshold %d must be positive", o.Threshold)
	case o.BatchPerRank < 1:
		return errors.Errorf("batch per rank %d must be at least 1", o.BatchPerRank)
	case o.ClearEvery < 1:
		return errors.Errorf("clear every %d must be at least 1", o.ClearEvery)
	case o.ProgressEvery < 1:
		return errors.Errorf("progress every %d must be at least 1", o.ProgressEvery)
	case o.PollInterval <= 0:
		return errors.Errorf("poll interval %v must be positive", o.PollInterval)
	case o.RoundTimeout < 0:
		return errors.Errorf("round timeout %v is negative", o.RoundTimeout)
	case o.Size < 0:
		return errors.Errorf("size %d is negative", o.Size)
	case o.Size > 0 && o.Rank >= o.Size:
		return errors.Errorf("rank %d outside group of %d", o.Rank, o.Size)
	}
	return nil
}
