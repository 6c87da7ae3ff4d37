// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package model

import (
	"os"
	"sort"

	"github.com/pkg/errors"
)

// DefaultSuffixes are appended to every base word, the empty suffix first.
var DefaultSuffixes = []string{"", "1", "123", "!", "2020"}

// Wordlist is a reference model: it learns token frequencies from the corpus
// and emits the most frequent words first, each followed by a few suffixed
// variants. Units of work are the ordered words, dealt out round robin so
// that rank r owns the units i with i mod size == r.
type Wordlist struct {
	rank, size int
	suffixes   []string

	counts  map[string]int
	ordered []string
	queue   []int
	guesses []string
}

// NewWordlist creates the generator of rank out of size ranks.
func NewWordlist(rank, size int) *Wordlist {
	if size < 1 {
		size = 1
	}
	return &Wordlist{
		rank:     rank,
		size:     size,
		suffixes: DefaultSuffixes,
		counts:   make(map[string]int),
	}
}

// WithSuffixes replaces the suffix set.
func (w *Wordlist) WithSuffixes(s []string) *Wordlist {
	w.suffixes = s
	return w
}

// Train counts every token of the corpus.
func (w *Wordlist) Train(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open training corpus")
	}
	defer f.Close()

	_, err = ScanTokens(f, 0, func(tok string) {
		w.counts[tok]++
	})
	return errors.Wrapf(err, "train on %s", path)
}

// Order sorts the learned words by descending frequency, ties alphabetical.
func (w *Wordlist) Order() {
	w.ordered = w.ordered[:0]
	for tok := range w.counts {
		w.ordered = append(w.ordered, tok)
	}
	sort.Slice(w.ordered, func(i, j int) bool {
		a, b := w.ordered[i], w.ordered[j]
		if w.counts[a] != w.counts[b] {
			return w.counts[a] > w.counts[b]
		}
		return a < b
	})
}

// Init queues this rank's share of the ordered words.
func (w *Wordlist) Init() {
	w.queue = w.queue[:0]
	for i := w.rank; i < len(w.ordered); i += w.size {
		w.queue = append(w.queue, i)
	}
	w.guesses = nil
}

func (w *Wordlist) Empty() bool { return len(w.queue) == 0 }

func (w *Wordlist) PopNext() { w.PopNextBatch(1) }

func (w *Wordlist) PopNextBatch(k int) {
	if k > len(w.queue) {
		k = len(w.queue)
	}
	for _, i := range w.queue[:k] {
		base := w.ordered[i]
		for _, s := range w.suffixes {
			w.guesses = append(w.guesses, base+s)
		}
	}
	w.queue = w.queue[k:]
}

func (w *Wordlist) Guesses() []string { return w.guesses }

func (w *Wordlist) ClearGuesses() { w.guesses = nil }
