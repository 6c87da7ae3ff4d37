// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScanTokens(t *testing.T) {
	var got []string
	n, err := ScanTokens(strings.NewReader(" a\tbb\n\nccc  d "), 0, func(tok string) {
		got = append(got, tok)
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []string{"a", "bb", "ccc", "d"}, got)

	got = got[:0]
	n, err = ScanTokens(strings.NewReader("a b c d"), 2, func(tok string) {
		got = append(got, tok)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestWordlistOrder(t *testing.T) {
	path := writeCorpus(t, "zed abc abc password password password abc qqq\n")

	w := NewWordlist(0, 1).WithSuffixes([]string{""})
	require.NoError(t, w.Train(path))
	w.Order()
	w.Init()

	var all []string
	for !w.Empty() {
		w.PopNext()
	}
	all = append(all, w.Guesses()...)
	// equal counts fall back to alphabetical order
	assert.Equal(t, []string{"abc", "password", "qqq", "zed"}, all)
}

func TestWordlistSuffixes(t *testing.T) {
	path := writeCorpus(t, "abc")

	w := NewWordlist(0, 1).WithSuffixes([]string{"", "1", "!"})
	require.NoError(t, w.Train(path))
	w.Order()
	w.Init()
	w.PopNextBatch(10)
	assert.Equal(t, []string{"abc", "abc1", "abc!"}, w.Guesses())
	assert.True(t, w.Empty())

	w.ClearGuesses()
	assert.Empty(t, w.Guesses())
}

func TestWordlistPartition(t *testing.T) {
	path := writeCorpus(t, "a b c d e f g")

	seen := map[string]int{}
	for rank := 0; rank < 3; rank++ {
		w := NewWordlist(rank, 3).WithSuffixes([]string{""})
		require.NoError(t, w.Train(path))
		w.Order()
		w.Init()
		for !w.Empty() {
			w.PopNextBatch(2)
		}
		for _, g := range w.Guesses() {
			seen[g]++
		}
	}
	assert.Len(t, seen, 7)
	for g, n := range seen {
		assert.Equal(t, 1, n, "guess %q produced by %d ranks", g, n)
	}
}

func TestWordlistMissingCorpus(t *testing.T) {
	w := NewWordlist(0, 1)
	err := w.Train(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)

	w.Order()
	w.Init()
	assert.True(t, w.Empty())
}

func TestStatic(t *testing.T) {
	var m Model = NewStatic([][]string{{"abc", "xyz"}, {"password"}, {"qqq"}})
	require.NoError(t, m.Train("ignored"))
	m.Order()
	m.Init()

	assert.False(t, m.Empty())
	m.PopNextBatch(2)
	assert.Equal(t, []string{"abc", "xyz", "password"}, m.Guesses())
	m.PopNext()
	assert.True(t, m.Empty())
	m.PopNext()
	assert.Equal(t, []string{"abc", "xyz", "password", "qqq"}, m.Guesses())

	m.Init()
	assert.False(t, m.Empty())
	assert.Empty(t, m.Guesses())
}
