// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

// Package model defines the guess generator the verification loop drives,
// and two small generators that implement it.
package model

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Model produces password guesses unit by unit. Guesses accumulate in an
// externally visible slice until ClearGuesses.
//
// A Model is driven by a single goroutine.
type Model interface {
	// Train reads the corpus at path.
	Train(path string) error
	// Order ranks what Train learned; called once after Train.
	Order()
	// Init resets generation and fills the work queue.
	Init()
	// Empty reports whether the work queue is exhausted.
	Empty() bool
	// PopNext expands the next unit of work into guesses.
	PopNext()
	// PopNextBatch expands up to k units.
	PopNextBatch(k int)
	// Guesses returns everything produced since the last ClearGuesses.
	Guesses() []string
	// ClearGuesses drops the produced guesses.
	ClearGuesses()
}

const maxToken = 1 << 20

// ScanTokens calls fn for each whitespace delimited token in r, stopping
// after limit tokens when limit > 0.
func ScanTokens(r io.Reader, limit int, fn func(tok string)) (n int, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxToken)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		fn(sc.Text())
		n++
		if limit > 0 && n >= limit {
			break
		}
	}
	return n, errors.Wrap(sc.Err(), "scanning tokens")
}
